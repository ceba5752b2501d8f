package ticket

import (
	"slices"
	"time"
)

// SyncMode selects how a fetched batch is folded into a board's cache.
type SyncMode int

const (
	// SyncModeFull replaces the board's tickets with a complete re-fetch.
	SyncModeFull SyncMode = iota
	// SyncModePartial merges one page of recently updated tickets.
	SyncModePartial
)

func (m SyncMode) String() string {
	if m == SyncModePartial {
		return "partial"
	}
	return "full"
}

const (
	// DefaultPageSize is the upstream page size used for ticket fetches.
	DefaultPageSize = 100
	// DefaultMaxPages bounds a full fetch to DefaultMaxPages*DefaultPageSize tickets.
	DefaultMaxPages = 10
	// DefaultRecencyWindow is how many leading cached tickets a partial merge reconciles.
	DefaultRecencyWindow = 100
)

// ResolveMode picks the mode actually used for a sync request. Partial is only
// possible against a non-empty cache.
func ResolveMode(partialRequested bool, existing *BoardCacheEntry) SyncMode {
	if partialRequested && !existing.IsEmpty() {
		return SyncModePartial
	}
	return SyncModeFull
}

// ReplaceAll builds the entry for a full sync. The batch keeps upstream order;
// if paging returned the same ticket twice only the first occurrence is kept.
func ReplaceAll(existing *BoardCacheEntry, batch []Ticket, now time.Time) *BoardCacheEntry {
	seen := make(map[int]struct{}, len(batch))
	tickets := make([]Ticket, 0, len(batch))
	for _, t := range batch {
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		tickets = append(tickets, t)
	}
	return &BoardCacheEntry{
		Tickets:         tickets,
		LastRefreshedAt: refreshedAt(existing, now),
	}
}

// MergeRecent builds the entry for a partial sync.
//
// The first window cached tickets are reconciled against batch: any of them
// missing from batch has left the open set and is dropped. Tickets past the
// window are kept as they are. Each fetched ticket then either replaces a
// cached copy it is strictly newer than, is discarded as stale, or is added.
// The result is re-sorted by LastUpdated descending.
//
// Closed tickets ranked beyond the window are not reconciled and stay cached
// until the next full sync.
func MergeRecent(existing *BoardCacheEntry, batch []Ticket, window int, now time.Time) *BoardCacheEntry {
	var current []Ticket
	if existing != nil {
		current = existing.Tickets
	}

	if len(batch) == 0 {
		return &BoardCacheEntry{
			Tickets:         slices.Clone(current),
			LastRefreshedAt: refreshedAt(existing, now),
		}
	}

	if window < 0 {
		window = 0
	}
	if window > len(current) {
		window = len(current)
	}

	fetched := make(map[int]struct{}, len(batch))
	for _, t := range batch {
		fetched[t.ID] = struct{}{}
	}

	merged := make([]Ticket, 0, len(current)+len(batch))
	for _, t := range current[:window] {
		if _, ok := fetched[t.ID]; ok {
			merged = append(merged, t)
		}
	}
	merged = append(merged, current[window:]...)

	position := make(map[int]int, len(merged))
	for i, t := range merged {
		position[t.ID] = i
	}

	for _, t := range batch {
		i, ok := position[t.ID]
		if !ok {
			position[t.ID] = len(merged)
			merged = append(merged, t)
			continue
		}
		if t.NewerThan(merged[i]) {
			merged[i] = t
		}
	}

	SortByRecency(merged)

	return &BoardCacheEntry{
		Tickets:         merged,
		LastRefreshedAt: refreshedAt(existing, now),
	}
}

// SortByRecency orders tickets by LastUpdated descending. Equal timestamps keep
// their relative order.
func SortByRecency(tickets []Ticket) {
	slices.SortStableFunc(tickets, func(a, b Ticket) int {
		return b.LastUpdated.Compare(a.LastUpdated)
	})
}

// refreshedAt keeps LastRefreshedAt from moving backwards if the wall clock does.
func refreshedAt(existing *BoardCacheEntry, now time.Time) time.Time {
	if existing != nil && existing.LastRefreshedAt.After(now) {
		return existing.LastRefreshedAt
	}
	return now
}
