package ticket

import (
	"slices"
	"time"
)

// BoardCacheEntry is one board's cached ticket set. Tickets are ordered by
// LastUpdated descending and IDs are unique. An entry is immutable once it has
// been handed to a CacheStore; merges always build a new entry.
type BoardCacheEntry struct {
	Tickets         []Ticket
	LastRefreshedAt time.Time
}

// IsEmpty reports whether the entry holds no tickets. A nil entry is empty.
func (e *BoardCacheEntry) IsEmpty() bool {
	return e == nil || len(e.Tickets) == 0
}

// Clone returns a deep copy of e.
func (e *BoardCacheEntry) Clone() *BoardCacheEntry {
	if e == nil {
		return nil
	}
	return &BoardCacheEntry{
		Tickets:         slices.Clone(e.Tickets),
		LastRefreshedAt: e.LastRefreshedAt,
	}
}

// Visible returns the tickets whose status is not in hidden, preserving order.
// Closed tickets stay in the cache; they are only filtered for display.
func (e *BoardCacheEntry) Visible(hidden []string) []Ticket {
	if e == nil {
		return nil
	}
	out := make([]Ticket, 0, len(e.Tickets))
	for _, t := range e.Tickets {
		if t.HasStatus(hidden) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// CacheStore maps board names to their cached entries for the life of the
// process.
//
// Get and Put replace and observe entries as a unit. Lock serializes writers
// of a single board; it must not block writers of other boards.
type CacheStore interface {
	Get(board string) (*BoardCacheEntry, bool)
	Put(board string, entry *BoardCacheEntry)
	Lock(board string) (unlock func())
}
