package usecases

import (
	"context"
	"strings"

	"github.com/coder/quartz"

	"github.com/ezpsa-inc/ezpsa/internal/domain/ticket"
	"github.com/ezpsa-inc/ezpsa/internal/shared/errors"
	"github.com/ezpsa-inc/ezpsa/internal/shared/logger"
)

type SyncBoardCommand struct {
	Board   string
	Partial bool
}

type SyncBoardResult struct {
	Board   string
	Mode    ticket.SyncMode
	Fetched int
	Entry   *ticket.BoardCacheEntry
}

// SyncSettings bounds upstream paging for a board sync.
type SyncSettings struct {
	PageSize      int
	MaxPages      int
	RecencyWindow int
}

func (s SyncSettings) withDefaults() SyncSettings {
	if s.PageSize <= 0 {
		s.PageSize = ticket.DefaultPageSize
	}
	if s.MaxPages <= 0 {
		s.MaxPages = ticket.DefaultMaxPages
	}
	if s.RecencyWindow <= 0 {
		s.RecencyWindow = ticket.DefaultRecencyWindow
	}
	return s
}

// SyncBoardUseCase refreshes one board's cached tickets from upstream and
// returns the resulting entry.
type SyncBoardUseCase struct {
	fetcher  ticket.TicketFetcher
	store    ticket.CacheStore
	settings SyncSettings
	clock    quartz.Clock
	logger   logger.Interface
}

func NewSyncBoardUseCase(
	fetcher ticket.TicketFetcher,
	store ticket.CacheStore,
	settings SyncSettings,
	clock quartz.Clock,
	logger logger.Interface,
) *SyncBoardUseCase {
	return &SyncBoardUseCase{
		fetcher:  fetcher,
		store:    store,
		settings: settings.withDefaults(),
		clock:    clock,
		logger:   logger,
	}
}

// Execute holds the board's writer lock for the whole fetch and merge, so
// syncs of one board never interleave. On a fetch failure the cached entry is
// left exactly as it was.
func (uc *SyncBoardUseCase) Execute(ctx context.Context, cmd SyncBoardCommand) (*SyncBoardResult, error) {
	board := strings.TrimSpace(cmd.Board)
	if board == "" {
		return nil, errors.NewValidationError("board parameter is required")
	}

	start := uc.clock.Now()
	unlock := uc.store.Lock(board)
	defer unlock()

	existing, _ := uc.store.Get(board)
	mode := ticket.ResolveMode(cmd.Partial, existing)

	var (
		batch []ticket.Ticket
		err   error
	)
	if mode == ticket.SyncModePartial {
		batch, err = uc.fetcher.FetchTicketPage(ctx, ticket.OpenTicketsQuery(board, uc.settings.PageSize, 1))
	} else {
		batch, err = uc.fetchAll(ctx, board)
	}
	if err != nil {
		uc.logger.Errorw("board sync failed, cache left unchanged",
			"board", board,
			"mode", mode.String(),
			"error", err,
		)
		return nil, upstreamReadError("failed to fetch tickets", err)
	}

	now := uc.clock.Now().UTC()
	var entry *ticket.BoardCacheEntry
	if mode == ticket.SyncModePartial {
		entry = ticket.MergeRecent(existing, batch, uc.settings.RecencyWindow, now)
	} else {
		entry = ticket.ReplaceAll(existing, batch, now)
	}
	uc.store.Put(board, entry)

	uc.logger.Infow("board synced",
		"board", board,
		"mode", mode.String(),
		"fetched", len(batch),
		"cached", len(entry.Tickets),
		"duration", uc.clock.Since(start),
	)

	return &SyncBoardResult{
		Board:   board,
		Mode:    mode,
		Fetched: len(batch),
		Entry:   entry,
	}, nil
}

// fetchAll pages through the board's open tickets until an empty page or the
// page cap.
func (uc *SyncBoardUseCase) fetchAll(ctx context.Context, board string) ([]ticket.Ticket, error) {
	var all []ticket.Ticket
	for page := 1; page <= uc.settings.MaxPages; page++ {
		batch, err := uc.fetcher.FetchTicketPage(ctx, ticket.OpenTicketsQuery(board, uc.settings.PageSize, page))
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			return all, nil
		}
		all = append(all, batch...)
	}

	uc.logger.Warnw("board has more open tickets than the page cap, keeping the most recent",
		"board", board,
		"max_pages", uc.settings.MaxPages,
		"kept", len(all),
	)
	return all, nil
}
