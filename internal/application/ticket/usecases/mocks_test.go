package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/ezpsa-inc/ezpsa/internal/domain/ticket"
	"github.com/ezpsa-inc/ezpsa/internal/shared/logger"
)

type mockTicketFetcher struct {
	mu      sync.Mutex
	queries []ticket.PageQuery

	FetchTicketPageFunc func(ctx context.Context, q ticket.PageQuery) ([]ticket.Ticket, error)
}

func (m *mockTicketFetcher) FetchTicketPage(ctx context.Context, q ticket.PageQuery) ([]ticket.Ticket, error) {
	m.mu.Lock()
	m.queries = append(m.queries, q)
	m.mu.Unlock()
	if m.FetchTicketPageFunc != nil {
		return m.FetchTicketPageFunc(ctx, q)
	}
	return nil, nil
}

func (m *mockTicketFetcher) Queries() []ticket.PageQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ticket.PageQuery(nil), m.queries...)
}

type mockTicketWriter struct {
	CreateTicketFunc      func(ctx context.Context, payload ticket.NewTicket) (*ticket.Ticket, error)
	PatchTicketStatusFunc func(ctx context.Context, ticketID int, statusLabel string) (*ticket.Ticket, error)
}

func (m *mockTicketWriter) CreateTicket(ctx context.Context, payload ticket.NewTicket) (*ticket.Ticket, error) {
	if m.CreateTicketFunc != nil {
		return m.CreateTicketFunc(ctx, payload)
	}
	return &ticket.Ticket{}, nil
}

func (m *mockTicketWriter) PatchTicketStatus(ctx context.Context, ticketID int, statusLabel string) (*ticket.Ticket, error) {
	if m.PatchTicketStatusFunc != nil {
		return m.PatchTicketStatusFunc(ctx, ticketID, statusLabel)
	}
	return &ticket.Ticket{ID: ticketID, Status: statusLabel}, nil
}

type mockActivityReader struct {
	GetTicketFunc       func(ctx context.Context, ticketID int) (*ticket.Ticket, error)
	ListNotesFunc       func(ctx context.Context, href string) ([]ticket.Note, error)
	ListTimeEntriesFunc func(ctx context.Context, href string) ([]ticket.TimeEntry, error)
}

func (m *mockActivityReader) GetTicket(ctx context.Context, ticketID int) (*ticket.Ticket, error) {
	if m.GetTicketFunc != nil {
		return m.GetTicketFunc(ctx, ticketID)
	}
	return &ticket.Ticket{ID: ticketID}, nil
}

func (m *mockActivityReader) ListNotes(ctx context.Context, href string) ([]ticket.Note, error) {
	if m.ListNotesFunc != nil {
		return m.ListNotesFunc(ctx, href)
	}
	return nil, nil
}

func (m *mockActivityReader) ListTimeEntries(ctx context.Context, href string) ([]ticket.TimeEntry, error) {
	if m.ListTimeEntriesFunc != nil {
		return m.ListTimeEntriesFunc(ctx, href)
	}
	return nil, nil
}

type mockDirectoryReader struct {
	ListCompaniesFunc func(ctx context.Context, pageSize, page int) ([]ticket.Company, error)
	ListBoardsFunc    func(ctx context.Context, pageSize, page int) ([]ticket.Board, error)
}

func (m *mockDirectoryReader) ListCompanies(ctx context.Context, pageSize, page int) ([]ticket.Company, error) {
	if m.ListCompaniesFunc != nil {
		return m.ListCompaniesFunc(ctx, pageSize, page)
	}
	return nil, nil
}

func (m *mockDirectoryReader) ListBoards(ctx context.Context, pageSize, page int) ([]ticket.Board, error) {
	if m.ListBoardsFunc != nil {
		return m.ListBoardsFunc(ctx, pageSize, page)
	}
	return nil, nil
}

type mockTimeEntryReader struct {
	ListTimeEntriesEnteredFunc func(ctx context.Context, from, to time.Time, pageSize, page int) ([]ticket.TimeEntry, error)
}

func (m *mockTimeEntryReader) ListTimeEntriesEntered(ctx context.Context, from, to time.Time, pageSize, page int) ([]ticket.TimeEntry, error) {
	if m.ListTimeEntriesEnteredFunc != nil {
		return m.ListTimeEntriesEnteredFunc(ctx, from, to, pageSize, page)
	}
	return nil, nil
}

type mockLeaderboardCache struct {
	GetFunc func(ctx context.Context, year int) ([]ticket.MemberStats, bool, error)
	SetFunc func(ctx context.Context, year int, stats []ticket.MemberStats) error
}

func (m *mockLeaderboardCache) Get(ctx context.Context, year int) ([]ticket.MemberStats, bool, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, year)
	}
	return nil, false, nil
}

func (m *mockLeaderboardCache) Set(ctx context.Context, year int, stats []ticket.MemberStats) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, year, stats)
	}
	return nil
}

// memoryCacheStore is a minimal ticket.CacheStore with one lock per board.
type memoryCacheStore struct {
	mu      sync.Mutex
	entries map[string]*ticket.BoardCacheEntry
	locks   map[string]*sync.Mutex
}

func newMemoryCacheStore() *memoryCacheStore {
	return &memoryCacheStore{
		entries: make(map[string]*ticket.BoardCacheEntry),
		locks:   make(map[string]*sync.Mutex),
	}
}

func (s *memoryCacheStore) Get(board string) (*ticket.BoardCacheEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[board]
	return e.Clone(), ok
}

func (s *memoryCacheStore) Put(board string, entry *ticket.BoardCacheEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[board] = entry.Clone()
}

func (s *memoryCacheStore) Lock(board string) func() {
	s.mu.Lock()
	l, ok := s.locks[board]
	if !ok {
		l = &sync.Mutex{}
		s.locks[board] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// recordingLogger keeps the messages of warnings and errors.
type recordingLogger struct {
	logger.Nop
	mu     sync.Mutex
	warns  []string
	errors []string
}

func (l *recordingLogger) Warnw(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *recordingLogger) Errorw(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func (l *recordingLogger) Warnings() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.warns...)
}

func (l *recordingLogger) Errors() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.errors...)
}
