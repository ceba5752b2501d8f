package cache

import (
	"sync"
	"sync/atomic"

	"github.com/ezpsa-inc/ezpsa/internal/domain/ticket"
)

// boardSlot holds one board's entry and the lock serializing its writers.
// Readers load the entry pointer without taking the lock.
type boardSlot struct {
	writeMu sync.Mutex
	entry   atomic.Pointer[ticket.BoardCacheEntry]
}

// BoardCacheStore is the process-local ticket.CacheStore. Slots are created
// lazily and never evicted; the number of boards is small and fixed upstream.
type BoardCacheStore struct {
	slots sync.Map // board name -> *boardSlot
}

var _ ticket.CacheStore = (*BoardCacheStore)(nil)

func NewBoardCacheStore() *BoardCacheStore {
	return &BoardCacheStore{}
}

func (s *BoardCacheStore) slot(board string) *boardSlot {
	if v, ok := s.slots.Load(board); ok {
		return v.(*boardSlot)
	}
	v, _ := s.slots.LoadOrStore(board, &boardSlot{})
	return v.(*boardSlot)
}

// Get returns a copy of the board's entry. Callers may modify the copy freely.
func (s *BoardCacheStore) Get(board string) (*ticket.BoardCacheEntry, bool) {
	v, ok := s.slots.Load(board)
	if !ok {
		return nil, false
	}
	entry := v.(*boardSlot).entry.Load()
	if entry == nil {
		return nil, false
	}
	return entry.Clone(), true
}

// Put replaces the board's entry as a unit. The store keeps its own copy and
// never lets LastRefreshedAt move backwards.
func (s *BoardCacheStore) Put(board string, entry *ticket.BoardCacheEntry) {
	sl := s.slot(board)
	next := entry.Clone()
	if next == nil {
		next = &ticket.BoardCacheEntry{}
	}
	if prev := sl.entry.Load(); prev != nil && prev.LastRefreshedAt.After(next.LastRefreshedAt) {
		next.LastRefreshedAt = prev.LastRefreshedAt
	}
	sl.entry.Store(next)
}

// Lock acquires the board's writer lock. Locks of different boards are
// independent.
func (s *BoardCacheStore) Lock(board string) func() {
	sl := s.slot(board)
	sl.writeMu.Lock()
	return sl.writeMu.Unlock
}

// Boards lists the boards that currently have an entry.
func (s *BoardCacheStore) Boards() []string {
	var boards []string
	s.slots.Range(func(k, v any) bool {
		if v.(*boardSlot).entry.Load() != nil {
			boards = append(boards, k.(string))
		}
		return true
	})
	return boards
}
