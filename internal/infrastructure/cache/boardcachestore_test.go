package cache

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezpsa-inc/ezpsa/internal/domain/ticket"
)

var refreshed = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func entryOf(ids ...int) *ticket.BoardCacheEntry {
	e := &ticket.BoardCacheEntry{LastRefreshedAt: refreshed}
	for i, id := range ids {
		e.Tickets = append(e.Tickets, ticket.Ticket{ID: id, LastUpdated: refreshed.Add(-time.Duration(i) * time.Minute)})
	}
	return e
}

func TestBoardCacheStore_GetMissing(t *testing.T) {
	store := NewBoardCacheStore()

	entry, ok := store.Get("Help Desk")

	assert.False(t, ok)
	assert.Nil(t, entry)
}

func TestBoardCacheStore_PutGet(t *testing.T) {
	store := NewBoardCacheStore()
	store.Put("Help Desk", entryOf(1, 2, 3))

	entry, ok := store.Get("Help Desk")

	require.True(t, ok)
	assert.Len(t, entry.Tickets, 3)
	assert.Equal(t, refreshed, entry.LastRefreshedAt)

	_, ok = store.Get("Projects")
	assert.False(t, ok, "boards are independent")
}

func TestBoardCacheStore_IsolatedFromCallerMutation(t *testing.T) {
	store := NewBoardCacheStore()
	in := entryOf(1, 2)
	store.Put("Help Desk", in)

	in.Tickets[0].Summary = "mutated after put"
	out, _ := store.Get("Help Desk")
	out.Tickets[1].Summary = "mutated after get"

	again, _ := store.Get("Help Desk")
	assert.Empty(t, again.Tickets[0].Summary)
	assert.Empty(t, again.Tickets[1].Summary)
}

func TestBoardCacheStore_RefreshTimestampMonotonic(t *testing.T) {
	store := NewBoardCacheStore()
	store.Put("Help Desk", entryOf(1))

	older := entryOf(2)
	older.LastRefreshedAt = refreshed.Add(-time.Hour)
	store.Put("Help Desk", older)

	entry, _ := store.Get("Help Desk")
	assert.Equal(t, 2, entry.Tickets[0].ID)
	assert.Equal(t, refreshed, entry.LastRefreshedAt)
}

func TestBoardCacheStore_LockSerializesSameBoard(t *testing.T) {
	store := NewBoardCacheStore()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := store.Lock("Help Desk")
			defer unlock()
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
}

func TestBoardCacheStore_LockDoesNotBlockOtherBoards(t *testing.T) {
	store := NewBoardCacheStore()
	unlock := store.Lock("Help Desk")
	defer unlock()

	done := make(chan struct{})
	go func() {
		other := store.Lock("Projects")
		other()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock on another board blocked")
	}
}

func TestBoardCacheStore_ReadDuringWriteSeesWholeEntries(t *testing.T) {
	store := NewBoardCacheStore()
	store.Put("Help Desk", entryOf(1, 2, 3))

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			if i%2 == 0 {
				store.Put("Help Desk", entryOf(10, 11, 12, 13, 14))
			} else {
				store.Put("Help Desk", entryOf(1, 2, 3))
			}
		}
	}()

	for i := 0; i < 1000; i++ {
		entry, ok := store.Get("Help Desk")
		require.True(t, ok)
		n := len(entry.Tickets)
		require.True(t, n == 3 || n == 5, "observed partial entry of %d tickets", n)
		if n == 3 {
			assert.Equal(t, 1, entry.Tickets[0].ID)
		} else {
			assert.Equal(t, 10, entry.Tickets[0].ID)
		}
	}
	close(stop)
	wg.Wait()
}

func TestBoardCacheStore_Boards(t *testing.T) {
	store := NewBoardCacheStore()
	store.Put("Help Desk", entryOf(1))
	unlock := store.Lock("Projects")
	unlock()

	assert.Equal(t, []string{"Help Desk"}, store.Boards())
}
