package ticket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoardCacheEntry_Visible(t *testing.T) {
	open := tk(1, 30)
	closed := tk(2, 20)
	closed.Status = ">Closed"
	cancelled := tk(3, 10)
	cancelled.Status = ">Cancelled"
	entry := &BoardCacheEntry{Tickets: []Ticket{open, closed, cancelled}}

	visible := entry.Visible([]string{">Closed", ">Closed (NO EMAIL)", ">Cancelled"})

	assert.Equal(t, []int{1}, ids(visible))
	assert.Len(t, entry.Tickets, 3, "filtering must not evict")
}

func TestBoardCacheEntry_CloneIsIndependent(t *testing.T) {
	entry := &BoardCacheEntry{Tickets: []Ticket{tk(1, 1)}, LastRefreshedAt: epoch}

	clone := entry.Clone()
	clone.Tickets[0].Summary = "changed"

	assert.Equal(t, "ticket", entry.Tickets[0].Summary)
	assert.Equal(t, entry.LastRefreshedAt, clone.LastRefreshedAt)

	var nilEntry *BoardCacheEntry
	assert.Nil(t, nilEntry.Clone())
	assert.True(t, nilEntry.IsEmpty())
	assert.Nil(t, nilEntry.Visible(nil))
}

func TestTicket_AssignedTo(t *testing.T) {
	assert.Equal(t, "Unassigned", Ticket{}.AssignedTo())
	assert.Equal(t, "Dana Lee", Ticket{Owner: "Dana Lee"}.AssignedTo())
}

func TestOpenTicketsQuery(t *testing.T) {
	q := OpenTicketsQuery(`Help "Desk"`, 100, 3)

	assert.Equal(t, `board/name="Help \"Desk\"" and closedFlag=false`, q.Conditions)
	assert.Equal(t, "lastUpdated desc", q.OrderBy)
	assert.Equal(t, 100, q.PageSize)
	assert.Equal(t, 3, q.Page)
}
