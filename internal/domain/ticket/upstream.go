package ticket

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// PageQuery selects one page of tickets upstream.
type PageQuery struct {
	Board      string
	Conditions string
	OrderBy    string
	PageSize   int
	Page       int
}

// OpenTicketsQuery selects page of the board's open tickets, most recently
// updated first.
func OpenTicketsQuery(board string, pageSize, page int) PageQuery {
	return PageQuery{
		Board:      board,
		Conditions: fmt.Sprintf(`board/name="%s" and closedFlag=false`, strings.ReplaceAll(board, `"`, `\"`)),
		OrderBy:    "lastUpdated desc",
		PageSize:   pageSize,
		Page:       page,
	}
}

// TicketFetcher reads ticket pages. An empty page marks the end of the data.
// Failures are returned as *FetchError.
type TicketFetcher interface {
	FetchTicketPage(ctx context.Context, q PageQuery) ([]Ticket, error)
}

// TicketWriter creates and updates tickets. Failures are returned as *WriteError.
type TicketWriter interface {
	CreateTicket(ctx context.Context, payload NewTicket) (*Ticket, error)
	PatchTicketStatus(ctx context.Context, ticketID int, statusLabel string) (*Ticket, error)
}

// ActivityReader reads a single ticket and its notes and time entries.
type ActivityReader interface {
	GetTicket(ctx context.Context, ticketID int) (*Ticket, error)
	ListNotes(ctx context.Context, href string) ([]Note, error)
	ListTimeEntries(ctx context.Context, href string) ([]TimeEntry, error)
}

// DirectoryReader pages through companies and boards.
type DirectoryReader interface {
	ListCompanies(ctx context.Context, pageSize, page int) ([]Company, error)
	ListBoards(ctx context.Context, pageSize, page int) ([]Board, error)
}

// TimeEntryReader pages through time entries entered in [from, to).
type TimeEntryReader interface {
	ListTimeEntriesEntered(ctx context.Context, from, to time.Time, pageSize, page int) ([]TimeEntry, error)
}
