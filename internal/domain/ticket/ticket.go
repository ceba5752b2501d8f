// Package ticket holds the board ticket model mirrored from the upstream
// ticketing service and the rules for keeping a board's cached copy current.
package ticket

import (
	"slices"
	"time"
)

// Ticket is a service ticket as last seen upstream. ID is the stable upstream
// identity; LastUpdated is the upstream-assigned version clock. The remaining
// attributes are carried for display and never interpreted by the merge.
type Ticket struct {
	ID              int
	Summary         string
	Status          string
	Company         string
	Owner           string
	LastUpdated     time.Time
	NotesHref       string
	TimeEntriesHref string
}

// AssignedTo returns the owner name, or "Unassigned".
func (t Ticket) AssignedTo() string {
	if t.Owner == "" {
		return "Unassigned"
	}
	return t.Owner
}

// HasStatus reports whether the ticket's status is one of statuses.
func (t Ticket) HasStatus(statuses []string) bool {
	return slices.Contains(statuses, t.Status)
}

// NewerThan reports whether t is a strictly newer version than other.
func (t Ticket) NewerThan(other Ticket) bool {
	return t.LastUpdated.After(other.LastUpdated)
}

// NewTicket is the write payload for creating a ticket upstream.
type NewTicket struct {
	Summary            string
	CompanyID          int
	Board              string
	Status             string
	InitialDescription string
}

// Company is an upstream company record offered when creating a ticket.
type Company struct {
	ID         int    `json:"id"`
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
}

// Board is an upstream service board.
type Board struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Inactive bool   `json:"inactive"`
}
