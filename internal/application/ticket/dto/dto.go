package dto

import (
	"strings"

	"github.com/ezpsa-inc/ezpsa/internal/domain/ticket"
	"github.com/ezpsa-inc/ezpsa/internal/shared/biztime"
)

const (
	ActivityTypeNote = "note"
	ActivityTypeTime = "time"
)

type QuickViewDTO struct {
	Summary string             `json:"summary"`
	Entries []ActivityEntryDTO `json:"entries"`
}

// ActivityEntryDTO is one note or time entry in a quick view. Text is
// sanitized HTML.
type ActivityEntryDTO struct {
	Type        string `json:"type"`
	DateCreated string `json:"dateCreated"`
	CreatedBy   string `json:"createdBy"`
	Text        string `json:"text"`
}

type CompanyDTO struct {
	ID         int    `json:"id"`
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
}

type BoardDTO struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Inactive bool   `json:"inactive"`
}

type TicketDTO struct {
	ID          int    `json:"id"`
	Summary     string `json:"summary"`
	Status      string `json:"status"`
	Company     string `json:"company,omitempty"`
	Assigned    string `json:"assigned"`
	LastUpdated string `json:"lastUpdated,omitempty"`
}

type LeaderboardEntryDTO struct {
	Member string  `json:"member"`
	Hours  float64 `json:"hours"`
	Amount float64 `json:"amount"`
}

func ToCompanyDTOs(companies []ticket.Company) []CompanyDTO {
	out := make([]CompanyDTO, 0, len(companies))
	for _, c := range companies {
		out = append(out, CompanyDTO{ID: c.ID, Identifier: c.Identifier, Name: c.Name})
	}
	return out
}

func ToBoardDTOs(boards []ticket.Board) []BoardDTO {
	out := make([]BoardDTO, 0, len(boards))
	for _, b := range boards {
		out = append(out, BoardDTO{ID: b.ID, Name: b.Name, Inactive: b.Inactive})
	}
	return out
}

func ToTicketDTO(t *ticket.Ticket) *TicketDTO {
	if t == nil {
		return nil
	}
	d := &TicketDTO{
		ID:       t.ID,
		Summary:  t.Summary,
		Status:   t.Status,
		Company:  t.Company,
		Assigned: t.AssignedTo(),
	}
	if !t.LastUpdated.IsZero() {
		d.LastUpdated = biztime.FormatInBizTimezone(t.LastUpdated, biztime.LongLayout)
	}
	return d
}

func ToLeaderboardDTOs(stats []ticket.MemberStats) []LeaderboardEntryDTO {
	out := make([]LeaderboardEntryDTO, 0, len(stats))
	for _, s := range stats {
		out = append(out, LeaderboardEntryDTO{Member: s.Member, Hours: s.Hours, Amount: s.Amount})
	}
	return out
}

// HoursLabel trims an upstream hours value such as "1.5:js:1" to "1.5".
// An empty value reads as "0".
func HoursLabel(raw string) string {
	h, _, _ := strings.Cut(strings.TrimSpace(raw), ":")
	if h == "" {
		return "0"
	}
	return h
}
