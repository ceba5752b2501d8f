package manage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ezpsa-inc/ezpsa/internal/domain/ticket"
	"github.com/ezpsa-inc/ezpsa/internal/shared/biztime"
)

type namedRef struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type ticketInfo struct {
	LastUpdated     string `json:"lastUpdated"`
	NotesHref       string `json:"notes_href"`
	TimeEntriesHref string `json:"timeentries_href"`
}

type ticketRecord struct {
	ID      int        `json:"id"`
	Summary string     `json:"summary"`
	Status  namedRef   `json:"status"`
	Company namedRef   `json:"company"`
	Owner   *namedRef  `json:"owner"`
	Info    ticketInfo `json:"_info"`
}

func (r ticketRecord) toDomain() (ticket.Ticket, error) {
	t := ticket.Ticket{
		ID:              r.ID,
		Summary:         r.Summary,
		Status:          r.Status.Name,
		Company:         r.Company.Name,
		NotesHref:       r.Info.NotesHref,
		TimeEntriesHref: r.Info.TimeEntriesHref,
	}
	if r.Owner != nil {
		t.Owner = r.Owner.Name
	}
	updated, err := biztime.ParseUpstream(r.Info.LastUpdated)
	if err != nil {
		return t, fmt.Errorf("ticket %d lastUpdated: %w", r.ID, err)
	}
	t.LastUpdated = updated
	return t, nil
}

type noteRecord struct {
	ID          int    `json:"id"`
	Text        string `json:"text"`
	CreatedBy   string `json:"createdBy"`
	DateCreated string `json:"dateCreated"`
}

func (r noteRecord) toDomain() ticket.Note {
	return ticket.Note{
		ID:          r.ID,
		Text:        r.Text,
		CreatedBy:   r.CreatedBy,
		DateCreated: optionalTime(r.DateCreated),
		RawDate:     r.DateCreated,
	}
}

type timeEntryRecord struct {
	ID                    int            `json:"id"`
	Member                namedRef       `json:"member"`
	Notes                 string         `json:"notes"`
	ActualHours           flexString     `json:"actualHours"`
	TimeStart             string         `json:"timeStart"`
	TimeEnd               string         `json:"timeEnd"`
	BillableOption        string         `json:"billableOption"`
	InvoiceHours          suffixedNumber `json:"invoiceHours"`
	ExtendedInvoiceAmount suffixedNumber `json:"extendedInvoiceAmount"`
}

func (r timeEntryRecord) toDomain() ticket.TimeEntry {
	return ticket.TimeEntry{
		ID:             r.ID,
		Member:         r.Member.Name,
		Notes:          r.Notes,
		ActualHours:    string(r.ActualHours),
		TimeStart:      optionalTime(r.TimeStart),
		TimeEnd:        optionalTime(r.TimeEnd),
		RawStart:       r.TimeStart,
		BillableOption: r.BillableOption,
		InvoiceHours:   float64(r.InvoiceHours),
		InvoiceAmount:  float64(r.ExtendedInvoiceAmount),
	}
}

type companyRecord struct {
	ID         int    `json:"id"`
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
}

type boardRecord struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	InactiveFlag bool   `json:"inactiveFlag"`
}

type createTicketRequest struct {
	Summary            string    `json:"summary"`
	Company            namedRef  `json:"company"`
	Board              namedRef  `json:"board"`
	Status             *namedRef `json:"status,omitempty"`
	InitialDescription string    `json:"initialDescription,omitempty"`
}

type patchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

func optionalTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := biztime.ParseUpstream(s)
	if err != nil {
		return nil
	}
	return &t
}

// flexString accepts a JSON string or number and keeps its text.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(data)
	return nil
}

// suffixedNumber accepts a JSON number or a string such as "1.5:js:1", where
// only the part before the first colon is numeric.
type suffixedNumber float64

func (n *suffixedNumber) UnmarshalJSON(data []byte) error {
	var raw flexString
	if err := raw.UnmarshalJSON(data); err != nil {
		return err
	}
	s, _, _ := strings.Cut(strings.TrimSpace(string(raw)), ":")
	if s == "" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric value %q: %w", string(raw), err)
	}
	*n = suffixedNumber(v)
	return nil
}
