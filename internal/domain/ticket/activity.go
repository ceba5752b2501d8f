package ticket

import "time"

// Note is a ticket note. RawDate is the upstream timestamp string, kept for
// ordering alongside time entries exactly as upstream reported it.
type Note struct {
	ID          int
	Text        string
	CreatedBy   string
	DateCreated *time.Time
	RawDate     string
}

// TimeEntry is a time entry logged against a ticket or, for the leaderboard,
// any time entry in a period.
type TimeEntry struct {
	ID             int
	Member         string
	Notes          string
	ActualHours    string
	TimeStart      *time.Time
	TimeEnd        *time.Time
	RawStart       string
	BillableOption string
	InvoiceHours   float64
	InvoiceAmount  float64
}

// IsBillable reports whether the entry counts towards billed totals.
func (e TimeEntry) IsBillable() bool {
	return e.BillableOption == "Billable"
}
