package ticket

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"

	"github.com/ezpsa-inc/ezpsa/internal/domain/ticket"
	"github.com/ezpsa-inc/ezpsa/internal/shared/biztime"
)

var tableTemplate = template.Must(template.New("tickets").Parse(
	`<table><tr><th>ID</th><th>Title</th><th>Company</th><th>Status</th><th>Assigned</th><th>Last Updated</th><th>Action</th></tr>` +
		`{{range .}}<tr data-ticket-id="{{.ID}}">` +
		`<td>{{.ID}}</td>` +
		`<td><a href="{{.Link}}" target="_blank">{{.Summary}}</a></td>` +
		`<td>{{.Company}}</td>` +
		`<td>{{.Status}}</td>` +
		`<td>{{.Assigned}}</td>` +
		`<td>{{.LastUpdated}}</td>` +
		`<td><a href="javascript:quickView({{.ID}})">Quick View</a><br><a href="javascript:closeTicket({{.ID}})">Close</a></td>` +
		`</tr>{{end}}</table>`,
))

type tableRow struct {
	ID          int
	Link        string
	Summary     string
	Company     string
	Status      string
	Assigned    string
	LastUpdated string
}

// TablePresenter renders a board's cached tickets as the dashboard HTML table.
type TablePresenter struct {
	linkBase       string
	hiddenStatuses []string
}

func NewTablePresenter(linkBase string, hiddenStatuses []string) *TablePresenter {
	return &TablePresenter{
		linkBase:       linkBase,
		hiddenStatuses: hiddenStatuses,
	}
}

// Render writes one row per visible ticket in cache order. Tickets with a
// hidden status stay cached but are not shown.
func (p *TablePresenter) Render(entry *ticket.BoardCacheEntry) ([]byte, error) {
	tickets := entry.Visible(p.hiddenStatuses)
	rows := make([]tableRow, 0, len(tickets))
	for _, t := range tickets {
		row := tableRow{
			ID:       t.ID,
			Link:     p.link(t),
			Summary:  t.Summary,
			Company:  t.Company,
			Status:   t.Status,
			Assigned: t.AssignedTo(),
		}
		if !t.LastUpdated.IsZero() {
			row.LastUpdated = biztime.FormatInBizTimezone(t.LastUpdated, biztime.LongLayout)
		}
		rows = append(rows, row)
	}

	var buf bytes.Buffer
	if err := tableTemplate.Execute(&buf, rows); err != nil {
		return nil, fmt.Errorf("render ticket table: %w", err)
	}
	return buf.Bytes(), nil
}

func (p *TablePresenter) link(t ticket.Ticket) string {
	return fmt.Sprintf("%s?service_recid=%d&companyName=%s", p.linkBase, t.ID, url.QueryEscape(t.Company))
}
