package usecases

import (
	"context"
	"errors"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ezpsa-inc/ezpsa/internal/application/ticket/dto"
	"github.com/ezpsa-inc/ezpsa/internal/domain/ticket"
	"github.com/ezpsa-inc/ezpsa/internal/shared/biztime"
	apperrors "github.com/ezpsa-inc/ezpsa/internal/shared/errors"
	"github.com/ezpsa-inc/ezpsa/internal/shared/logger"
	"github.com/ezpsa-inc/ezpsa/internal/shared/services/markdown"
)

const unknownLabel = "Unknown"

type QuickViewQuery struct {
	TicketID int
}

// QuickViewUseCase assembles a ticket's notes and time entries into one
// chronological activity list.
type QuickViewUseCase struct {
	reader   ticket.ActivityReader
	renderer markdown.Renderer
	logger   logger.Interface
}

func NewQuickViewUseCase(reader ticket.ActivityReader, renderer markdown.Renderer, logger logger.Interface) *QuickViewUseCase {
	return &QuickViewUseCase{
		reader:   reader,
		renderer: renderer,
		logger:   logger,
	}
}

type sortableEntry struct {
	entry   dto.ActivityEntryDTO
	rawDate string
}

func (uc *QuickViewUseCase) Execute(ctx context.Context, query QuickViewQuery) (*dto.QuickViewDTO, error) {
	if query.TicketID <= 0 {
		return nil, apperrors.NewValidationError("ticketId is required")
	}

	t, err := uc.reader.GetTicket(ctx, query.TicketID)
	if err != nil {
		uc.logger.Warnw("failed to get ticket for quick view", "ticket_id", query.TicketID, "error", err)
		var fe *ticket.FetchError
		if errors.As(err, &fe) && fe.StatusCode != 0 {
			return nil, apperrors.NewNotFoundError("Ticket not found").Wrap(err)
		}
		return nil, upstreamReadError("failed to get ticket", err)
	}

	var notes []ticket.Note
	var entries []ticket.TimeEntry

	// A failed sub-fetch leaves its half of the view empty.
	var g errgroup.Group
	g.Go(func() error {
		n, err := uc.reader.ListNotes(ctx, t.NotesHref)
		if err != nil {
			uc.logger.Warnw("failed to list ticket notes", "ticket_id", t.ID, "error", err)
			return nil
		}
		notes = n
		return nil
	})
	g.Go(func() error {
		e, err := uc.reader.ListTimeEntries(ctx, t.TimeEntriesHref)
		if err != nil {
			uc.logger.Warnw("failed to list ticket time entries", "ticket_id", t.ID, "error", err)
			return nil
		}
		entries = e
		return nil
	})
	_ = g.Wait()

	activity := make([]sortableEntry, 0, len(notes)+len(entries))
	for _, n := range notes {
		activity = append(activity, uc.noteEntry(n))
	}
	for _, e := range entries {
		activity = append(activity, uc.timeEntry(e))
	}
	slices.SortStableFunc(activity, func(a, b sortableEntry) int {
		return strings.Compare(a.rawDate, b.rawDate)
	})

	out := make([]dto.ActivityEntryDTO, 0, len(activity))
	for _, a := range activity {
		out = append(out, a.entry)
	}

	summary := t.Summary
	if summary == "" {
		summary = "No Summary"
	}
	return &dto.QuickViewDTO{
		Summary: summary,
		Entries: out,
	}, nil
}

func (uc *QuickViewUseCase) noteEntry(n ticket.Note) sortableEntry {
	date := ""
	if n.DateCreated != nil {
		date = biztime.FormatInBizTimezone(*n.DateCreated, biztime.ShortLayout)
	}
	text := n.Text
	if text == "" {
		text = "No text"
	}
	return sortableEntry{
		entry: dto.ActivityEntryDTO{
			Type:        dto.ActivityTypeNote,
			DateCreated: date,
			CreatedBy:   orUnknown(n.CreatedBy),
			Text:        uc.renderer.Render(text),
		},
		rawDate: n.RawDate,
	}
}

func (uc *QuickViewUseCase) timeEntry(e ticket.TimeEntry) sortableEntry {
	var start, end string
	if e.TimeStart != nil {
		start = biztime.FormatInBizTimezone(*e.TimeStart, biztime.ShortLayout)
	}
	if e.TimeEnd != nil {
		end = biztime.FormatInBizTimezone(*e.TimeEnd, biztime.ClockLayout)
	}

	var date string
	switch {
	case start != "" && end != "":
		date = start + " - " + end
	case start != "":
		date = start
	default:
		date = unknownLabel
	}

	var text string
	if notes := strings.TrimSpace(e.Notes); notes != "" {
		text = uc.renderer.Render(notes)
	} else {
		text = "Time entered: " + dto.HoursLabel(e.ActualHours) + " hours"
	}

	return sortableEntry{
		entry: dto.ActivityEntryDTO{
			Type:        dto.ActivityTypeTime,
			DateCreated: date,
			CreatedBy:   orUnknown(e.Member),
			Text:        text,
		},
		rawDate: e.RawStart,
	}
}

func orUnknown(s string) string {
	if s == "" {
		return unknownLabel
	}
	return s
}
