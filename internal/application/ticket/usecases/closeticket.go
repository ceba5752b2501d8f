package usecases

import (
	"context"

	"github.com/ezpsa-inc/ezpsa/internal/domain/ticket"
	"github.com/ezpsa-inc/ezpsa/internal/shared/errors"
	"github.com/ezpsa-inc/ezpsa/internal/shared/logger"
)

type CloseTicketCommand struct {
	TicketID int
}

type CloseTicketResult struct {
	TicketID int    `json:"ticketId"`
	Status   string `json:"status"`
	Attempts int    `json:"attempts"`
}

// CloseTicketUseCase writes the primary closed status and, if upstream
// rejects it, the fallback status exactly once.
type CloseTicketUseCase struct {
	writer        ticket.TicketWriter
	primaryLabel  string
	fallbackLabel string
	logger        logger.Interface
}

func NewCloseTicketUseCase(
	writer ticket.TicketWriter,
	primaryLabel string,
	fallbackLabel string,
	logger logger.Interface,
) *CloseTicketUseCase {
	return &CloseTicketUseCase{
		writer:        writer,
		primaryLabel:  primaryLabel,
		fallbackLabel: fallbackLabel,
		logger:        logger,
	}
}

func (uc *CloseTicketUseCase) Execute(ctx context.Context, cmd CloseTicketCommand) (*CloseTicketResult, error) {
	uc.logger.Infow("executing close ticket use case", "ticket_id", cmd.TicketID)

	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Errorw("invalid close ticket command", "error", err)
		return nil, err
	}

	flow := ticket.NewCloseFlow(uc.primaryLabel, uc.fallbackLabel)
	var (
		updated     *ticket.Ticket
		closedLabel string
	)
	for !flow.Done() {
		label := flow.Label()
		t, err := uc.writer.PatchTicketStatus(ctx, cmd.TicketID, label)
		state := flow.Record(err)
		if err != nil {
			uc.logger.Warnw("close status rejected",
				"ticket_id", cmd.TicketID,
				"status", label,
				"next_state", state.String(),
				"error", err,
			)
			continue
		}
		updated, closedLabel = t, label
	}

	if flow.State() == ticket.CloseStateFailed {
		uc.logger.Errorw("failed to close ticket",
			"ticket_id", cmd.TicketID,
			"attempts", flow.Attempts(),
			"error", flow.Err(),
		)
		return nil, upstreamWriteError("failed to close ticket", flow.Err())
	}

	status := closedLabel
	if updated != nil && updated.Status != "" {
		status = updated.Status
	}

	uc.logger.Infow("ticket closed successfully",
		"ticket_id", cmd.TicketID,
		"status", status,
		"attempts", flow.Attempts(),
	)

	return &CloseTicketResult{
		TicketID: cmd.TicketID,
		Status:   status,
		Attempts: flow.Attempts(),
	}, nil
}

func (uc *CloseTicketUseCase) validateCommand(cmd CloseTicketCommand) error {
	if cmd.TicketID <= 0 {
		return errors.NewValidationError("ticketId is required")
	}
	return nil
}
