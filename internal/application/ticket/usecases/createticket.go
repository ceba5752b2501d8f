package usecases

import (
	"context"
	"strings"

	"github.com/ezpsa-inc/ezpsa/internal/application/ticket/dto"
	"github.com/ezpsa-inc/ezpsa/internal/domain/ticket"
	"github.com/ezpsa-inc/ezpsa/internal/shared/errors"
	"github.com/ezpsa-inc/ezpsa/internal/shared/logger"
)

type CreateTicketCommand struct {
	Title       string
	CompanyID   int
	Board       string
	Status      string
	Description string
}

// CreateTicketUseCase forwards a new ticket upstream. It does not touch the
// board cache; the next sync of the board picks the ticket up.
type CreateTicketUseCase struct {
	writer ticket.TicketWriter
	logger logger.Interface
}

func NewCreateTicketUseCase(writer ticket.TicketWriter, logger logger.Interface) *CreateTicketUseCase {
	return &CreateTicketUseCase{
		writer: writer,
		logger: logger,
	}
}

func (uc *CreateTicketUseCase) Execute(ctx context.Context, cmd CreateTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing create ticket use case", "board", cmd.Board, "company_id", cmd.CompanyID)

	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Errorw("invalid create ticket command", "error", err)
		return nil, err
	}

	created, err := uc.writer.CreateTicket(ctx, ticket.NewTicket{
		Summary:            strings.TrimSpace(cmd.Title),
		CompanyID:          cmd.CompanyID,
		Board:              strings.TrimSpace(cmd.Board),
		Status:             strings.TrimSpace(cmd.Status),
		InitialDescription: cmd.Description,
	})
	if err != nil {
		uc.logger.Errorw("failed to create ticket", "board", cmd.Board, "error", err)
		return nil, upstreamWriteError("failed to create ticket", err)
	}

	uc.logger.Infow("ticket created successfully", "ticket_id", created.ID, "board", cmd.Board)

	return dto.ToTicketDTO(created), nil
}

func (uc *CreateTicketUseCase) validateCommand(cmd CreateTicketCommand) error {
	if strings.TrimSpace(cmd.Title) == "" {
		return errors.NewValidationError("title is required")
	}
	if cmd.CompanyID <= 0 {
		return errors.NewValidationError("companySelect is required")
	}
	if strings.TrimSpace(cmd.Board) == "" {
		return errors.NewValidationError("board is required")
	}
	return nil
}
