package ticket

import (
	"encoding/json"
	"strings"

	"github.com/ezpsa-inc/ezpsa/internal/application/ticket/usecases"
	"github.com/ezpsa-inc/ezpsa/internal/shared/errors"
)

// CloseTicketRequest accepts ticketId as a JSON number or numeric string.
type CloseTicketRequest struct {
	TicketID json.Number `json:"ticketId"`
}

func (r *CloseTicketRequest) ToCommand() (usecases.CloseTicketCommand, error) {
	id, err := parsePositiveID(r.TicketID, "ticketId")
	if err != nil {
		return usecases.CloseTicketCommand{}, err
	}
	return usecases.CloseTicketCommand{TicketID: id}, nil
}

// CreateTicketRequest is the new-ticket form. companySelect carries the
// company id as submitted by the form's select element.
type CreateTicketRequest struct {
	Title         string      `json:"title" validate:"required"`
	CompanySelect json.Number `json:"companySelect" validate:"required"`
	Board         string      `json:"board" validate:"required"`
	Status        string      `json:"status"`
	Description   string      `json:"description"`
}

func (r *CreateTicketRequest) ToCommand() (usecases.CreateTicketCommand, error) {
	companyID, err := parsePositiveID(r.CompanySelect, "companySelect")
	if err != nil {
		return usecases.CreateTicketCommand{}, err
	}
	return usecases.CreateTicketCommand{
		Title:       r.Title,
		CompanyID:   companyID,
		Board:       r.Board,
		Status:      r.Status,
		Description: r.Description,
	}, nil
}

func parsePositiveID(raw json.Number, field string) (int, error) {
	s := strings.TrimSpace(raw.String())
	if s == "" {
		return 0, errors.NewValidationError(field + " is required")
	}
	id, err := json.Number(s).Int64()
	if err != nil || id <= 0 || id > int64(^uint32(0)>>1) {
		return 0, errors.NewValidationError("invalid " + field)
	}
	return int(id), nil
}
