package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezpsa-inc/ezpsa/internal/shared/errors"
)

type closeRequest struct {
	TicketID int    `json:"ticketId" validate:"required,gt=0"`
	Note     string `json:"note" validate:"max=5"`
}

func TestValidateStruct(t *testing.T) {
	require.NoError(t, ValidateStruct(closeRequest{TicketID: 1}))

	err := ValidateStruct(closeRequest{Note: "too long"})
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
	assert.Contains(t, appErr.Details, "ticketId is required")
	assert.Contains(t, appErr.Details, "note must be at most 5 characters long")
}
