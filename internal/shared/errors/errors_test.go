package errors

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Codes(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		code int
		typ  ErrorType
	}{
		{"validation", NewValidationError("board parameter is required"), http.StatusBadRequest, ErrorTypeValidation},
		{"not found", NewNotFoundError("Ticket not found"), http.StatusNotFound, ErrorTypeNotFound},
		{"unauthorized", NewUnauthorizedError("login required"), http.StatusUnauthorized, ErrorTypeUnauthorized},
		{"internal", NewInternalError("boom"), http.StatusInternalServerError, ErrorTypeInternal},
		{"bad request", NewBadRequestError("rejected"), http.StatusBadRequest, ErrorTypeBadRequest},
		{"upstream", NewUpstreamError("sync failed"), http.StatusBadGateway, ErrorTypeUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.typ, tt.err.Type)
		})
	}
}

func TestAppError_ErrorString(t *testing.T) {
	assert.Equal(t, "validation_error: ticketId is required", NewValidationError("ticketId is required").Error())
	assert.Equal(t, "upstream_error: sync failed (status 503)", NewUpstreamError("sync failed", "status 503").Error())
}

func TestAppError_WrapAndClassify(t *testing.T) {
	err := fmt.Errorf("handler: %w", NewUpstreamError("fetch failed").Wrap(io.ErrUnexpectedEOF))

	require.True(t, IsAppError(err))
	assert.True(t, IsUpstreamError(err))
	assert.False(t, IsValidationError(err))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Nil(t, GetAppError(io.EOF))
}
