package usecases

import (
	"net/http"

	"github.com/ezpsa-inc/ezpsa/internal/domain/ticket"
	"github.com/ezpsa-inc/ezpsa/internal/shared/errors"
)

// upstreamReadError reports a failed read from the ticketing API.
func upstreamReadError(message string, err error) error {
	return errors.NewUpstreamError(message).Wrap(err)
}

// upstreamWriteError reports a failed write. A write the API rejected as
// invalid is the caller's problem and carries the API's error document;
// anything else is a gateway failure.
func upstreamWriteError(message string, err error) error {
	if we, ok := ticket.AsWriteError(err); ok &&
		we.StatusCode >= http.StatusBadRequest && we.StatusCode < http.StatusInternalServerError {
		return errors.NewBadRequestError(message, string(we.Body)).Wrap(err)
	}
	return errors.NewUpstreamError(message).Wrap(err)
}
