package ticket

import (
	"errors"
	"fmt"
)

// FetchError is a failed read from the upstream API: a transport error, a
// timeout, an undecodable body, or a non-2xx response.
type FetchError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: upstream status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// WriteError is a create or update rejected by the upstream API, or one that
// never got a response. Body holds the upstream error document when present.
type WriteError struct {
	Op         string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *WriteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("write %s: upstream status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("write %s: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// IsFetchError reports whether err is or wraps a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// AsWriteError extracts a WriteError from err.
func AsWriteError(err error) (*WriteError, bool) {
	var we *WriteError
	if errors.As(err, &we) {
		return we, true
	}
	return nil, false
}
