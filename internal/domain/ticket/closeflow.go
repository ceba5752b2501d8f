package ticket

// CloseState is a step of the close state machine:
//
//	ClosingPrimary -> ClosingFallback -> {Closed, Failed}
//
// with ClosingPrimary -> Closed on first success. The fallback transition is
// taken at most once.
type CloseState int

const (
	CloseStateClosingPrimary CloseState = iota
	CloseStateClosingFallback
	CloseStateClosed
	CloseStateFailed
)

func (s CloseState) String() string {
	switch s {
	case CloseStateClosingPrimary:
		return "closing_primary"
	case CloseStateClosingFallback:
		return "closing_fallback"
	case CloseStateClosed:
		return "closed"
	case CloseStateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CloseFlow tracks one close request through the state machine.
type CloseFlow struct {
	primary  string
	fallback string
	state    CloseState
	attempts int
	lastErr  error
}

// NewCloseFlow starts a close at the primary label. An empty fallback, or one
// equal to primary, means a rejected primary fails immediately.
func NewCloseFlow(primary, fallback string) *CloseFlow {
	return &CloseFlow{
		primary:  primary,
		fallback: fallback,
		state:    CloseStateClosingPrimary,
	}
}

func (f *CloseFlow) State() CloseState { return f.state }

// Attempts is the number of status writes recorded so far.
func (f *CloseFlow) Attempts() int { return f.attempts }

// Err is the error of the last failed attempt.
func (f *CloseFlow) Err() error { return f.lastErr }

// Done reports whether the flow reached Closed or Failed.
func (f *CloseFlow) Done() bool {
	return f.state == CloseStateClosed || f.state == CloseStateFailed
}

// Label returns the status label to write for the current state, or "" once
// the flow is done.
func (f *CloseFlow) Label() string {
	switch f.state {
	case CloseStateClosingPrimary:
		return f.primary
	case CloseStateClosingFallback:
		return f.fallback
	default:
		return ""
	}
}

// Record applies the outcome of writing Label() and returns the new state.
// Calling Record on a finished flow is a no-op.
func (f *CloseFlow) Record(err error) CloseState {
	if f.Done() {
		return f.state
	}
	f.attempts++
	if err == nil {
		f.state = CloseStateClosed
		f.lastErr = nil
		return f.state
	}

	f.lastErr = err
	if f.state == CloseStateClosingPrimary && f.fallback != "" && f.fallback != f.primary {
		f.state = CloseStateClosingFallback
	} else {
		f.state = CloseStateFailed
	}
	return f.state
}
