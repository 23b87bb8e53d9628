package services

import "errors"

// Error taxonomy for the session pipeline. Controllers match these with
// errors.Is and map them onto HTTP statuses.
var (
	// ErrInvalidReference means a supplied identifier is not a valid ObjectID.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrNotFound means the session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrInvalidState means the requested transition is not legal from the
	// session's current state (double-end, frame submitted after a terminal
	// transition, cancel of a completed session).
	ErrInvalidState = errors.New("invalid session state")

	// ErrAnalysisFailed means the pose analyzer errored or timed out. The
	// frame did not mutate the session; the client may resubmit.
	ErrAnalysisFailed = errors.New("pose analysis failed")
)
