package terminal

import "errors"

var (
	// ErrUnknownSession marks a lookup miss: the session already exited
	// or never existed. Always recoverable by the caller.
	ErrUnknownSession = errors.New("unknown session")

	// ErrInvalidSessionID marks a session id string that does not parse.
	ErrInvalidSessionID = errors.New("invalid session id")
)

// exitCodeUnknown is reported when the real exit code cannot be
// determined (e.g. the child was killed by a signal).
const exitCodeUnknown = 1
