package coordinator

import "errors"

// ErrCommandsDisabled is returned by the command operations when the
// coordinator runs in presence-only mode.
var ErrCommandsDisabled = errors.New("command relay disabled")

// ValidationError reports a semantically invalid request. Nothing is mutated
// when it is returned.
type ValidationError struct {
	Field   string // JSON name of the offending field
	Message string // Short, caller-facing description
}

func (e *ValidationError) Error() string {
	return e.Message
}
