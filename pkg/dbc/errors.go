package dbc

import "fmt"

// Errors
var (
	ErrUnsupported     = &Error{"unsupported container schema"}
	ErrUndefined       = &Error{"no container data found"}
	ErrMalformedHeader = &Error{"malformed container header"}
	ErrSchemaMismatch  = &Error{"container magic does not match schema"}
)

// Error represents a container level failure
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// PositionError records where in the input a fatal error was detected.
// Line is 1-based and set for text input; Offset is set for binary input.
type PositionError struct {
	Offset int64
	Line   int
	Err    error
}

func (e *PositionError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("offset %d: %v", e.Offset, e.Err)
}

func (e *PositionError) Unwrap() error {
	return e.Err
}
