package codec

import (
	"errors"
	"fmt"
)

var (
	ErrTooManyParts = errors.New("part count exceeds schema maximum")
	ErrTooFewLines  = errors.New("not enough lines for record")
	ErrBadField     = errors.New("malformed field")
	ErrShortFrame   = errors.New("frame shorter than record size")
	ErrWrongRecord  = errors.New("record type does not match codec")
)

// RecordError is a fatal decode failure. Line is the index into the line
// slice passed to DecodeText, or -1 for binary input; Offset is the byte
// offset inside the binary frame, or -1 for text input.
type RecordError struct {
	Line   int
	Offset int
	Err    error
	Detail string
}

func (e *RecordError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// LineError is a skippable decode failure: the line is dropped and
// decoding carries on with the next one.
type LineError struct {
	Line   int
	Err    error
	Detail string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("skipped line: %v: %s", e.Err, e.Detail)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// IsSkippable reports whether err only invalidates the current line.
func IsSkippable(err error) bool {
	var le *LineError
	return errors.As(err, &le)
}

func textError(line int, err error, format string, args ...any) *RecordError {
	return &RecordError{Line: line, Offset: -1, Err: err, Detail: fmt.Sprintf(format, args...)}
}

func frameError(offset int, err error, format string, args ...any) *RecordError {
	return &RecordError{Line: -1, Offset: offset, Err: err, Detail: fmt.Sprintf(format, args...)}
}
