package ctllog

import (
	"errors"
	"fmt"
)

// ParseError reports a malformed or structurally invalid execution log.
type ParseError struct {
	// Line is the input line where the problem was detected, or 0 if unknown.
	Line    int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Line > 0 {
		return fmt.Sprintf("ctllog: line %d: %s", e.Line, msg)
	}
	return "ctllog: " + msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DecodeError reports a base location whose percent-encoding is malformed.
type DecodeError struct {
	Raw string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("ctllog: cannot decode base path %q: %v", e.Raw, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// CorrelationError reports a test call with no matching log record.
// Err is set when the scan stopped on a record that could not be decoded.
type CorrelationError struct {
	Path string
	Err  error
}

func (e *CorrelationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ctllog: no log record for test call %q: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("ctllog: no log record for test call %q", e.Path)
}

func (e *CorrelationError) Unwrap() error {
	return e.Err
}

// IsCorrelationError returns true if err wraps a CorrelationError.
func IsCorrelationError(err error) bool {
	var ce *CorrelationError
	return errors.As(err, &ce)
}

// IsParseError returns true if err wraps a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsDecodeError returns true if err wraps a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
