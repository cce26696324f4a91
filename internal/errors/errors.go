package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a docgen error code.
type ErrorCode string

const (
	ErrGrammar   ErrorCode = "GRAMMAR"   // structural annotation violations
	ErrCapacity  ErrorCode = "CAPACITY"  // a configured maximum was exceeded
	ErrReference ErrorCode = "REFERENCE" // unknown embed, malformed reference
	ErrConfig    ErrorCode = "CONFIG"    // bad setting keyword, format, output dir
	ErrNotFound  ErrorCode = "NOT_FOUND" // missing file or index entry
	ErrCancelled ErrorCode = "CANCELLED"
	ErrInternal  ErrorCode = "INTERNAL"
)

// DocgenError represents a structured, optionally line-numbered error.
type DocgenError struct {
	Code    ErrorCode
	Line    int // 1-based source line, 0 when not tied to a line
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *DocgenError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// InFile returns a copy of e whose details record the source file.
func (e *DocgenError) InFile(path string) *DocgenError {
	return e.With("file", path)
}

// With returns a copy of e with one more detail.
func (e *DocgenError) With(key string, value any) *DocgenError {
	cp := *e
	cp.Details = make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		cp.Details[k] = v
	}
	cp.Details[key] = value
	return &cp
}

// NewGrammar creates an error for a structural annotation violation.
func NewGrammar(line int, format string, args ...any) *DocgenError {
	return &DocgenError{
		Code:    ErrGrammar,
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewCapacity creates an error for a value that exceeds its configured maximum.
func NewCapacity(line int, what string, max int) *DocgenError {
	return &DocgenError{
		Code:    ErrCapacity,
		Line:    line,
		Message: fmt.Sprintf("%s exceeds maximum length %d", what, max),
		Details: map[string]any{"what": what, "max": max},
	}
}

// NewMissingCompanion creates an error for a tag that must be immediately
// followed by another tag.
func NewMissingCompanion(line int, tag, companion string) *DocgenError {
	return &DocgenError{
		Code:    ErrGrammar,
		Line:    line,
		Message: fmt.Sprintf("required companion tag missing: @%s must be immediately followed by @%s", tag, companion),
		Details: map[string]any{"tag": tag, "companion": companion},
	}
}

// NewUnknownEmbed creates an error for an embed request with no matching record.
func NewUnknownEmbed(kind, name string) *DocgenError {
	return &DocgenError{
		Code:    ErrReference,
		Message: fmt.Sprintf("unknown embed `%s`", name),
		Details: map[string]any{"kind": kind, "name": name},
	}
}

// NewReference creates an error for a malformed cross reference.
func NewReference(line int, format string, args ...any) *DocgenError {
	return &DocgenError{
		Code:    ErrReference,
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewConfig creates an error for an invalid configuration or setting.
func NewConfig(line int, format string, args ...any) *DocgenError {
	return &DocgenError{
		Code:    ErrConfig,
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewNotFound creates an error for a missing file or index entry.
func NewNotFound(identifier string) *DocgenError {
	return &DocgenError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewCancelled creates an error for an operation stopped by its context.
func NewCancelled(operation string) *DocgenError {
	return &DocgenError{
		Code:    ErrCancelled,
		Message: fmt.Sprintf("%s cancelled", operation),
	}
}

// NewInternal creates an error for unexpected internal failures.
func NewInternal(err error) *DocgenError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &DocgenError{
		Code:    ErrInternal,
		Message: msg,
	}
}

// Is checks if err is (or wraps) a DocgenError with the given code.
func Is(err error, code ErrorCode) bool {
	var dErr *DocgenError
	if stderrors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// As returns the DocgenError in err's chain, if any.
func As(err error) (*DocgenError, bool) {
	var dErr *DocgenError
	ok := stderrors.As(err, &dErr)
	return dErr, ok
}

// With adds a detail to the DocgenError in err's chain. Other errors are
// returned unchanged.
func With(err error, key string, value any) error {
	if dErr, ok := As(err); ok {
		return dErr.With(key, value)
	}
	return err
}

// LineOf returns the source line recorded in err, or 0.
func LineOf(err error) int {
	var dErr *DocgenError
	if stderrors.As(err, &dErr) {
		return dErr.Line
	}
	return 0
}
