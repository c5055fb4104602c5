package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is matched by errors.Is for any StoreError with CodeNotFound.
var ErrNotFound = errors.New("record not found")

// ErrBusy is returned by a Locker when another writer holds the key.
var ErrBusy = errors.New("record is being updated by another request")

// ValidationError reports input that was rejected before any write happened.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// StoreErrorCode is the machine-readable reason attached to a StoreError.
type StoreErrorCode string

const (
	CodeNotFound         StoreErrorCode = "not_found"
	CodeUniqueViolation  StoreErrorCode = "unique_violation"
	CodeCheckViolation   StoreErrorCode = "check_violation"
	CodeNotNullViolation StoreErrorCode = "not_null_violation"
	CodeUnavailable      StoreErrorCode = "unavailable"
	CodeUnknown          StoreErrorCode = "unknown"
)

// StoreError wraps a failed read or write against the record store.
type StoreError struct {
	Op   string // e.g. "insert daily_salary_records"
	Code StoreErrorCode
	Err  error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool {
	return target == ErrNotFound && e.Code == CodeNotFound
}

// UserMessage is the operator-facing reason for the failure.
func (e *StoreError) UserMessage() string {
	switch e.Code {
	case CodeNotFound:
		return "The requested record no longer exists"
	case CodeUniqueViolation:
		return "A record with this information already exists"
	case CodeCheckViolation:
		return "Invalid data format. Please check your inputs"
	case CodeNotNullViolation:
		return "Required field is missing. Please fill all required fields"
	case CodeUnavailable:
		return "The database is unreachable. Please try again"
	default:
		return "Operation failed. Please try again"
	}
}

// NotFound builds a CodeNotFound StoreError for op.
func NotFound(op string) *StoreError {
	return &StoreError{Op: op, Code: CodeNotFound, Err: ErrNotFound}
}

// PartialEffectError reports a multi-step operation that stopped after some
// of its writes were already durable. Applied lists what went through.
type PartialEffectError struct {
	Op      string
	Applied []string
	Err     error
}

func (e *PartialEffectError) Error() string {
	return fmt.Sprintf("%s failed after %d applied step(s) [%s]: %v",
		e.Op, len(e.Applied), strings.Join(e.Applied, ", "), e.Err)
}

func (e *PartialEffectError) Unwrap() error { return e.Err }
