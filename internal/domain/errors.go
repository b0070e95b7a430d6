package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrConflict indicates a concurrent write won; the caller may retry.
	ErrConflict = errors.New("conflict")
	// ErrStorageTimeout indicates the storage call exceeded its deadline.
	ErrStorageTimeout = errors.New("storage timeout")
)

// ValidationError collects field-level constraint violations.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// Add appends a formatted field message.
func (e *ValidationError) Add(format string, args ...interface{}) {
	e.Messages = append(e.Messages, fmt.Sprintf(format, args...))
}

// Empty reports whether no violations were recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Messages) == 0
}

// InvariantError signals a mutation that would break an aggregate rule,
// such as removing the last address of a customer.
type InvariantError struct {
	Rule string
}

func (e *InvariantError) Error() string {
	return e.Rule
}

// MalformedIdentifierError signals a stored intNr that does not match the
// K-NNNN shape. It is a data integrity failure, never silently coerced.
type MalformedIdentifierError struct {
	IntNr string
}

func (e *MalformedIdentifierError) Error() string {
	return fmt.Sprintf("malformed business identifier %q", e.IntNr)
}
