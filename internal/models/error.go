package models

import (
	"errors"
	"sort"
	"strings"
)

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")
)

// Messages surfaced on the login and registration forms.
const (
	MsgInvalidUser       = "Invalid user"
	MsgInvalidPassword   = "Invalid password"
	MsgDuplicateUsername = "Duplicate username"
	MsgRequired          = "This field is required."
	MsgPasswordTooLong   = "Password cannot be longer than 72 bytes."
)

// ConstraintError is returned when a write violates a unique constraint.
// It unwraps to ErrConflict.
type ConstraintError struct {
	Constraint string
}

func (e *ConstraintError) Error() string {
	return "unique constraint violated: " + e.Constraint
}

func (e *ConstraintError) Unwrap() error {
	return ErrConflict
}

// ValidationErrors maps a form field name to the messages raised for it.
type ValidationErrors map[string][]string

// Add appends a message for field.
func (v ValidationErrors) Add(field, message string) {
	v[field] = append(v[field], message)
}

// Has reports whether field has at least one message.
func (v ValidationErrors) Has(field string) bool {
	return len(v[field]) > 0
}

// First returns the first message recorded for field, or "".
func (v ValidationErrors) First(field string) string {
	if msgs := v[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(v[f], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
