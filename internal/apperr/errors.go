// Package apperr defines the error kinds shared by services and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInternal           = errors.New("internal error")
)

// Internal wraps a lower-level failure so it classifies as ErrInternal while
// keeping the cause for logs.
func Internal(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
}

// ValidationError collects every failing field. Keys are request paths such
// as "email" or "items.0.quantity".
type ValidationError struct {
	Errors map[string][]string
}

// NewValidationError returns an empty, ready to use ValidationError.
func NewValidationError() *ValidationError {
	return &ValidationError{Errors: make(map[string][]string)}
}

// Add appends a message for field.
func (v *ValidationError) Add(field, message string) {
	if v.Errors == nil {
		v.Errors = make(map[string][]string)
	}
	v.Errors[field] = append(v.Errors[field], message)
}

// Merge copies every message of other into v.
func (v *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	for field, msgs := range other.Errors {
		for _, m := range msgs {
			v.Add(field, m)
		}
	}
}

// Has reports whether field already failed.
func (v *ValidationError) Has(field string) bool {
	return len(v.Errors[field]) > 0
}

// Empty reports whether no field failed.
func (v *ValidationError) Empty() bool {
	return v == nil || len(v.Errors) == 0
}

// OrNil returns v as an error, or nil when nothing failed. It avoids the
// typed-nil-in-interface trap at call sites.
func (v *ValidationError) OrNil() error {
	if v.Empty() {
		return nil
	}
	return v
}

// Fields returns the failing field names in sorted order.
func (v *ValidationError) Fields() []string {
	fields := make([]string, 0, len(v.Errors))
	for f := range v.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Error summarises the failure the way the API message does: the first
// message plus a count of the rest.
func (v *ValidationError) Error() string {
	fields := v.Fields()
	if len(fields) == 0 {
		return "validation failed"
	}
	total := 0
	for _, msgs := range v.Errors {
		total += len(msgs)
	}
	first := v.Errors[fields[0]][0]
	if total == 1 {
		return first
	}
	suffix := "error"
	if total-1 > 1 {
		suffix = "errors"
	}
	return fmt.Sprintf("%s (and %d more %s)", first, total-1, suffix)
}

// Validation is a shortcut for a single-field failure.
func Validation(field, message string) *ValidationError {
	v := NewValidationError()
	v.Add(field, message)
	return v
}

// AsValidation extracts a *ValidationError from err.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
