// Package apperr holds the error kinds shared by the stores, services and
// HTTP handlers.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error bag names.
const (
	DefaultBag      = "default"
	UserDeletionBag = "userDeletion"
)

// ErrUnauthenticated is returned when a request carries no usable session.
var ErrUnauthenticated = errors.New("unauthenticated")

// FieldErrors maps a field name to its validation messages.
type FieldErrors map[string][]string

// Add appends a message for field.
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// ValidationError is a set of field errors grouped under a named bag.
type ValidationError struct {
	Bag    string
	Fields FieldErrors
}

// NewValidationError creates an empty ValidationError in the given bag.
func NewValidationError(bag string) *ValidationError {
	if bag == "" {
		bag = DefaultBag
	}
	return &ValidationError{Bag: bag, Fields: FieldErrors{}}
}

// Add appends a message for field and returns the receiver.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields.Add(field, message)
	return e
}

// Has reports whether field has at least one message.
func (e *ValidationError) Has(field string) bool {
	return len(e.Fields[field]) > 0
}

// Empty reports whether no field errors were collected.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// Bags renders the error as bag -> field -> messages.
func (e *ValidationError) Bags() map[string]FieldErrors {
	return map[string]FieldErrors{e.Bag: e.Fields}
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed in bag %q on fields: %s", e.Bag, strings.Join(fields, ", "))
}

// ConflictError reports a unique-value violation on a single field.
type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s '%s' has already been taken", e.Field, e.Value)
}

// Validation converts the conflict into a field error in the default bag.
func (e *ConflictError) Validation() *ValidationError {
	return NewValidationError(DefaultBag).Add(e.Field, fmt.Sprintf("The %s has already been taken.", e.Field))
}

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// AuthorizationError reports an actor trying to mutate a record it does not own.
type AuthorizationError struct {
	ActorID   string
	SubjectID string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("user %s is not allowed to modify user %s", e.ActorID, e.SubjectID)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// AsValidation extracts a ValidationError from err. Conflict errors are
// converted into their field-level form.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Validation(), true
	}
	return nil, false
}
