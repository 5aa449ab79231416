package bridge

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("bridge: entity not found")

	// ErrUnimplementedType is returned by a mapper that has no storage
	// type, such as the abstract base mapper.
	ErrUnimplementedType = errors.New("bridge: column type not implemented")

	// ErrPhase is returned when a field lifecycle phase runs out of order
	// or more than once.
	ErrPhase = errors.New("bridge: lifecycle phase out of order")

	// ErrInvalidSchema matches every SchemaError.
	ErrInvalidSchema = errors.New("bridge: invalid schema")
)

// NotFoundError reports a missing row, optionally with the key that
// was looked up. It matches ErrNotFound.
type NotFoundError struct {
	label string
	id    any
}

// NewNotFoundError returns a NotFoundError for the entity.
func NewNotFoundError(label string) *NotFoundError {
	return &NotFoundError{label: label}
}

// NewNotFoundErrorWithID returns a NotFoundError for the entity row
// with the given primary key.
func NewNotFoundErrorWithID(label string, id any) *NotFoundError {
	return &NotFoundError{label: label, id: id}
}

func (e *NotFoundError) Error() string {
	msg := "bridge: " + e.label + " not found"
	if e.id != nil {
		msg += fmt.Sprintf(" (id=%v)", e.id)
	}
	return msg
}

func (e *NotFoundError) Is(err error) bool { return err == ErrNotFound }

// Label returns the entity name.
func (e *NotFoundError) Label() string { return e.label }

// ID returns the primary key that was looked up, or nil.
func (e *NotFoundError) ID() any { return e.id }

// IsNotFound reports whether err is, or wraps, a missing row error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// NotLoadedError is returned when an attribute that is neither loaded
// nor deferred is read from an instance.
type NotLoadedError struct {
	attr string
}

// NewNotLoadedError returns a NotLoadedError for the attribute.
func NewNotLoadedError(attr string) *NotLoadedError {
	return &NotLoadedError{attr: attr}
}

func (e *NotLoadedError) Error() string {
	return fmt.Sprintf("bridge: deferred attribute %q was not loaded", e.attr)
}

// IsNotLoaded reports whether err wraps a NotLoadedError.
func IsNotLoaded(err error) bool {
	return isA[*NotLoadedError](err)
}

// TypeMappingError is returned when no storage type is implemented for
// a field kind. It matches ErrUnimplementedType.
type TypeMappingError struct {
	Kind  string
	Field string // empty before attachment
}

func (e *TypeMappingError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("bridge: no column type for %s field", e.Kind)
	}
	return fmt.Sprintf("bridge: no column type for %s field %q", e.Kind, e.Field)
}

func (e *TypeMappingError) Is(err error) bool { return err == ErrUnimplementedType }

// PhaseError reports a lifecycle phase that ran out of order. It
// matches ErrPhase.
type PhaseError struct {
	Field  string
	Phase  string
	Reason string
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("bridge: field %q: %s: %s", e.Field, e.Phase, e.Reason)
}

func (e *PhaseError) Is(err error) bool { return err == ErrPhase }

// ValidationError wraps the validation failures of one attribute.
type ValidationError struct {
	Name string
	Err  error
}

// NewValidationError returns a ValidationError for the attribute.
func NewValidationError(name string, err error) *ValidationError {
	return &ValidationError{Name: name, Err: err}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("bridge: validator failed for field %q: %s", e.Name, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IsValidationError reports whether err wraps a ValidationError.
func IsValidationError(err error) bool {
	return isA[*ValidationError](err)
}

// AggregateError holds the errors of several attributes. errors.Is and
// errors.As look into each of them.
type AggregateError struct {
	Errors []error
}

// NewAggregateError drops the nil errors and returns nil if none is
// left, the error itself if one is left, and an AggregateError
// otherwise.
func NewAggregateError(errs ...error) error {
	var set []error
	for _, err := range errs {
		if err != nil {
			set = append(set, err)
		}
	}
	switch len(set) {
	case 0:
		return nil
	case 1:
		return set[0]
	default:
		return &AggregateError{Errors: set}
	}
}

func (e *AggregateError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "bridge: no errors"
	case 1:
		return e.Errors[0].Error()
	}
	lines := []string{"bridge: multiple errors:"}
	for i, err := range e.Errors {
		lines = append(lines, fmt.Sprintf("  [%d] %v", i+1, err))
	}
	return strings.Join(lines, "\n")
}

func (e *AggregateError) Unwrap() []error { return e.Errors }

// SchemaError reports an invalid entity declaration. It matches
// ErrInvalidSchema.
type SchemaError struct {
	Entity  string
	Field   string // optional
	Message string
	Cause   error
}

// NewSchemaError returns a SchemaError.
func NewSchemaError(entity, field, message string, cause error) *SchemaError {
	return &SchemaError{Entity: entity, Field: field, Message: message, Cause: cause}
}

func (e *SchemaError) Error() string {
	msg := "bridge: schema error"
	if e.Entity != "" {
		msg += " on entity " + e.Entity
	}
	if e.Field != "" {
		msg += " field " + e.Field
	}
	for _, s := range []string{e.Message, errString(e.Cause)} {
		if s != "" {
			msg += ": " + s
		}
	}
	return msg
}

func (e *SchemaError) Unwrap() error { return e.Cause }

func (e *SchemaError) Is(target error) bool { return target == ErrInvalidSchema }

// QueryError wraps a failed read of an entity. Op is "get" or the
// deferred group being loaded.
type QueryError struct {
	Entity string
	Op     string
	Err    error
}

// NewQueryError returns a QueryError.
func NewQueryError(entity, op string, err error) *QueryError {
	return &QueryError{Entity: entity, Op: op, Err: err}
}

func (e *QueryError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("bridge: querying %s: %v", e.Entity, e.Err)
	}
	return fmt.Sprintf("bridge: querying %s (%s): %v", e.Entity, e.Op, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// MutationError wraps a failed insert or update.
type MutationError struct {
	Entity string
	Op     string
	Err    error
}

// NewMutationError returns a MutationError.
func NewMutationError(entity, op string, err error) *MutationError {
	return &MutationError{Entity: entity, Op: op, Err: err}
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("bridge: %s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

func isA[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
