package sql

import (
	"errors"
	"strings"
)

// ConstraintError is returned by writes that violate a unique or check
// constraint of the table.
type ConstraintError struct {
	// Kind is "unique" or "check".
	Kind string
	err  error
}

// Error implements the error interface.
func (e *ConstraintError) Error() string {
	return "sql: " + e.Kind + " constraint failed: " + e.err.Error()
}

// Unwrap returns the driver error.
func (e *ConstraintError) Unwrap() error { return e.err }

// Constraint violation codes of the drivers.
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
	myDuplicateEntry  = 1062
	myCheckViolation  = 3819
)

// violation describes how each driver reports a kind of violation.
type violation struct {
	kind     string
	sqlState string
	number   uint16
	messages []string
}

var violations = []violation{
	{kind: "unique", sqlState: pgUniqueViolation, number: myDuplicateEntry, messages: []string{
		"UNIQUE constraint failed", "violates unique constraint", "Error 1062",
	}},
	{kind: "check", sqlState: pgCheckViolation, number: myCheckViolation, messages: []string{
		"CHECK constraint failed", "violates check constraint", "Error 3819",
	}},
}

// AsConstraintError wraps err in a ConstraintError if it reports a
// constraint violation, and returns it unchanged otherwise.
func AsConstraintError(err error) error {
	if err == nil {
		return nil
	}
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return err
	}
	for _, v := range violations {
		if v.match(err) {
			return &ConstraintError{Kind: v.kind, err: err}
		}
	}
	return err
}

// IsConstraintError reports if err is a constraint violation.
func IsConstraintError(err error) bool {
	var ce *ConstraintError
	return errors.As(AsConstraintError(err), &ce)
}

// IsUniqueConstraintError reports if err is a unique constraint violation.
func IsUniqueConstraintError(err error) bool {
	var ce *ConstraintError
	return errors.As(AsConstraintError(err), &ce) && ce.Kind == "unique"
}

// IsCheckConstraintError reports if err is a check constraint violation.
func IsCheckConstraintError(err error) bool {
	var ce *ConstraintError
	return errors.As(AsConstraintError(err), &ce) && ce.Kind == "check"
}

func (v violation) match(err error) bool {
	// lib/pq and pgx expose the SQLSTATE, go-sql-driver/mysql the
	// error number. Other drivers are matched on the message.
	if e, ok := as[interface{ SQLState() string }](err); ok && e.SQLState() == v.sqlState {
		return true
	}
	if e, ok := as[interface{ Code() string }](err); ok && e.Code() == v.sqlState {
		return true
	}
	if e, ok := as[interface{ Number() uint16 }](err); ok && e.Number() == v.number {
		return true
	}
	msg := err.Error()
	for _, m := range v.messages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// as returns the first error in the chain implementing T.
func as[T any](err error) (T, bool) {
	for ; err != nil; err = errors.Unwrap(err) {
		if e, ok := err.(T); ok {
			return e, true
		}
	}
	var zero T
	return zero, false
}
