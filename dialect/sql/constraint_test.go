package sql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestConstraintError(t *testing.T) {
	for _, tt := range []struct {
		name          string
		err           error
		unique, check bool
	}{
		{name: "nil"},
		{name: "other", err: errors.New("connection refused")},
		{name: "sqlite unique", err: errors.New("constraint failed: UNIQUE constraint failed: items.name (2067)"), unique: true},
		{name: "sqlite check", err: errors.New("constraint failed: CHECK constraint failed: price >= 0 (275)"), check: true},
		{name: "postgres unique", err: &pq.Error{Code: pgUniqueViolation}, unique: true},
		{name: "postgres check", err: fmt.Errorf("exec: %w", &pq.Error{Code: pgCheckViolation}), check: true},
		{name: "mysql unique", err: &mysql.MySQLError{Number: myDuplicateEntry, Message: "Duplicate entry"}, unique: true},
		{name: "mysql check", err: &mysql.MySQLError{Number: myCheckViolation}, check: true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unique, IsUniqueConstraintError(tt.err))
			assert.Equal(t, tt.check, IsCheckConstraintError(tt.err))
			assert.Equal(t, tt.unique || tt.check, IsConstraintError(tt.err))
			wrapped := AsConstraintError(tt.err)
			if tt.err == nil {
				assert.NoError(t, wrapped)
				return
			}
			assert.ErrorIs(t, wrapped, tt.err)
			var ce *ConstraintError
			assert.Equal(t, tt.unique || tt.check, errors.As(wrapped, &ce))
			// Wrapping is idempotent.
			assert.Equal(t, wrapped, AsConstraintError(wrapped))
		})
	}
}
