package dialect

import (
	"context"
	"fmt"
	"slices"
)

// Dialect names for external usage.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite3"
	Postgres = "postgres"
)

// ExecQuerier wraps the two database operations.
type ExecQuerier interface {
	// Exec executes a query that does not return records. For example, in SQL, INSERT or UPDATE.
	// It scans the result into the pointer v. For SQL drivers, it is dialect/sql.Result.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a query that returns rows, typically a SELECT in SQL.
	// It scans the result into the pointer v. For SQL drivers, it is *dialect/sql.Rows.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the interface that wraps all necessary operations for the mapped entities.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	// The provided context is used until the transaction is committed or rolled back.
	Tx(context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx wraps the Exec and Query operations in transaction.
type Tx interface {
	ExecQuerier
	Commit() error
	Rollback() error
}

// Normalize maps driver names and common aliases ("sqlite", "pgx",
// "postgresql") to one of the dialect names.
func Normalize(name string) (string, error) {
	switch name {
	case MySQL:
		return MySQL, nil
	case SQLite, "sqlite":
		return SQLite, nil
	case Postgres, "postgresql", "pgx":
		return Postgres, nil
	}
	return "", fmt.Errorf("dialect: unsupported dialect %q", name)
}

// Names returns the supported dialect names.
func Names() []string {
	return slices.Clone(names)
}

var names = []string{MySQL, Postgres, SQLite}
