package sql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/syssam/bridge/dialect"
)

type (
	// Result is the result of an Exec.
	Result = sql.Result

	// Rows holds the rows of a Query. The struct wrapper keeps callers
	// from copying the lock inside *sql.Rows.
	Rows struct{ ColumnScanner }

	// ColumnScanner is the subset of *sql.Rows used for scanning.
	ColumnScanner interface {
		Close() error
		ColumnTypes() ([]*sql.ColumnType, error)
		Columns() ([]string, error)
		Err() error
		Next() bool
		NextResultSet() bool
		Scan(dest ...any) error
	}

	// ExecQuerier is implemented by *sql.DB and *sql.Tx.
	ExecQuerier interface {
		ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
		QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	}
)

// Conn adapts an ExecQuerier to dialect.ExecQuerier.
type Conn struct {
	ExecQuerier
	dialect string
}

// Exec runs a statement. v is nil, or a *Result that receives the
// statement result.
func (c Conn) Exec(ctx context.Context, query string, args, v any) error {
	argv, err := argList(args)
	if err != nil {
		return err
	}
	res, ok := v.(*Result)
	if v != nil && !ok {
		return fmt.Errorf("dialect/sql: invalid type %T. expect *sql.Result", v)
	}
	r, err := c.ExecContext(ctx, query, argv...)
	if err != nil {
		return fmt.Errorf("dialect/sql: exec: %w", err)
	}
	if res != nil {
		*res = r
	}
	return nil
}

// Query runs a query and stores its rows in v, which must be a *Rows.
// The caller closes the rows.
func (c Conn) Query(ctx context.Context, query string, args, v any) error {
	rows, ok := v.(*Rows)
	if !ok {
		return fmt.Errorf("dialect/sql: invalid type %T. expect *sql.Rows", v)
	}
	argv, err := argList(args)
	if err != nil {
		return err
	}
	r, err := c.QueryContext(ctx, query, argv...)
	if err != nil {
		return fmt.Errorf("dialect/sql: query: %w", err)
	}
	rows.ColumnScanner = r
	return nil
}

func argList(args any) ([]any, error) {
	argv, ok := args.([]any)
	if !ok {
		return nil, fmt.Errorf("dialect/sql: invalid type %T. expect []any for args", args)
	}
	return argv, nil
}

// Driver is the dialect.Driver of database/sql databases.
type Driver struct {
	Conn
	db *sql.DB
}

var _ dialect.Driver = (*Driver)(nil)

// Open opens a database with a driver registered in database/sql, such
// as "sqlite" (modernc.org/sqlite), "postgres" (lib/pq) or "mysql". The
// dialect follows from the driver name.
func Open(driverName, source string) (*Driver, error) {
	name, err := dialect.Normalize(driverName)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driverName, source)
	if err != nil {
		return nil, err
	}
	return OpenDB(name, db), nil
}

// OpenDB returns a Driver of the given dialect over db.
func OpenDB(dialect string, db *sql.DB) *Driver {
	return &Driver{Conn: Conn{ExecQuerier: db, dialect: dialect}, db: db}
}

// DB returns the database handle.
func (d *Driver) DB() *sql.DB { return d.db }

// Dialect returns the dialect name.
func (d *Driver) Dialect() string { return d.dialect }

// Close closes the database.
func (d *Driver) Close() error { return d.db.Close() }

// Tx begins a transaction.
func (d *Driver) Tx(ctx context.Context) (dialect.Tx, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{Conn: Conn{ExecQuerier: tx, dialect: d.dialect}, Tx: tx}, nil
}

// Tx is a dialect.Tx over *sql.Tx.
type Tx struct {
	Conn
	driver.Tx
}

// ScanMaps reads the remaining rows into maps keyed by column name and
// closes rows. []byte values are returned as strings.
func ScanMaps(rows ColumnScanner) ([]map[string]any, error) {
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(columns))
		for i, name := range columns {
			if b, ok := values[i].([]byte); ok {
				row[name] = string(b)
			} else {
				row[name] = values[i]
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
