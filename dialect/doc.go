// Package dialect defines the database contracts shared by the bridge
// packages and the names of the supported dialects.
//
//   - Postgres: PostgreSQL
//   - MySQL: MySQL and MariaDB
//   - SQLite: SQLite
//
// Drivers implement Driver; transactions implement Tx. Both satisfy
// ExecQuerier:
//
//	type ExecQuerier interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	}
//
// The sql sub-package provides the database/sql implementation:
//
//	drv, err := sql.Open(dialect.SQLite, "file:app.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
package dialect
