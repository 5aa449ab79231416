// Package sql implements dialect.Driver on top of database/sql and
// provides a small statement builder used by the session package.
//
// # Dialect Support
//
// Statements adapt to the dialect: identifiers are quoted with double
// quotes (backticks on MySQL) and arguments are written as "?" (or "$n"
// on Postgres).
//
//	sql.Dialect(dialect.Postgres).
//	    Select("id", "head").
//	    From("articles").
//	    Where(sql.EQ("id", 1))
//	// SELECT "id", "head" FROM "articles" WHERE "id" = $1
//
// # Logging
//
// NewLogDriver wraps any driver, logs statements through log/slog and
// counts them:
//
//	drv, err := sql.Open("sqlite", "file:app.db")
//	if err != nil {
//	    return err
//	}
//	ldrv := sql.NewLogDriver(drv, sql.WithSlowThreshold(100*time.Millisecond))
package sql
