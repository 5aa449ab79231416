package sql

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/syssam/bridge/dialect"
)

// QueryStats holds query execution statistics.
type QueryStats struct {
	queries  atomic.Int64
	execs    atomic.Int64
	slow     atomic.Int64
	errors   atomic.Int64
	duration atomic.Int64 // nanoseconds
}

// StatsSnapshot is a point-in-time snapshot of query statistics.
type StatsSnapshot struct {
	Queries  int64
	Execs    int64
	Slow     int64
	Errors   int64
	Duration time.Duration
}

// Snapshot returns the current statistics.
func (s *QueryStats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Queries:  s.queries.Load(),
		Execs:    s.execs.Load(),
		Slow:     s.slow.Load(),
		Errors:   s.errors.Load(),
		Duration: time.Duration(s.duration.Load()),
	}
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf("queries=%d execs=%d slow=%d errors=%d duration=%s",
		s.Queries, s.Execs, s.Slow, s.Errors, s.Duration)
}

// LogDriver wraps a dialect.Driver, logs every statement at debug level
// and counts them. Statements slower than the threshold are logged at
// warn level.
type LogDriver struct {
	dialect.Driver
	logger *slog.Logger
	stats  *QueryStats
	slow   time.Duration
}

// LogOption configures the LogDriver.
type LogOption func(*LogDriver)

// WithLogger sets the logger. slog.Default is used otherwise.
func WithLogger(l *slog.Logger) LogOption {
	return func(d *LogDriver) {
		d.logger = l
	}
}

// WithSlowThreshold sets the duration above which a statement is
// reported as slow. Zero disables slow statement reporting.
func WithSlowThreshold(t time.Duration) LogOption {
	return func(d *LogDriver) {
		d.slow = t
	}
}

// NewLogDriver wraps drv with statement logging.
//
//	drv, _ := sql.Open("sqlite", "file:app.db")
//	ldrv := sql.NewLogDriver(drv, sql.WithSlowThreshold(100*time.Millisecond))
func NewLogDriver(drv dialect.Driver, opts ...LogOption) *LogDriver {
	d := &LogDriver{Driver: drv, logger: slog.Default(), stats: &QueryStats{}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Stats returns the statistics collected by the driver.
func (d *LogDriver) Stats() *QueryStats {
	return d.stats
}

// Query logs and executes a query.
func (d *LogDriver) Query(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Query(ctx, query, args, v)
	d.record(ctx, "query", query, args, start, err)
	return err
}

// Exec logs and executes a statement.
func (d *LogDriver) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Exec(ctx, query, args, v)
	d.record(ctx, "exec", query, args, start, err)
	return err
}

// Tx starts a transaction whose statements are logged by the driver.
func (d *LogDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	d.logger.DebugContext(ctx, "begin transaction")
	return &LogTx{Tx: tx, driver: d}, nil
}

func (d *LogDriver) record(ctx context.Context, op, query string, args any, start time.Time, err error) {
	elapsed := time.Since(start)
	if op == "query" {
		d.stats.queries.Add(1)
	} else {
		d.stats.execs.Add(1)
	}
	d.stats.duration.Add(int64(elapsed))
	attrs := []any{slog.String("op", op), slog.String("query", query), slog.Any("args", args), slog.Duration("duration", elapsed)}
	switch {
	case err != nil:
		d.stats.errors.Add(1)
		d.logger.ErrorContext(ctx, "statement failed", append(attrs, slog.Any("error", err))...)
	case d.slow > 0 && elapsed > d.slow:
		d.stats.slow.Add(1)
		d.logger.WarnContext(ctx, "slow statement", attrs...)
	default:
		d.logger.DebugContext(ctx, "statement", attrs...)
	}
}

// LogTx wraps a transaction with statement logging.
type LogTx struct {
	dialect.Tx
	driver *LogDriver
}

// Query logs and executes a query within the transaction.
func (tx *LogTx) Query(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := tx.Tx.Query(ctx, query, args, v)
	tx.driver.record(ctx, "query", query, args, start, err)
	return err
}

// Exec logs and executes a statement within the transaction.
func (tx *LogTx) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := tx.Tx.Exec(ctx, query, args, v)
	tx.driver.record(ctx, "exec", query, args, start, err)
	return err
}

// Commit commits the transaction.
func (tx *LogTx) Commit() error {
	tx.driver.logger.Debug("commit transaction")
	return tx.Tx.Commit()
}

// Rollback rolls back the transaction.
func (tx *LogTx) Rollback() error {
	tx.driver.logger.Debug("rollback transaction")
	return tx.Tx.Rollback()
}

var (
	_ dialect.Driver = (*LogDriver)(nil)
	_ dialect.Tx     = (*LogTx)(nil)
)
