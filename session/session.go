package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/syssam/bridge"
	"github.com/syssam/bridge/adapter"
	"github.com/syssam/bridge/dialect"
	"github.com/syssam/bridge/dialect/sql"
	"github.com/syssam/bridge/dialect/sql/schema"
	"github.com/syssam/bridge/entity"
)

// Session loads and stores entities through a driver. It is safe for
// concurrent use.
type Session struct {
	drv    dialect.Driver
	cache  bridge.Cache
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithCache keeps loaded deferred groups in c for ttl. A zero ttl keeps
// them until the row is updated.
func WithCache(c bridge.Cache, ttl time.Duration) Option {
	return func(s *Session) {
		s.cache, s.ttl = c, ttl
	}
}

// WithLogger sets the logger of the session.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithClock sets the clock used for auto-populated time fields.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// New returns a session over the driver.
func New(drv dialect.Driver, opts ...Option) *Session {
	s := &Session{drv: drv, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get loads the row of the entity with the given primary key. Only the
// eager columns are loaded.
func (s *Session) Get(ctx context.Context, e *entity.Entity, pk any) (*Instance, error) {
	pkf, err := e.PrimaryKey()
	if err != nil {
		return nil, bridge.NewQueryError(e.Name(), "get", err)
	}
	cols := e.Descriptor().EagerColumns()
	row, err := s.selectRow(ctx, e, pkf, pk, cols)
	if err != nil {
		return nil, bridge.NewQueryError(e.Name(), "get", err)
	}
	if row == nil {
		return nil, bridge.NewNotFoundErrorWithID(e.Name(), pk)
	}
	i := newInstance(s, e, pk)
	i.set(cols, row)
	return i, nil
}

// selectRow selects the columns of the row with the given primary key.
// It returns nil if there is no such row.
func (s *Session) selectRow(ctx context.Context, e *entity.Entity, pkf *adapter.Field, pk any, cols []*schema.Column) (map[string]any, error) {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	query, args := sql.Dialect(s.drv.Dialect()).
		Select(names...).
		From(e.Descriptor().Name).
		Where(sql.EQ(pkf.ColumnName(), pk)).
		Limit(1).
		Query()
	var rows sql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, err
	}
	found, err := sql.ScanMaps(rows)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

// Insert validates and inserts a row. Values are keyed by attribute
// name; synonyms are accepted. Fields run their pre-save hook before
// validation, so defaults and auto-populated times are filled in. It
// returns the primary key of the new row.
func (s *Session) Insert(ctx context.Context, e *entity.Entity, values map[string]any) (any, error) {
	byField, err := resolve(e, values)
	if err != nil {
		return nil, bridge.NewMutationError(e.Name(), "insert", err)
	}
	pkf, err := e.PrimaryKey()
	if err != nil {
		return nil, bridge.NewMutationError(e.Name(), "insert", err)
	}
	var (
		now  = s.now()
		errs []error
		pk   any
		ins  = sql.Dialect(s.drv.Dialect()).Insert(e.Descriptor().Name)
	)
	for _, f := range e.Fields() {
		d := f.Descriptor()
		v := d.PreSave(byField[f], true, now)
		if v == nil && f.Column().Increment {
			continue
		}
		if err := d.Validate(v); err != nil {
			errs = append(errs, bridge.NewValidationError(f.Name(), err))
			continue
		}
		if v == nil {
			continue
		}
		if f == pkf {
			pk = v
		}
		ins.Set(f.ColumnName(), v)
	}
	if err := bridge.NewAggregateError(errs...); err != nil {
		return nil, err
	}
	if pk != nil {
		query, args := ins.Query()
		if err := s.drv.Exec(ctx, query, args, nil); err != nil {
			return nil, bridge.NewMutationError(e.Name(), "insert", sql.AsConstraintError(err))
		}
		return pk, nil
	}
	if s.drv.Dialect() == dialect.Postgres {
		query, args := ins.Returning(pkf.ColumnName()).Query()
		var rows sql.Rows
		if err := s.drv.Query(ctx, query, args, &rows); err != nil {
			return nil, bridge.NewMutationError(e.Name(), "insert", sql.AsConstraintError(err))
		}
		found, err := sql.ScanMaps(rows)
		switch {
		case err != nil:
			return nil, bridge.NewMutationError(e.Name(), "insert", err)
		case len(found) == 0:
			return nil, bridge.NewMutationError(e.Name(), "insert", errors.New("no key returned"))
		}
		return found[0][pkf.ColumnName()], nil
	}
	query, args := ins.Query()
	var res sql.Result
	if err := s.drv.Exec(ctx, query, args, &res); err != nil {
		return nil, bridge.NewMutationError(e.Name(), "insert", sql.AsConstraintError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, bridge.NewMutationError(e.Name(), "insert", err)
	}
	s.logger.DebugContext(ctx, "row inserted", "entity", e.Name(), "id", id)
	return id, nil
}

// Update validates and writes the given values to the row with the
// primary key. Fields with AutoNow are refreshed. Cached groups of the
// row are dropped.
func (s *Session) Update(ctx context.Context, e *entity.Entity, pk any, values map[string]any) error {
	byField, err := resolve(e, values)
	if err != nil {
		return bridge.NewMutationError(e.Name(), "update", err)
	}
	pkf, err := e.PrimaryKey()
	if err != nil {
		return bridge.NewMutationError(e.Name(), "update", err)
	}
	if _, ok := byField[pkf]; ok {
		return bridge.NewMutationError(e.Name(), "update", fmt.Errorf("primary key %q cannot be updated", pkf.Name()))
	}
	var (
		now  = s.now()
		errs []error
		upd  = sql.Dialect(s.drv.Dialect()).Update(e.Descriptor().Name)
	)
	for _, f := range e.Fields() {
		d := f.Descriptor()
		v, ok := byField[f]
		if !ok && !d.AutoNow {
			continue
		}
		v = d.PreSave(v, false, now)
		if err := d.Validate(v); err != nil {
			errs = append(errs, bridge.NewValidationError(f.Name(), err))
			continue
		}
		upd.Set(f.ColumnName(), v)
	}
	if err := bridge.NewAggregateError(errs...); err != nil {
		return err
	}
	if upd.Empty() {
		return nil
	}
	query, args := upd.Where(sql.EQ(pkf.ColumnName(), pk)).Query()
	var res sql.Result
	if err := s.drv.Exec(ctx, query, args, &res); err != nil {
		return bridge.NewMutationError(e.Name(), "update", sql.AsConstraintError(err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// MySQL counts changed rows, not matched ones, unless the DSN
		// sets clientFoundRows.
		row, err := s.selectRow(ctx, e, pkf, pk, []*schema.Column{pkf.Column()})
		if err != nil {
			return bridge.NewMutationError(e.Name(), "update", err)
		}
		if row == nil {
			return bridge.NewNotFoundErrorWithID(e.Name(), pk)
		}
	}
	if s.cache != nil {
		key := bridge.CacheKey{Table: e.Descriptor().Name, PK: fmt.Sprint(pk)}
		if err := s.cache.DeletePrefix(ctx, key.Prefix()); err != nil {
			s.logger.WarnContext(ctx, "cache invalidation failed", "entity", e.Name(), "error", err)
		}
	}
	return nil
}

// resolve maps attribute values to the fields they belong to.
func resolve(e *entity.Entity, values map[string]any) (map[*adapter.Field]any, error) {
	byField := make(map[*adapter.Field]any, len(values))
	for _, attr := range slices.Sorted(maps.Keys(values)) {
		f, err := e.Resolve(attr)
		if err != nil {
			return nil, err
		}
		if _, ok := byField[f]; ok {
			return nil, fmt.Errorf("attribute %q is set more than once", f.Name())
		}
		byField[f] = values[attr]
	}
	return byField, nil
}
