package session

import (
	"context"
	"fmt"

	"github.com/syssam/bridge"
	"github.com/syssam/bridge/dialect/sql"
	"github.com/syssam/bridge/entity"
)

// GetMany loads the rows with the given primary keys in one query. The
// results are in the order of pks; a key without a row has a nil
// instance and a NotFoundError at the same index.
func (s *Session) GetMany(ctx context.Context, e *entity.Entity, pks ...any) ([]*Instance, []error) {
	fail := func(err error) ([]*Instance, []error) {
		errs := make([]error, len(pks))
		for i := range errs {
			errs[i] = bridge.NewQueryError(e.Name(), "get", err)
		}
		return make([]*Instance, len(pks)), errs
	}
	if len(pks) == 0 {
		return nil, nil
	}
	pkf, err := e.PrimaryKey()
	if err != nil {
		return fail(err)
	}
	cols := e.Descriptor().EagerColumns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	query, args := sql.Dialect(s.drv.Dialect()).
		Select(names...).
		From(e.Descriptor().Name).
		Where(sql.In(pkf.ColumnName(), pks...)).
		Query()
	var rows sql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return fail(err)
	}
	found, err := sql.ScanMaps(rows)
	if err != nil {
		return fail(err)
	}
	return orderByKeys(pks, found, func(row map[string]any) any {
		return row[pkf.ColumnName()]
	}, func(pk any, row map[string]any) *Instance {
		i := newInstance(s, e, pk)
		i.set(cols, row)
		return i
	}, func(pk any) error {
		return bridge.NewNotFoundErrorWithID(e.Name(), pk)
	})
}

// orderByKeys matches rows to the requested keys. Keys are compared by
// their formatted value since drivers scan integer keys as int64.
func orderByKeys[R, V any](keys []any, rows []R, keyOf func(R) any, build func(any, R) V, missing func(any) error) ([]V, []error) {
	lookup := make(map[string]R, len(rows))
	for _, r := range rows {
		lookup[fmt.Sprint(keyOf(r))] = r
	}
	var (
		out  = make([]V, len(keys))
		errs = make([]error, len(keys))
	)
	for i, k := range keys {
		if r, ok := lookup[fmt.Sprint(k)]; ok {
			out[i] = build(k, r)
		} else {
			errs[i] = missing(k)
		}
	}
	return out, errs
}
