package session

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/bridge"
	"github.com/syssam/bridge/dialect/sql/schema"
	"github.com/syssam/bridge/entity"
)

// Instance is a loaded row of an entity. Deferred attributes are loaded
// on first access. It is safe for concurrent use.
type Instance struct {
	s      *Session
	e      *entity.Entity
	pk     any
	mu     sync.Mutex
	values map[*schema.Column]any
}

func newInstance(s *Session, e *entity.Entity, pk any) *Instance {
	return &Instance{s: s, e: e, pk: pk, values: make(map[*schema.Column]any)}
}

// Entity returns the entity of the instance.
func (i *Instance) Entity() *entity.Entity { return i.e }

// PK returns the primary key of the instance.
func (i *Instance) PK() any { return i.pk }

// Loaded reports if the attribute value is loaded.
func (i *Instance) Loaded(attr string) bool {
	c, _, err := i.e.Descriptor().Resolve(attr)
	if err != nil {
		return false
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	_, ok := i.values[c]
	return ok
}

// Get returns the value of the attribute. Synonyms are followed, and
// deferred attributes load their group on first access.
func (i *Instance) Get(ctx context.Context, attr string) (any, error) {
	c, p, err := i.e.Descriptor().Resolve(attr)
	if err != nil {
		return nil, err
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if v, ok := i.values[c]; ok {
		return v, nil
	}
	dp, ok := p.(*schema.DeferredProperty)
	if !ok {
		return nil, bridge.NewNotLoadedError(attr)
	}
	if err := i.load(ctx, dp); err != nil {
		return nil, bridge.NewQueryError(i.e.Name(), "load "+groupName(dp), err)
	}
	return i.values[c], nil
}

// set records the values of the columns from a loaded row.
func (i *Instance) set(cols []*schema.Column, row map[string]any) {
	for _, c := range cols {
		i.values[c] = row[c.Name]
	}
}

// load loads the columns of the deferred property, from the cache when
// possible. Callers hold the lock.
func (i *Instance) load(ctx context.Context, p *schema.DeferredProperty) error {
	cols := i.e.Descriptor().Load(p)
	key := bridge.CacheKey{Table: i.e.Descriptor().Name, PK: fmt.Sprint(i.pk), Group: groupName(p)}
	if row, ok := i.cached(ctx, key); ok {
		i.set(cols, row)
		return nil
	}
	pkf, err := i.e.PrimaryKey()
	if err != nil {
		return err
	}
	row, err := i.s.selectRow(ctx, i.e, pkf, i.pk, cols)
	if err != nil {
		return err
	}
	if row == nil {
		return bridge.NewNotFoundErrorWithID(i.e.Name(), i.pk)
	}
	i.s.logger.DebugContext(ctx, "deferred group loaded", "entity", i.e.Name(), "group", key.Group, "columns", len(cols))
	i.set(cols, row)
	i.store(ctx, key, row)
	return nil
}

func (i *Instance) cached(ctx context.Context, key bridge.CacheKey) (map[string]any, bool) {
	if i.s.cache == nil {
		return nil, false
	}
	b, err := i.s.cache.Get(ctx, key.String())
	if err != nil || b == nil {
		return nil, false
	}
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.UseLooseInterfaceDecoding(true)
	var row map[string]any
	if err := dec.Decode(&row); err != nil {
		i.s.logger.WarnContext(ctx, "cached group is invalid", "key", key.String(), "error", err)
		return nil, false
	}
	return row, true
}

func (i *Instance) store(ctx context.Context, key bridge.CacheKey, row map[string]any) {
	if i.s.cache == nil {
		return
	}
	b, err := msgpack.Marshal(row)
	if err == nil {
		err = i.s.cache.Set(ctx, key.String(), b, i.s.ttl)
	}
	if err != nil {
		i.s.logger.WarnContext(ctx, "caching group failed", "key", key.String(), "error", err)
	}
}

// groupName returns the cache group of a deferred property. Individually
// deferred columns form a group of their own.
func groupName(p *schema.DeferredProperty) string {
	if p.Group != "" {
		return p.Group
	}
	return "column:" + p.Column.Name
}
