package entity

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/syssam/bridge"
	"github.com/syssam/bridge/adapter"
	"github.com/syssam/bridge/dialect/sql/schema"
	"github.com/syssam/bridge/dialect/sqlschema"
	bschema "github.com/syssam/bridge/schema"
	"github.com/syssam/bridge/schema/field"
)

// Entity is a mapped entity: its adapted fields and the table they
// registered their columns and properties with.
type Entity struct {
	name        string
	table       *schema.Table
	fields      []*adapter.Field
	attrs       map[string]*adapter.Field
	columns     map[*schema.Column]*adapter.Field
	annotations []bschema.Annotation
}

// Option configures entity construction.
type Option func(*config)

type config struct {
	registry *adapter.Registry
	logger   *slog.Logger
}

// WithRegistry sets the registry fields are adapted with. Defaults to
// adapter.Default().
func WithRegistry(r *adapter.Registry) Option {
	return func(c *config) {
		c.registry = r
	}
}

// WithLogger sets the logger of entity construction.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

func newConfig(opts []Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = adapter.Default()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// New builds the entity of the declaration. Mixin fields precede the
// declared fields. An entity without a primary key field gets an
// implicit "id" auto field.
func New(name string, s bridge.Interface, opts ...Option) (*Entity, error) {
	return newEntity(name, s, newConfig(opts))
}

func newEntity(name string, s bridge.Interface, cfg *config) (*Entity, error) {
	if name == "" {
		return nil, bridge.NewSchemaError("", "", "missing entity name", nil)
	}
	descs, err := descriptors(name, s)
	if err != nil {
		return nil, err
	}
	ants := bschema.Merge(s.Annotations())
	e := &Entity{
		name:        name,
		table:       schema.NewTable(TableName(name)),
		attrs:       make(map[string]*adapter.Field, len(descs)),
		columns:     make(map[*schema.Column]*adapter.Field, len(descs)),
		annotations: ants,
	}
	ant, _ := sqlschema.From(ants)
	if ant.Table != "" {
		e.table.Name = ant.Table
	}
	for _, a := range ants {
		if c, ok := a.(*bschema.CommentAnnotation); ok && ant.Comments() {
			e.table.Comment = c.Text
		}
	}
	if ant.Check != "" {
		e.table.Checks = append(e.table.Checks, &schema.Check{Name: e.table.Name + "_check", Expr: ant.Check})
	}
	for _, n := range slices.Sorted(maps.Keys(ant.Checks)) {
		e.table.Checks = append(e.table.Checks, &schema.Check{Name: n, Expr: ant.Checks[n]})
	}
	for _, d := range descs {
		e.fields = append(e.fields, cfg.registry.Field(d))
	}
	if err := e.build(cfg.logger); err != nil {
		return nil, err
	}
	return e, nil
}

// descriptors collects the field descriptors of the declaration and
// checks them.
func descriptors(name string, s bridge.Interface) ([]*field.Descriptor, error) {
	var fields []bridge.Field
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
	}
	fields = append(fields, s.Fields()...)
	var (
		errs  []error
		pk    bool
		descs = make([]*field.Descriptor, 0, len(fields)+1)
		names = make(map[string]bool, len(fields))
	)
	for _, f := range fields {
		d := f.Descriptor()
		switch {
		case d.Err != nil:
			errs = append(errs, bridge.NewSchemaError(name, d.Name, "invalid field", d.Err))
			continue
		case d.Name == "":
			errs = append(errs, bridge.NewSchemaError(name, "", "missing field name", nil))
			continue
		case names[d.Name]:
			errs = append(errs, bridge.NewSchemaError(name, d.Name, "duplicate field", nil))
			continue
		}
		names[d.Name] = true
		pk = pk || d.PrimaryKey
		descs = append(descs, d)
	}
	if !pk && len(errs) == 0 {
		if names["id"] {
			errs = append(errs, bridge.NewSchemaError(name, "id", "field conflicts with the implicit primary key", nil))
		}
		descs = append([]*field.Descriptor{field.Auto("id").Descriptor()}, descs...)
	}
	if err := bridge.NewAggregateError(errs...); err != nil {
		return nil, err
	}
	return descs, nil
}

// build runs the field lifecycle passes.
func (e *Entity) build(logger *slog.Logger) error {
	for _, f := range e.fields {
		if err := f.Attach(e, f.Descriptor().Name); err != nil {
			return e.fieldError(f, "attach", err)
		}
		e.attrs[f.Name()] = f
	}
	for _, f := range e.fields {
		if err := f.CreatePKColumns(); err != nil {
			return e.fieldError(f, "create primary key column", err)
		}
	}
	for _, f := range e.fields {
		if err := f.CreateNonPKColumns(); err != nil {
			return e.fieldError(f, "create column", err)
		}
	}
	for _, f := range e.fields {
		if err := f.CreateProperties(); err != nil {
			return e.fieldError(f, "create properties", err)
		}
		e.columns[f.Column()] = f
		if syn := f.Descriptor().Synonym; syn != "" {
			if _, ok := e.attrs[syn]; ok {
				return e.fieldError(f, "create properties", fmt.Errorf("synonym %q shadows a field", syn))
			}
		}
	}
	logger.Debug("entity mapped",
		"entity", e.name,
		"table", e.table.Name,
		"columns", len(e.table.Columns),
		"properties", len(e.table.PropertyNames()),
	)
	return nil
}

func (e *Entity) fieldError(f *adapter.Field, msg string, err error) error {
	name := f.Name()
	if name == "" {
		name = f.Descriptor().Name
	}
	return bridge.NewSchemaError(e.name, name, msg, err)
}

// Name returns the entity name. It implements adapter.Owner.
func (e *Entity) Name() string { return e.name }

// Descriptor returns the entity table. It implements adapter.Owner.
func (e *Entity) Descriptor() *schema.Table { return e.table }

// Fields returns the adapted fields, primary key first when implicit,
// then in declaration order.
func (e *Entity) Fields() []*adapter.Field { return e.fields }

// Annotations returns the merged entity annotations.
func (e *Entity) Annotations() []bschema.Annotation { return e.annotations }

// Field returns the field declared under the attribute name. Synonyms
// are not fields; use Resolve to follow them.
func (e *Entity) Field(attr string) (*adapter.Field, bool) {
	f, ok := e.attrs[attr]
	return f, ok
}

// Resolve returns the field an attribute name maps to, following
// synonyms.
func (e *Entity) Resolve(attr string) (*adapter.Field, error) {
	c, _, err := e.table.Resolve(attr)
	if err != nil {
		return nil, err
	}
	f, ok := e.columns[c]
	if !ok {
		return nil, fmt.Errorf("entity %s: column %q has no field", e.name, c.Name)
	}
	return f, nil
}

// PrimaryKey returns the primary key field of the entity. Entities with
// a composite primary key have none.
func (e *Entity) PrimaryKey() (*adapter.Field, error) {
	if n := len(e.table.PrimaryKey); n != 1 {
		return nil, fmt.Errorf("entity %s: %w: %d primary key columns", e.name, errCompositeKey, n)
	}
	return e.columns[e.table.PrimaryKey[0]], nil
}

var errCompositeKey = errors.New("single column primary key required")

var _ adapter.Owner = (*Entity)(nil)
