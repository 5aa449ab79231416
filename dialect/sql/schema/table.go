package schema

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownAttribute is returned when an attribute maps to no column.
var ErrUnknownAttribute = errors.New("schema: unknown attribute")

// DuplicateError is returned when a column or a property is added twice
// to a table.
type DuplicateError struct {
	Table string
	Kind  string // "column" or "property".
	Name  string
}

// Error implements the error interface.
func (e *DuplicateError) Error() string {
	return fmt.Sprintf("schema: duplicate %s %q in table %q", e.Kind, e.Name, e.Table)
}

// TableIndex is an index of a table. Column indexes and unique
// constraints are recorded as table indexes.
type TableIndex struct {
	Name    string
	Unique  bool
	Columns []*Column
}

// Table is the mapping descriptor of an entity: its storage columns and
// the properties that bind attributes to them.
type Table struct {
	Name       string
	Comment    string
	Columns    []*Column
	PrimaryKey []*Column
	Indexes    []*TableIndex
	Checks     []*Check
	columns    map[string]*Column
	properties map[string]Property
	names      []string
}

// NewTable returns a new table with the given name.
func NewTable(name string) *Table {
	return &Table{
		Name:       name,
		columns:    make(map[string]*Column),
		properties: make(map[string]Property),
	}
}

// AddColumn adds a column to the table. Primary key columns are recorded
// in the primary key; indexed and unique columns get a table index.
func (t *Table) AddColumn(c *Column) error {
	if _, ok := t.columns[c.Name]; ok {
		return &DuplicateError{Table: t.Name, Kind: "column", Name: c.Name}
	}
	t.columns[c.Name] = c
	t.Columns = append(t.Columns, c)
	switch {
	case c.PrimaryKey:
		t.PrimaryKey = append(t.PrimaryKey, c)
	case c.Unique:
		t.Indexes = append(t.Indexes, &TableIndex{Name: t.Name + "_" + c.Name + "_key", Unique: true, Columns: []*Column{c}})
	case c.Index:
		t.Indexes = append(t.Indexes, &TableIndex{Name: t.Name + "_" + c.Name, Columns: []*Column{c}})
	}
	return nil
}

// AddProperty binds the attribute name to p.
func (t *Table) AddProperty(name string, p Property) error {
	if _, ok := t.properties[name]; ok {
		return &DuplicateError{Table: t.Name, Kind: "property", Name: name}
	}
	t.properties[name] = p
	t.names = append(t.names, name)
	return nil
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (*Column, bool) {
	c, ok := t.columns[name]
	return c, ok
}

// HasColumn reports if the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Property returns the property bound to the attribute name.
func (t *Table) Property(name string) (Property, bool) {
	p, ok := t.properties[name]
	return p, ok
}

// PropertyNames returns the names of the bound properties in the order
// they were added.
func (t *Table) PropertyNames() []string {
	return slices.Clone(t.names)
}

// Resolve returns the column the attribute maps to, following synonyms,
// and the property that maps it. The property is nil for attributes that
// map to the column of the same name.
func (t *Table) Resolve(attr string) (*Column, Property, error) {
	seen := make(map[string]bool)
	for name := attr; ; {
		if seen[name] {
			return nil, nil, fmt.Errorf("%w: synonym cycle at %q", ErrUnknownAttribute, attr)
		}
		seen[name] = true
		switch p := t.properties[name].(type) {
		case *SynonymProperty:
			name = p.Name
		case *ColumnProperty:
			return p.Column, p, nil
		case *DeferredProperty:
			return p.Column, p, nil
		case nil:
			c, ok := t.columns[name]
			if !ok || t.mapped(c) {
				return nil, nil, fmt.Errorf("%w: %q in table %q", ErrUnknownAttribute, attr, t.Name)
			}
			return c, nil, nil
		default:
			return nil, nil, fmt.Errorf("schema: unexpected property %T", p)
		}
	}
}

// mapped reports if a property maps the column under another name.
func (t *Table) mapped(c *Column) bool {
	for _, p := range t.properties {
		switch p := p.(type) {
		case *ColumnProperty:
			if p.Column == c {
				return true
			}
		case *DeferredProperty:
			if p.Column == c {
				return true
			}
		}
	}
	return false
}

// Deferral returns the deferred property of the column, if the column
// is deferred.
func (t *Table) Deferral(c *Column) (*DeferredProperty, bool) {
	for _, name := range t.names {
		if p, ok := t.properties[name].(*DeferredProperty); ok && p.Column == c {
			return p, true
		}
	}
	return nil, false
}

// EagerColumns returns the columns loaded with the entity, in table order.
func (t *Table) EagerColumns() []*Column {
	cols := make([]*Column, 0, len(t.Columns))
	for _, c := range t.Columns {
		if _, ok := t.Deferral(c); !ok {
			cols = append(cols, c)
		}
	}
	return cols
}

// Groups returns the columns of the named deferred groups.
func (t *Table) Groups() map[string][]*Column {
	groups := make(map[string][]*Column)
	for _, name := range t.names {
		if p, ok := t.properties[name].(*DeferredProperty); ok && p.Group != "" {
			groups[p.Group] = append(groups[p.Group], p.Column)
		}
	}
	return groups
}

// Load returns the columns loaded together with the deferred property:
// the columns of its group, or its own column.
func (t *Table) Load(p *DeferredProperty) []*Column {
	if p.Group == "" {
		return []*Column{p.Column}
	}
	return t.Groups()[p.Group]
}
