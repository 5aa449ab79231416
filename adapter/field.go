package adapter

import (
	"fmt"

	"github.com/syssam/bridge"
	"github.com/syssam/bridge/dialect/sql/schema"
	"github.com/syssam/bridge/schema/field"
)

// An Owner is the mapped entity a field is attached to.
type Owner interface {
	// Name returns the entity name.
	Name() string
	// Descriptor returns the table the entity columns and properties
	// are registered with.
	Descriptor() *schema.Table
}

// phase is the lifecycle phase a field reached.
type phase uint8

const (
	phaseNew phase = iota
	phaseAttached
	phaseColumn
	phaseProperties
)

// Field is the adapter of one declared field: the framework descriptor
// composed with the mapper of its kind.
type Field struct {
	desc     *field.Descriptor
	mapper   Mapper
	owner    Owner
	name     string
	colname  string
	column   *schema.Column
	property schema.Property
	synonym  *schema.SynonymProperty
	phase    phase
}

// NewField returns a new adapter field.
func NewField(d *field.Descriptor, m Mapper) *Field {
	if m == nil {
		m = Base{}
	}
	return &Field{desc: d, mapper: m, colname: d.Column}
}

// Descriptor returns the framework descriptor of the field.
func (f *Field) Descriptor() *field.Descriptor { return f.desc }

// Mapper returns the mapper of the field.
func (f *Field) Mapper() Mapper { return f.mapper }

// Owner returns the entity the field is attached to, or nil.
func (f *Field) Owner() Owner { return f.owner }

// Name returns the attribute name, set on attachment.
func (f *Field) Name() string { return f.name }

// ColumnName returns the storage column name: the explicit column name
// of the field, or its attribute name once attached.
func (f *Field) ColumnName() string { return f.colname }

// Column returns the created column, or nil before column creation.
func (f *Field) Column() *schema.Column { return f.column }

// Property returns the mapped property of the attribute. It is nil when
// the attribute maps to the column of the same name with no synonym and
// no deferral.
func (f *Field) Property() schema.Property { return f.property }

// Synonym returns the synonym property, if the field declares one.
func (f *Field) Synonym() *schema.SynonymProperty { return f.synonym }

// PrimaryKey reports if the field column is (part of) the primary key.
func (f *Field) PrimaryKey() bool { return f.desc.PrimaryKey }

// ColumnType returns the storage type of the field.
func (f *Field) ColumnType() (schema.Type, error) {
	return f.mapper.ColumnType(f.desc)
}

// Attach attaches the field to its owner under the attribute name. The
// column name defaults to the attribute name.
func (f *Field) Attach(owner Owner, name string) error {
	if f.phase != phaseNew {
		return f.phaseError("attach", "already attached")
	}
	if owner == nil {
		return f.phaseError("attach", "nil owner")
	}
	if name == "" {
		name = f.desc.Name
	}
	if name == "" {
		return f.phaseError("attach", "empty attribute name")
	}
	if f.desc.Name == "" {
		f.desc.Name = name
	}
	f.owner, f.name = owner, name
	if f.colname == "" {
		f.colname = name
	}
	f.phase = phaseAttached
	return nil
}

// CreatePKColumns creates the column of a primary key field. Other
// fields are left untouched.
func (f *Field) CreatePKColumns() error {
	if f.phase < phaseAttached {
		return f.phaseError("create primary key columns", "not attached")
	}
	if !f.desc.PrimaryKey {
		return nil
	}
	return f.CreateColumn()
}

// CreateNonPKColumns creates the column of a field that is not a
// primary key. Primary key fields are left untouched.
func (f *Field) CreateNonPKColumns() error {
	if f.phase < phaseAttached {
		return f.phaseError("create columns", "not attached")
	}
	if f.desc.PrimaryKey {
		return nil
	}
	return f.CreateColumn()
}

// CreateColumn creates the column from the field constraints and the
// mapper, and adds it to the owner descriptor.
func (f *Field) CreateColumn() error {
	switch {
	case f.phase < phaseAttached:
		return f.phaseError("create column", "not attached")
	case f.phase > phaseAttached:
		return f.phaseError("create column", "column already created")
	}
	typ, err := f.mapper.ColumnType(f.desc)
	if err != nil {
		return err
	}
	d := f.desc
	opts := []schema.ColumnOption{
		schema.PrimaryKey(d.PrimaryKey),
		schema.Nullable(d.Null),
		schema.Index(d.Index),
		schema.Unique(d.Unique),
		schema.Default(d.Default),
	}
	opts = append(opts, f.mapper.ColumnOptions(d)...)
	c := schema.NewColumn(f.colname, typ, f.mapper.ColumnArgs(d), opts...)
	if err := f.owner.Descriptor().AddColumn(c); err != nil {
		return fmt.Errorf("attribute %q: %w", f.name, err)
	}
	f.column = c
	f.phase = phaseColumn
	return nil
}

// CreateProperties creates the mapped properties of the field and adds
// them to the owner descriptor. A deferred field gets a deferred
// property; a field whose column name differs from its attribute name,
// or that declares a synonym, gets a column property. The synonym is
// registered under its own name.
func (f *Field) CreateProperties() error {
	switch {
	case f.phase < phaseColumn:
		return f.phaseError("create properties", "column not created")
	case f.phase > phaseColumn:
		return f.phaseError("create properties", "properties already created")
	}
	d := f.desc
	switch {
	case d.Deferred.Enabled:
		f.property = schema.Deferred(f.column, d.Deferred.Group)
	case f.name != f.colname || d.Synonym != "":
		f.property = schema.ColumnProp(f.column)
	}
	desc := f.owner.Descriptor()
	if f.property != nil {
		if err := desc.AddProperty(f.name, f.property); err != nil {
			return err
		}
	}
	if d.Synonym != "" {
		f.synonym = schema.Synonym(f.name)
		if err := desc.AddProperty(d.Synonym, f.synonym); err != nil {
			return err
		}
	}
	f.phase = phaseProperties
	return nil
}

func (f *Field) phaseError(phase, reason string) error {
	name := f.name
	if name == "" {
		name = f.desc.Name
	}
	return &bridge.PhaseError{Field: name, Phase: phase, Reason: reason}
}
