package adapter

import (
	"fmt"
	"maps"
	"slices"

	"github.com/syssam/bridge"
	"github.com/syssam/bridge/dialect/sql/schema"
	"github.com/syssam/bridge/dialect/sqlschema"
	"github.com/syssam/bridge/schema/field"
)

// A Mapper maps the fields of a kind onto storage columns.
type Mapper interface {
	// ColumnType returns the storage type of the field column.
	ColumnType(*field.Descriptor) (schema.Type, error)
	// ColumnArgs returns the extra arguments of column construction.
	ColumnArgs(*field.Descriptor) []schema.ColumnArg
	// ColumnOptions returns the column options of the kind. They are
	// applied after the options derived from the field constraints and
	// override them.
	ColumnOptions(*field.Descriptor) []schema.ColumnOption
}

// Base is the mapper all mappers build on. It carries the options of
// the SQL annotation of a field but has no storage type: ColumnType
// always fails with bridge.ErrUnimplementedType.
type Base struct{}

// ColumnType implements Mapper.
func (Base) ColumnType(d *field.Descriptor) (schema.Type, error) {
	return nil, &bridge.TypeMappingError{Kind: d.Kind.Class(), Field: d.Name}
}

// ColumnArgs returns the CHECK constraints of the field SQL annotation.
// Named checks follow the unnamed one, sorted by name.
func (Base) ColumnArgs(d *field.Descriptor) []schema.ColumnArg {
	ant, ok := sqlschema.From(d.Annotations)
	if !ok {
		return nil
	}
	var args []schema.ColumnArg
	if ant.Check != "" {
		args = append(args, &schema.Check{Expr: ant.Check})
	}
	for _, name := range slices.Sorted(maps.Keys(ant.Checks)) {
		args = append(args, &schema.Check{Name: name, Expr: ant.Checks[name]})
	}
	return args
}

// ColumnOptions returns the collation and the default expression of the
// field SQL annotation, and the help text as column comment.
func (Base) ColumnOptions(d *field.Descriptor) []schema.ColumnOption {
	ant, _ := sqlschema.From(d.Annotations)
	var opts []schema.ColumnOption
	if ant.Collation != "" {
		opts = append(opts, schema.Collation(ant.Collation))
	}
	if ant.DefaultExpr != "" {
		opts = append(opts, schema.Default(schema.Expr(ant.DefaultExpr)))
	}
	if d.HelpText != "" && ant.Comments() {
		opts = append(opts, schema.Comment(d.HelpText))
	}
	return opts
}

// Typed maps fields to a fixed storage type.
type Typed struct {
	Base
	Type schema.Type
}

// ColumnType implements Mapper.
func (m Typed) ColumnType(d *field.Descriptor) (schema.Type, error) {
	if m.Type == nil {
		return m.Base.ColumnType(d)
	}
	return m.Type, nil
}

// Auto maps auto-increment keys. The column is always an integer primary
// key, whatever the field options say.
type Auto struct{ Base }

// ColumnType implements Mapper.
func (Auto) ColumnType(*field.Descriptor) (schema.Type, error) {
	return schema.Integer{}, nil
}

// ColumnOptions implements Mapper.
func (m Auto) ColumnOptions(d *field.Descriptor) []schema.ColumnOption {
	return append(m.Base.ColumnOptions(d), schema.PrimaryKey(true), schema.Increment(true), schema.Nullable(false))
}

// Char maps textual fields to unicode columns. Width fixes the column
// length; without it the field max length is used.
type Char struct {
	Base
	Width int
}

// ColumnType implements Mapper.
func (m Char) ColumnType(d *field.Descriptor) (schema.Type, error) {
	n := m.Width
	if n <= 0 {
		n = d.MaxLength
	}
	if n <= 0 {
		return nil, fmt.Errorf("adapter: %s %q has no max length", d.Kind.Class(), d.Name)
	}
	return schema.Unicode{Length: n}, nil
}

// Decimal maps decimal fields to numeric columns. The max digits of the
// field is the column length and its decimal places the column precision.
type Decimal struct{ Base }

// ColumnType implements Mapper.
func (Decimal) ColumnType(*field.Descriptor) (schema.Type, error) {
	return schema.Numeric{}, nil
}

// ColumnOptions implements Mapper.
func (m Decimal) ColumnOptions(d *field.Descriptor) []schema.ColumnOption {
	return append(m.Base.ColumnOptions(d), schema.Length(d.MaxDigits), schema.Precision(d.DecimalPlaces))
}

var (
	_ Mapper = Base{}
	_ Mapper = Typed{}
	_ Mapper = Auto{}
	_ Mapper = Char{}
	_ Mapper = Decimal{}
)
