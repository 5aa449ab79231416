package schema

import "strconv"

// Column is a storage column of a table.
type Column struct {
	Name       string
	Type       Type
	PrimaryKey bool
	Increment  bool
	Nullable   bool
	Index      bool
	Unique     bool
	Default    any    // literal value, func() T or Expr.
	Length     int    // numeric precision.
	Precision  int    // numeric scale.
	Collation  string // string collation.
	Comment    string
	Checks     []*Check
}

// Expr is a raw SQL expression used as a column default.
type Expr string

// A Check is a CHECK constraint. Unnamed checks get a name derived from
// the table and column when the table is converted.
type Check struct {
	Name string
	Expr string
}

// ColumnArg is an extra argument of column construction.
type ColumnArg interface {
	apply(*Column)
}

func (c *Check) apply(col *Column) {
	col.Checks = append(col.Checks, c)
}

// ColumnOption configures a column. Options are applied in order, so
// later options override earlier ones.
type ColumnOption func(*Column)

// NewColumn returns a new column of the given type. Arguments are
// applied before the options.
//
//	schema.NewColumn("price", schema.Numeric{}, nil, schema.Length(10), schema.Precision(2))
func NewColumn(name string, typ Type, args []ColumnArg, opts ...ColumnOption) *Column {
	c := &Column{Name: name, Type: typ}
	for _, a := range args {
		a.apply(c)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PrimaryKey marks the column as (part of) the primary key.
func PrimaryKey(b bool) ColumnOption {
	return func(c *Column) { c.PrimaryKey = b }
}

// Increment makes the column auto-incremented.
func Increment(b bool) ColumnOption {
	return func(c *Column) { c.Increment = b }
}

// Nullable allows NULL values.
func Nullable(b bool) ColumnOption {
	return func(c *Column) { c.Nullable = b }
}

// Index creates an index on the column.
func Index(b bool) ColumnOption {
	return func(c *Column) { c.Index = b }
}

// Unique adds a unique constraint on the column.
func Unique(b bool) ColumnOption {
	return func(c *Column) { c.Unique = b }
}

// Default sets the column default.
func Default(v any) ColumnOption {
	return func(c *Column) { c.Default = v }
}

// Length sets the column length, used as numeric precision.
func Length(n int) ColumnOption {
	return func(c *Column) { c.Length = n }
}

// Precision sets the column precision, used as numeric scale.
func Precision(n int) ColumnOption {
	return func(c *Column) { c.Precision = n }
}

// Collation sets the column collation.
func Collation(s string) ColumnOption {
	return func(c *Column) { c.Collation = s }
}

// Comment sets the column comment.
func Comment(s string) ColumnOption {
	return func(c *Column) { c.Comment = s }
}

// TypeName returns the type name of the column, including the numeric
// length and precision.
func (c *Column) TypeName() string {
	if c.Type == nil {
		return ""
	}
	if _, ok := c.Type.(Numeric); ok {
		return "Numeric(" + strconv.Itoa(c.Length) + "," + strconv.Itoa(c.Precision) + ")"
	}
	return c.Type.String()
}

// size returns the character length of unicode columns.
func (c *Column) size() int {
	if u, ok := c.Type.(Unicode); ok {
		return u.Length
	}
	return 0
}
