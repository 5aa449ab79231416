package schema

import (
	"fmt"
	"strconv"

	"ariga.io/atlas/sql/schema"

	"github.com/syssam/bridge/dialect"
)

// A Type is a storage type of a column. Types are comparable values;
// String returns the type name as written in model dumps (e.g. "Unicode(100)").
type Type interface {
	fmt.Stringer
	// Atlas returns the atlas type of the column for the dialect. Types
	// that take their size from the column (Numeric) read it from c.
	Atlas(dialect string, c *Column) (schema.Type, error)
}

type (
	// Boolean is a boolean column.
	Boolean struct{}
	// Integer is a 32-bit integer column.
	Integer struct{}
	// SmallInteger is a 16-bit integer column.
	SmallInteger struct{}
	// Float is a double precision floating point column.
	Float struct{}
	// Numeric is a fixed-precision decimal column. Its precision and
	// scale are the Length and Precision of the column.
	Numeric struct{}
	// Unicode is a variable-length string column of at most Length
	// characters.
	Unicode struct{ Length int }
	// UnicodeText is an unbounded string column.
	UnicodeText struct{}
	// Date is a calendar date column.
	Date struct{}
	// Time is a time of day column.
	Time struct{}
	// DateTime is a date and time column.
	DateTime struct{}
)

func (Boolean) String() string      { return "Boolean" }
func (Integer) String() string      { return "Integer" }
func (SmallInteger) String() string { return "SmallInteger" }
func (Float) String() string        { return "Float" }
func (Numeric) String() string      { return "Numeric" }
func (UnicodeText) String() string  { return "UnicodeText" }
func (Date) String() string         { return "Date" }
func (Time) String() string         { return "Time" }
func (DateTime) String() string     { return "DateTime" }

func (t Unicode) String() string {
	if t.Length <= 0 {
		return "Unicode"
	}
	return "Unicode(" + strconv.Itoa(t.Length) + ")"
}

// Atlas implements the Type interface.
func (Boolean) Atlas(d string, _ *Column) (schema.Type, error) {
	if d == dialect.Postgres {
		return &schema.BoolType{T: "boolean"}, nil
	}
	return &schema.BoolType{T: "bool"}, nil
}

// Atlas implements the Type interface.
func (Integer) Atlas(d string, _ *Column) (schema.Type, error) {
	if d == dialect.MySQL {
		return &schema.IntegerType{T: "int"}, nil
	}
	return &schema.IntegerType{T: "integer"}, nil
}

// Atlas implements the Type interface.
func (SmallInteger) Atlas(string, *Column) (schema.Type, error) {
	return &schema.IntegerType{T: "smallint"}, nil
}

// Atlas implements the Type interface.
func (Float) Atlas(d string, _ *Column) (schema.Type, error) {
	switch d {
	case dialect.SQLite:
		return &schema.FloatType{T: "real"}, nil
	case dialect.MySQL:
		return &schema.FloatType{T: "double"}, nil
	}
	return &schema.FloatType{T: "double precision"}, nil
}

// Atlas implements the Type interface. The column Length is the decimal
// precision and the column Precision is the decimal scale.
func (Numeric) Atlas(d string, c *Column) (schema.Type, error) {
	if c.Length <= 0 {
		return nil, fmt.Errorf("numeric column %q requires a positive length", c.Name)
	}
	t := &schema.DecimalType{T: "numeric", Precision: c.Length, Scale: c.Precision}
	switch d {
	case dialect.MySQL:
		t.T = "decimal"
	case dialect.SQLite:
		t.T = fmt.Sprintf("numeric(%d,%d)", c.Length, c.Precision)
	}
	return t, nil
}

// Atlas implements the Type interface.
func (t Unicode) Atlas(d string, c *Column) (schema.Type, error) {
	if t.Length <= 0 {
		return nil, fmt.Errorf("unicode column %q requires a positive length", c.Name)
	}
	if d == dialect.SQLite {
		return &schema.StringType{T: fmt.Sprintf("varchar(%d)", t.Length), Size: t.Length}, nil
	}
	return &schema.StringType{T: "varchar", Size: t.Length}, nil
}

// Atlas implements the Type interface.
func (UnicodeText) Atlas(d string, _ *Column) (schema.Type, error) {
	if d == dialect.MySQL {
		return &schema.StringType{T: "longtext"}, nil
	}
	return &schema.StringType{T: "text"}, nil
}

// Atlas implements the Type interface.
func (Date) Atlas(string, *Column) (schema.Type, error) {
	return &schema.TimeType{T: "date"}, nil
}

// Atlas implements the Type interface.
func (Time) Atlas(string, *Column) (schema.Type, error) {
	return &schema.TimeType{T: "time"}, nil
}

// Atlas implements the Type interface.
func (DateTime) Atlas(d string, _ *Column) (schema.Type, error) {
	if d == dialect.Postgres {
		return &schema.TimeType{T: "timestamp"}, nil
	}
	return &schema.TimeType{T: "datetime"}, nil
}

// unsupported is the type of inspected columns without a storage type.
type unsupported struct{ raw string }

func (t unsupported) String() string { return t.raw }

func (t unsupported) Atlas(string, *Column) (schema.Type, error) {
	return &schema.UnsupportedType{T: t.raw}, nil
}

// typeOf returns the storage type of an inspected atlas column. Numeric
// columns also set the column length and precision.
func typeOf(at schema.Type, c *Column) Type {
	switch at := at.(type) {
	case *schema.BoolType:
		return Boolean{}
	case *schema.IntegerType:
		if at.T == "smallint" || at.T == "int2" {
			return SmallInteger{}
		}
		return Integer{}
	case *schema.FloatType:
		return Float{}
	case *schema.DecimalType:
		c.Length, c.Precision = at.Precision, at.Scale
		return Numeric{}
	case *schema.StringType:
		if at.Size > 0 {
			return Unicode{Length: at.Size}
		}
		return UnicodeText{}
	case *schema.TimeType:
		switch at.T {
		case "date":
			return Date{}
		case "time", "time without time zone":
			return Time{}
		}
		return DateTime{}
	case *schema.UnsupportedType:
		return unsupported{raw: at.T}
	}
	return unsupported{raw: fmt.Sprintf("%T", at)}
}

var (
	_ Type = Boolean{}
	_ Type = Integer{}
	_ Type = SmallInteger{}
	_ Type = Float{}
	_ Type = Numeric{}
	_ Type = Unicode{}
	_ Type = UnicodeText{}
	_ Type = Date{}
	_ Type = Time{}
	_ Type = DateTime{}
)
