package sql

import (
	"strconv"
	"strings"

	"github.com/syssam/bridge/dialect"
)

// Querier wraps the basic Query method that is implemented
// by the different builders in this file.
type Querier interface {
	// Query returns the query representation of the element
	// and its arguments (if any).
	Query() (string, []any)
}

// Builder is the base query builder. It writes identifiers quoted and
// arguments as placeholders of its dialect.
type Builder struct {
	sb      strings.Builder
	args    []any
	dialect string
}

// Quote quotes the given identifier with the dialect's quote character.
func (b *Builder) Quote(ident string) string {
	q := `"`
	if b.dialect == dialect.MySQL {
		q = "`"
	}
	return q + strings.ReplaceAll(ident, q, q+q) + q
}

// Ident writes the quoted identifier.
func (b *Builder) Ident(s string) *Builder {
	b.sb.WriteString(b.Quote(s))
	return b
}

// IdentComma writes a comma separated list of quoted identifiers.
func (b *Builder) IdentComma(s ...string) *Builder {
	for i := range s {
		if i > 0 {
			b.sb.WriteString(", ")
		}
		b.Ident(s[i])
	}
	return b
}

// WriteString writes s as is.
func (b *Builder) WriteString(s string) *Builder {
	b.sb.WriteString(s)
	return b
}

// Arg writes a placeholder for a and records it as an argument.
func (b *Builder) Arg(a any) *Builder {
	b.args = append(b.args, a)
	if b.dialect == dialect.Postgres {
		b.sb.WriteString("$" + strconv.Itoa(len(b.args)))
	} else {
		b.sb.WriteString("?")
	}
	return b
}

// Args writes a comma separated list of placeholders.
func (b *Builder) Args(a ...any) *Builder {
	for i := range a {
		if i > 0 {
			b.sb.WriteString(", ")
		}
		b.Arg(a[i])
	}
	return b
}

// Query implements the Querier interface.
func (b *Builder) Query() (string, []any) {
	return b.sb.String(), b.args
}

// Dialect returns the dialect of the builder.
func (b *Builder) Dialect() string {
	return b.dialect
}

// A Predicate writes a boolean expression into a builder.
type Predicate func(*Builder)

// EQ returns a "column = value" predicate.
func EQ(column string, v any) Predicate {
	return func(b *Builder) {
		b.Ident(column).WriteString(" = ").Arg(v)
	}
}

// In returns a "column IN (values...)" predicate. An empty list
// matches nothing.
func In(column string, vs ...any) Predicate {
	return func(b *Builder) {
		if len(vs) == 0 {
			b.WriteString("FALSE")
			return
		}
		b.Ident(column).WriteString(" IN (").Args(vs...).WriteString(")")
	}
}

// IsNull returns a "column IS NULL" predicate.
func IsNull(column string) Predicate {
	return func(b *Builder) {
		b.Ident(column).WriteString(" IS NULL")
	}
}

// And joins the predicates with AND.
func And(preds ...Predicate) Predicate {
	return func(b *Builder) {
		if len(preds) == 1 {
			preds[0](b)
			return
		}
		b.WriteString("(")
		for i, p := range preds {
			if i > 0 {
				b.WriteString(" AND ")
			}
			p(b)
		}
		b.WriteString(")")
	}
}

// DialectBuilder prefixes all root builders with the dialect.
type DialectBuilder struct {
	dialect string
}

// Dialect creates a new DialectBuilder with the given dialect name.
//
//	sql.Dialect(dialect.Postgres).Select("id", "headline").From("articles")
func Dialect(name string) *DialectBuilder {
	return &DialectBuilder{dialect: name}
}

// Select returns a selector for the dialect.
func (d *DialectBuilder) Select(columns ...string) *Selector {
	return &Selector{dialect: d.dialect, columns: columns}
}

// Insert returns an insert builder for the dialect.
func (d *DialectBuilder) Insert(table string) *InsertBuilder {
	return &InsertBuilder{dialect: d.dialect, table: table}
}

// Update returns an update builder for the dialect.
func (d *DialectBuilder) Update(table string) *UpdateBuilder {
	return &UpdateBuilder{dialect: d.dialect, table: table}
}

// Selector is a builder for the `SELECT` statement.
type Selector struct {
	dialect string
	columns []string
	table   string
	where   []Predicate
	limit   int
}

// From sets the source table.
func (s *Selector) From(table string) *Selector {
	s.table = table
	return s
}

// Where adds a predicate. Predicates of several calls are joined with AND.
func (s *Selector) Where(p Predicate) *Selector {
	s.where = append(s.where, p)
	return s
}

// Limit limits the number of returned rows.
func (s *Selector) Limit(n int) *Selector {
	s.limit = n
	return s
}

// Query implements the Querier interface.
func (s *Selector) Query() (string, []any) {
	b := &Builder{dialect: s.dialect}
	b.WriteString("SELECT ")
	if len(s.columns) == 0 {
		b.WriteString("*")
	} else {
		b.IdentComma(s.columns...)
	}
	b.WriteString(" FROM ").Ident(s.table)
	if len(s.where) > 0 {
		b.WriteString(" WHERE ")
		And(s.where...)(b)
	}
	if s.limit > 0 {
		b.WriteString(" LIMIT " + strconv.Itoa(s.limit))
	}
	return b.Query()
}

// InsertBuilder is a builder for the `INSERT INTO` statement.
type InsertBuilder struct {
	dialect   string
	table     string
	columns   []string
	values    [][]any
	returning []string
}

// Columns sets the columns of the insert statement.
func (i *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	i.columns = append(i.columns, columns...)
	return i
}

// Values appends a value tuple for the insert statement.
func (i *InsertBuilder) Values(values ...any) *InsertBuilder {
	i.values = append(i.values, values)
	return i
}

// Set is a syntactic sugar for adding a single column and value.
func (i *InsertBuilder) Set(column string, v any) *InsertBuilder {
	i.columns = append(i.columns, column)
	if len(i.values) == 0 {
		i.values = append(i.values, nil)
	}
	i.values[0] = append(i.values[0], v)
	return i
}

// Returning adds the `RETURNING` clause. It is rendered only for
// dialects that support it.
func (i *InsertBuilder) Returning(columns ...string) *InsertBuilder {
	i.returning = columns
	return i
}

// Query implements the Querier interface.
func (i *InsertBuilder) Query() (string, []any) {
	b := &Builder{dialect: i.dialect}
	b.WriteString("INSERT INTO ").Ident(i.table)
	if len(i.columns) == 0 {
		b.WriteString(" DEFAULT VALUES")
	} else {
		b.WriteString(" (").IdentComma(i.columns...).WriteString(") VALUES ")
		for j, v := range i.values {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString("(").Args(v...).WriteString(")")
		}
	}
	if len(i.returning) > 0 && i.dialect != dialect.MySQL {
		b.WriteString(" RETURNING ").IdentComma(i.returning...)
	}
	return b.Query()
}

// UpdateBuilder is a builder for the `UPDATE` statement.
type UpdateBuilder struct {
	dialect string
	table   string
	columns []string
	values  []any
	where   []Predicate
}

// Set sets a column to a value.
func (u *UpdateBuilder) Set(column string, v any) *UpdateBuilder {
	u.columns = append(u.columns, column)
	u.values = append(u.values, v)
	return u
}

// Where adds a predicate. Predicates of several calls are joined with AND.
func (u *UpdateBuilder) Where(p Predicate) *UpdateBuilder {
	u.where = append(u.where, p)
	return u
}

// Empty reports whether the statement has no assignments.
func (u *UpdateBuilder) Empty() bool {
	return len(u.columns) == 0
}

// Query implements the Querier interface.
func (u *UpdateBuilder) Query() (string, []any) {
	b := &Builder{dialect: u.dialect}
	b.WriteString("UPDATE ").Ident(u.table).WriteString(" SET ")
	for i, c := range u.columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.Ident(c).WriteString(" = ").Arg(u.values[i])
	}
	if len(u.where) > 0 {
		b.WriteString(" WHERE ")
		And(u.where...)(b)
	}
	return b.Query()
}

var (
	_ Querier = (*Selector)(nil)
	_ Querier = (*InsertBuilder)(nil)
	_ Querier = (*UpdateBuilder)(nil)
)
