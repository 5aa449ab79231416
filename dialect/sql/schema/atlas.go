package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/bridge/dialect"
)

// Atlas converts the table to its atlas representation for the dialect.
func (t *Table) Atlas(d string) (*schema.Table, error) {
	at := schema.NewTable(t.Name)
	if t.Comment != "" {
		at.SetComment(t.Comment)
	}
	cols := make(map[string]*schema.Column, len(t.Columns))
	for _, c := range t.Columns {
		ac, err := c.atlas(d)
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", t.Name, err)
		}
		at.AddColumns(ac)
		cols[c.Name] = ac
		for i, chk := range c.Checks {
			name := chk.Name
			if name == "" {
				name = t.Name + "_" + c.Name + "_check"
				if i > 0 {
					name += strconv.Itoa(i)
				}
			}
			at.AddChecks(&schema.Check{Name: name, Expr: chk.Expr})
		}
	}
	for _, chk := range t.Checks {
		at.AddChecks(&schema.Check{Name: chk.Name, Expr: chk.Expr})
	}
	if len(t.PrimaryKey) > 0 {
		pk := make([]*schema.Column, len(t.PrimaryKey))
		for i, c := range t.PrimaryKey {
			pk[i] = cols[c.Name]
		}
		at.SetPrimaryKey(schema.NewPrimaryKey(pk...))
	}
	for _, idx := range t.Indexes {
		ai := schema.NewIndex(idx.Name)
		if idx.Unique {
			ai = schema.NewUniqueIndex(idx.Name)
		}
		for _, c := range idx.Columns {
			ai.AddColumns(cols[c.Name])
		}
		at.AddIndexes(ai)
	}
	return at, nil
}

func (c *Column) atlas(d string) (*schema.Column, error) {
	if c.Type == nil {
		return nil, fmt.Errorf("column %q has no type", c.Name)
	}
	typ, err := c.Type.Atlas(d, c)
	if err != nil {
		return nil, err
	}
	ac := schema.NewColumn(c.Name).SetType(typ).SetNull(c.Nullable)
	if x, ok := defaultExpr(c.Default); ok {
		ac.SetDefault(x)
	}
	if c.Collation != "" {
		ac.SetCollation(c.Collation)
	}
	if c.Comment != "" && d != dialect.SQLite {
		ac.SetComment(c.Comment)
	}
	if c.Increment {
		switch d {
		case dialect.SQLite:
			ac.AddAttrs(&sqlite.AutoIncrement{})
		case dialect.MySQL:
			ac.AddAttrs(&mysql.AutoIncrement{})
		case dialect.Postgres:
			ac.AddAttrs(&postgres.Identity{Generation: "BY DEFAULT"})
		}
	}
	return ac, nil
}

// defaultExpr converts a column default to an atlas expression. Function
// defaults are evaluated by the application and have no DDL form.
func defaultExpr(v any) (schema.Expr, bool) {
	switch v := v.(type) {
	case nil:
		return nil, false
	case Expr:
		return &schema.RawExpr{X: string(v)}, true
	case string:
		return &schema.Literal{V: v}, true
	case bool:
		return &schema.Literal{V: strconv.FormatBool(v)}, true
	case time.Time:
		return &schema.Literal{V: v.Format(time.DateTime)}, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &schema.Literal{V: strconv.FormatInt(rv.Int(), 10)}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &schema.Literal{V: strconv.FormatUint(rv.Uint(), 10)}, true
	case reflect.Float32, reflect.Float64:
		return &schema.Literal{V: strconv.FormatFloat(rv.Float(), 'f', -1, 64)}, true
	}
	return nil, false
}

// Atlas converts the tables to an atlas schema with the given name.
func Atlas(d, name string, tables []*Table) (*schema.Schema, error) {
	s := schema.New(name)
	for _, t := range tables {
		at, err := t.Atlas(d)
		if err != nil {
			return nil, err
		}
		s.AddTables(at)
	}
	return s, nil
}

// FromAtlas converts an inspected atlas table to a table. Properties are
// not inspected; every column maps to the attribute of its name.
func FromAtlas(at *schema.Table) (*Table, error) {
	t := NewTable(at.Name)
	if c := (schema.Comment{}); hasAttr(at.Attrs, &c) {
		t.Comment = c.Text
	}
	cols := make(map[string]*Column, len(at.Columns))
	for _, ac := range at.Columns {
		c := &Column{Name: ac.Name}
		if ac.Type != nil {
			c.Type = typeOf(ac.Type.Type, c)
			c.Nullable = ac.Type.Null
		}
		switch x := ac.Default.(type) {
		case *schema.Literal:
			c.Default = x.V
		case *schema.RawExpr:
			c.Default = Expr(x.X)
		}
		if cm := (schema.Comment{}); hasAttr(ac.Attrs, &cm) {
			c.Comment = cm.Text
		}
		c.Increment = hasAttr(ac.Attrs, &sqlite.AutoIncrement{}) ||
			hasAttr(ac.Attrs, &mysql.AutoIncrement{}) ||
			hasAttr(ac.Attrs, &postgres.Identity{})
		cols[ac.Name] = c
	}
	if at.PrimaryKey != nil {
		for _, p := range at.PrimaryKey.Parts {
			if p.C != nil {
				cols[p.C.Name].PrimaryKey = true
			}
		}
	}
	for _, idx := range at.Indexes {
		if len(idx.Parts) != 1 || idx.Parts[0].C == nil {
			ti := &TableIndex{Name: idx.Name, Unique: idx.Unique}
			for _, p := range idx.Parts {
				if p.C != nil {
					ti.Columns = append(ti.Columns, cols[p.C.Name])
				}
			}
			t.Indexes = append(t.Indexes, ti)
			continue
		}
		c := cols[idx.Parts[0].C.Name]
		if idx.Unique {
			c.Unique = true
		} else {
			c.Index = true
		}
	}
	// Columns are added after their flags are known, so that AddColumn
	// records the single column indexes.
	for _, ac := range at.Columns {
		c := cols[ac.Name]
		if err := t.AddColumn(c); err != nil {
			return nil, fmt.Errorf("schema: table %q: %w", at.Name, err)
		}
		if ti := t.lastIndex(c); ti != nil {
			ti.Name = indexName(at, c.Name, ti.Name)
		}
	}
	return t, nil
}

// lastIndex returns the index added for c by AddColumn, if any.
func (t *Table) lastIndex(c *Column) *TableIndex {
	if n := len(t.Indexes); n > 0 && len(t.Indexes[n-1].Columns) == 1 && t.Indexes[n-1].Columns[0] == c {
		return t.Indexes[n-1]
	}
	return nil
}

// indexName returns the inspected name of the single column index on
// column, or def if there is none.
func indexName(at *schema.Table, column, def string) string {
	for _, idx := range at.Indexes {
		if len(idx.Parts) == 1 && idx.Parts[0].C != nil && idx.Parts[0].C.Name == column {
			return idx.Name
		}
	}
	return def
}

func hasAttr(attrs []schema.Attr, v any) bool {
	rv := reflect.ValueOf(v).Elem()
	for _, a := range attrs {
		av := reflect.ValueOf(a)
		if av.Kind() == reflect.Pointer && av.Elem().Type() == rv.Type() {
			rv.Set(av.Elem())
			return true
		}
	}
	return false
}
