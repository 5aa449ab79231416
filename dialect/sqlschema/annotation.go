// Package sqlschema provides SQL-specific annotations for bridge schemas
// and fields.
//
// Entity annotations:
//
//	func (Article) Annotations() []schema.Annotation {
//	    return []schema.Annotation{
//	        sqlschema.Table("news_articles"),
//	        sqlschema.WithComments(true),
//	    }
//	}
//
// Field annotations:
//
//	field.Int("rank").Annotations(sqlschema.Check("rank >= 0"))
//	field.Char("name").MaxLen(80).Annotations(sqlschema.Collation("NOCASE"))
//	field.DateTime("seen_at").Annotations(sqlschema.DefaultExpr("CURRENT_TIMESTAMP"))
package sqlschema

import (
	"maps"

	"github.com/syssam/bridge/schema"
)

// AnnotationName is the name of the SQL annotation.
const AnnotationName = "SQL"

// Annotation is a builtin schema annotation for attaching
// SQL metadata to entity and field declarations.
//
// Functional and struct literal styles are equivalent:
//
//	sqlschema.Table("articles")
//	sqlschema.Annotation{Table: "articles"}
type Annotation struct {
	// Table overrides the table name of an entity.
	Table string

	// Check adds a CHECK constraint expression on a field.
	Check string

	// Checks holds named CHECK constraints, keyed by constraint name.
	Checks map[string]string

	// Collation sets the collation of a string column.
	Collation string

	// DefaultExpr is a SQL expression used as the column default.
	DefaultExpr string

	// WithComments controls whether help texts and entity comments
	// are stored as column and table comments.
	WithComments *bool
}

// Name implements schema.Annotation.
func (Annotation) Name() string {
	return AnnotationName
}

// Merge implements schema.Merger. Non-zero values of other override
// the values of a; named checks are combined.
func (a Annotation) Merge(other schema.Annotation) schema.Annotation {
	var b Annotation
	switch other := other.(type) {
	case Annotation:
		b = other
	case *Annotation:
		if other == nil {
			return a
		}
		b = *other
	default:
		return a
	}
	if b.Table != "" {
		a.Table = b.Table
	}
	if b.Check != "" {
		a.Check = b.Check
	}
	if len(b.Checks) > 0 {
		checks := make(map[string]string, len(a.Checks)+len(b.Checks))
		maps.Copy(checks, a.Checks)
		maps.Copy(checks, b.Checks)
		a.Checks = checks
	}
	if b.Collation != "" {
		a.Collation = b.Collation
	}
	if b.DefaultExpr != "" {
		a.DefaultExpr = b.DefaultExpr
	}
	if b.WithComments != nil {
		a.WithComments = b.WithComments
	}
	return a
}

var (
	_ schema.Annotation = (*Annotation)(nil)
	_ schema.Merger     = (*Annotation)(nil)
)

// Table sets the table name of an entity.
func Table(name string) Annotation {
	return Annotation{Table: name}
}

// Check adds a CHECK constraint to the column.
//
//	field.Int("age").Annotations(sqlschema.Check("age >= 0"))
func Check(expr string) Annotation {
	return Annotation{Check: expr}
}

// Checks adds named CHECK constraints.
func Checks(c map[string]string) Annotation {
	return Annotation{Checks: c}
}

// Collation sets the collation of a string column.
func Collation(c string) Annotation {
	return Annotation{Collation: c}
}

// DefaultExpr sets a SQL expression as the column default. The
// expression is used as-is in the DEFAULT clause.
//
//	field.DateTime("created").Annotations(sqlschema.DefaultExpr("CURRENT_TIMESTAMP"))
func DefaultExpr(expr string) Annotation {
	return Annotation{DefaultExpr: expr}
}

// WithComments controls whether comments are stored in the database.
func WithComments(enable bool) Annotation {
	return Annotation{WithComments: &enable}
}

// From returns the merged SQL annotation among ants, and false if
// there is none.
func From(ants []schema.Annotation) (Annotation, bool) {
	var (
		out   Annotation
		found bool
	)
	for _, a := range ants {
		if a.Name() != AnnotationName {
			continue
		}
		out, found = out.Merge(a).(Annotation), true
	}
	return out, found
}

// Comments reports whether comments are enabled. They are by default.
func (a Annotation) Comments() bool {
	return a.WithComments == nil || *a.WithComments
}
