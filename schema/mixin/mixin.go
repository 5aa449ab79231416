package mixin

import (
	"github.com/syssam/bridge"
	"github.com/syssam/bridge/schema"
	"github.com/syssam/bridge/schema/field"
)

// Schema is the default implementation for the bridge.Mixin interface.
// It should be embedded in all custom mixin definitions.
//
//	type Audit struct {
//	    mixin.Schema
//	}
//
//	func (Audit) Fields() []bridge.Field {
//	    return []bridge.Field{
//	        field.Char("created_by").MaxLen(64),
//	    }
//	}
type Schema struct{}

// Fields returns the fields of the mixin.
func (Schema) Fields() []bridge.Field { return nil }

var _ bridge.Mixin = (*Schema)(nil)

// AutoID adds an auto-increment "id" primary key. Entities without a
// primary key get the same field implicitly.
type AutoID struct {
	Schema
}

// Fields returns the id field.
func (AutoID) Fields() []bridge.Field {
	return []bridge.Field{
		field.Auto("id"),
	}
}

// Timestamps adds created_at, set when the row is inserted, and
// updated_at, set on every save.
type Timestamps struct {
	Schema
}

// Fields returns the timestamp fields.
func (Timestamps) Fields() []bridge.Field {
	return []bridge.Field{
		field.DateTime("created_at").
			AutoNowAdd().
			HelpText("Time the row was inserted"),
		field.DateTime("updated_at").
			AutoNow().
			HelpText("Time the row was last saved"),
	}
}

// AnnotateFields wraps a mixin and adds annotations to all its fields.
//
//	mixin.AnnotateFields(mixin.Timestamps{}, sqlschema.DefaultExpr("CURRENT_TIMESTAMP"))
func AnnotateFields(m bridge.Mixin, annotations ...schema.Annotation) bridge.Mixin {
	return fieldAnnotator{Mixin: m, annotations: annotations}
}

type fieldAnnotator struct {
	bridge.Mixin
	annotations []schema.Annotation
}

func (a fieldAnnotator) Fields() []bridge.Field {
	fields := a.Mixin.Fields()
	for i := range fields {
		desc := fields[i].Descriptor()
		desc.Annotations = append(desc.Annotations, a.annotations...)
	}
	return fields
}
