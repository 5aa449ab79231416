// Package bridge translates model field declarations written against a
// Django-style field framework into SQL column definitions and mapped
// properties for the target ORM layer in dialect/sql/schema.
//
// A model is declared as a type embedding Schema:
//
//	type Article struct{ bridge.Schema }
//
//	func (Article) Fields() []bridge.Field {
//	    return []bridge.Field{
//	        field.Char("headline").MaxLen(100).Column("head"),
//	        field.Text("body").DeferredGroup("content"),
//	        field.Decimal("price").MaxDigits(10).DecimalPlaces(2),
//	    }
//	}
//
// and turned into a mapped entity with entity.New.
package bridge

import (
	"github.com/syssam/bridge/schema"
	"github.com/syssam/bridge/schema/field"
)

type (
	// Interface is implemented by every entity declaration.
	Interface interface {
		// Fields returns the declared fields in declaration order.
		Fields() []Field
		// Mixin returns reusable field sets mixed into the entity.
		// Mixin fields precede the entity's own fields.
		Mixin() []Mixin
		// Annotations returns entity-level annotations.
		Annotations() []schema.Annotation
	}

	// Field is a field declaration. Builders from the field package
	// implement it.
	Field interface {
		Descriptor() *field.Descriptor
	}

	// Mixin is a reusable set of fields.
	Mixin interface {
		Fields() []Field
	}

	// Schema is the default implementation of Interface. It is meant
	// to be embedded in entity declarations.
	Schema struct{}
)

// Fields of the schema.
func (Schema) Fields() []Field { return nil }

// Mixin of the schema.
func (Schema) Mixin() []Mixin { return nil }

// Annotations of the schema.
func (Schema) Annotations() []schema.Annotation { return nil }

var _ Interface = (*Schema)(nil)
