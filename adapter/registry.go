package adapter

import (
	"fmt"
	"slices"

	"github.com/syssam/bridge/dialect/sql/schema"
	"github.com/syssam/bridge/schema/field"
)

// Registry maps field kinds to mappers.
type Registry struct {
	mappers map[field.Kind]Mapper
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{mappers: make(map[field.Kind]Mapper)}
}

// Default returns a new registry holding the mappers of all field kinds.
func Default() *Registry {
	r := NewRegistry()
	for kind, m := range map[field.Kind]Mapper{
		field.KindAuto:              Auto{},
		field.KindBool:              Typed{Type: schema.Boolean{}},
		field.KindNullBool:          Typed{Type: schema.Boolean{}},
		field.KindChar:              Char{},
		field.KindCommaSeparatedInt: Char{},
		field.KindEmail:             Char{},
		field.KindFile:              Char{},
		field.KindImage:             Char{},
		field.KindFilePath:          Char{},
		field.KindIPAddress:         Char{},
		field.KindSlug:              Char{},
		field.KindURL:               Char{},
		field.KindText:              Typed{Type: schema.UnicodeText{}},
		field.KindXML:               Typed{Type: schema.UnicodeText{}},
		field.KindDate:              Typed{Type: schema.Date{}},
		field.KindTime:              Typed{Type: schema.Time{}},
		field.KindDateTime:          Typed{Type: schema.DateTime{}},
		field.KindDecimal:           Decimal{},
		field.KindFloat:             Typed{Type: schema.Float{}},
		field.KindInt:               Typed{Type: schema.Integer{}},
		field.KindPositiveInt:       Typed{Type: schema.Integer{}},
		field.KindOrdering:          Typed{Type: schema.Integer{}},
		field.KindSmallInt:          Typed{Type: schema.SmallInteger{}},
		field.KindPositiveSmallInt:  Typed{Type: schema.SmallInteger{}},
		// The phone number kind carries no length of its own.
		field.KindPhoneNumber: Char{Width: 20},
		field.KindUSState:     Char{Width: 2},
	} {
		r.mappers[kind] = m
	}
	return r
}

// Register sets the mapper of the kind, replacing any previous one.
func (r *Registry) Register(kind field.Kind, m Mapper) error {
	if !kind.Valid() {
		return fmt.Errorf("adapter: register: invalid field kind %d", kind)
	}
	if m == nil {
		return fmt.Errorf("adapter: register %s: nil mapper", kind)
	}
	r.mappers[kind] = m
	return nil
}

// Lookup returns the mapper of the kind. A kind without a mapper uses
// the mapper of the kind it specializes, and Base when none has one.
func (r *Registry) Lookup(kind field.Kind) Mapper {
	for k, ok := kind, true; ok; k, ok = k.Parent() {
		if m, found := r.mappers[k]; found {
			return m
		}
	}
	return Base{}
}

// Kinds returns the kinds with a registered mapper, in kind order.
func (r *Registry) Kinds() []field.Kind {
	kinds := make([]field.Kind, 0, len(r.mappers))
	for k := range r.mappers {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// Field returns a new adapter field for the descriptor, mapped by the
// mapper of its kind.
func (r *Registry) Field(d *field.Descriptor) *Field {
	return NewField(d, r.Lookup(d.Kind))
}
