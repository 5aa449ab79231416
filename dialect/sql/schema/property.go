package schema

// A Property maps an entity attribute. Attributes without a property
// map to the column of the same name.
type Property interface {
	property()
}

type (
	// ColumnProperty maps an attribute to a column of a different name.
	ColumnProperty struct {
		Column *Column
	}

	// DeferredProperty maps an attribute to a column that is not loaded
	// with the entity. Columns of the same group are loaded together on
	// first access to any of them; a column without a group is loaded
	// on its own.
	DeferredProperty struct {
		Column *Column
		Group  string
	}

	// SynonymProperty exposes the attribute Name under another name.
	SynonymProperty struct {
		Name string
	}
)

func (*ColumnProperty) property()   {}
func (*DeferredProperty) property() {}
func (*SynonymProperty) property()  {}

// ColumnProp returns a plain column property.
func ColumnProp(c *Column) *ColumnProperty {
	return &ColumnProperty{Column: c}
}

// Deferred returns a deferred property of the column. An empty group
// defers the column individually.
func Deferred(c *Column, group string) *DeferredProperty {
	return &DeferredProperty{Column: c, Group: group}
}

// Synonym returns a property that aliases the attribute name.
func Synonym(name string) *SynonymProperty {
	return &SynonymProperty{Name: name}
}
