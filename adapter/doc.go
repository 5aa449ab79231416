// Package adapter implements the field adapter registry: the mapping of
// framework field kinds onto storage columns and mapped properties.
//
// An adapter is a composition of two capabilities. The field descriptor
// carries the framework metadata and validation; the Mapper chosen from
// a Registry by the field kind derives the storage type and the column
// construction arguments:
//
//	f := adapter.Default().Field(field.Decimal("price").MaxDigits(10).DecimalPlaces(2).Descriptor())
//	if err := f.Attach(owner, "price"); err != nil {
//	    return err
//	}
//
// Every Field then runs its lifecycle phases once and in order: Attach,
// one of CreatePKColumns or CreateNonPKColumns (or CreateColumn), and
// CreateProperties.
package adapter
