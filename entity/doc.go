// Package entity builds mapped entities from their declarations.
//
// Building an entity adapts every declared field with the mapper of its
// kind and runs the field lifecycle in passes over all fields: attach,
// primary key columns, other columns and mapped properties. Primary key
// columns are thus always registered first in the entity table.
//
//	e, err := entity.New("Article", Article{})
//	if err != nil {
//	    return err
//	}
//	cmds, err := schema.Plan(ctx, dialect.SQLite, []*schema.Table{e.Descriptor()})
package entity
