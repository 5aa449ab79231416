// Package schema describes the storage side of entity mappings: typed
// columns, the tables that hold them and the properties that bind entity
// attributes to columns. Tables convert to atlas schemas to render DDL
// for a dialect or to migrate a live database.
package schema
