// Package mixin provides reusable field sets for bridge schemas.
//
// Mixins are applied through the Mixin method of a schema. Their fields
// precede the schema's own fields, in the order the mixins are listed:
//
//	type Article struct{ bridge.Schema }
//
//	func (Article) Mixin() []bridge.Mixin {
//	    return []bridge.Mixin{
//	        mixin.AutoID{},
//	        mixin.Timestamps{},
//	    }
//	}
//
// The resulting Article entity has an auto-increment id primary key and
// created_at/updated_at columns populated on save.
package mixin
