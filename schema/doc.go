// Package schema holds the building blocks shared by entity declarations.
//
//   - [field]: source-framework field kinds and their builders
//   - [mixin]: reusable field sets (implicit id, timestamps)
//
// An entity is declared by embedding bridge.Schema and returning its fields:
//
//	type Post struct{ bridge.Schema }
//
//	func (Post) Fields() []bridge.Field {
//	    return []bridge.Field{
//	        field.Char("title").MaxLen(200),
//	        field.Slug("slug").Unique(),
//	        field.Text("body").DeferredGroup("content"),
//	        field.DateTime("published").AutoNowAdd(),
//	    }
//	}
//
// Annotations attach extra metadata to a declaration. The sqlschema package
// provides the SQL ones:
//
//	func (Post) Annotations() []schema.Annotation {
//	    return []schema.Annotation{
//	        sqlschema.Annotation{Table: "blog_post"},
//	        schema.Comment("Published blog entries."),
//	    }
//	}
package schema
