// Package gen generates Go model structs for mapped entities.
//
// Every entity gets one file holding a struct with an exported field per
// attribute, tagged with its column name:
//
//	type Article struct {
//		ID       int64     `db:"id"`
//		Headline string    `db:"head"`
//		Body     string    `db:"body"` // deferred(content)
//		Price    string    `db:"price"`
//	}
//
// and accessor methods for synonyms. Files are rendered with jennifer and
// written in parallel.
package gen
