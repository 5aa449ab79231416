package entity

import (
	"strings"

	"github.com/go-openapi/inflect"
)

var rules = ruleset()

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	for _, w := range []string{"ID", "IP", "URL", "XML", "SQL", "HTTP", "API", "UUID"} {
		rules.AddAcronym(w)
	}
	return rules
}

// TableName returns the default table name of an entity: its name in
// snake case, pluralized.
//
//	TableName("BlogPost") // blog_posts
func TableName(name string) string {
	words := strings.Split(rules.Underscore(name), "_")
	words[len(words)-1] = rules.Pluralize(words[len(words)-1])
	return strings.Join(words, "_")
}
