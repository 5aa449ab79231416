package gen

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	acronymsMu sync.RWMutex
	acronyms   = map[string]bool{
		"API": true, "HTML": true, "HTTP": true, "ID": true, "IP": true,
		"JSON": true, "SQL": true, "URL": true, "UUID": true, "XML": true,
	}
)

// AddAcronym adds a word that is upper-cased as a whole in generated
// identifiers.
func AddAcronym(word string) {
	acronymsMu.Lock()
	defer acronymsMu.Unlock()
	acronyms[strings.ToUpper(word)] = true
}

// pascal converts a snake_case name to an exported Go identifier.
//
//	pascal("user_id")    // UserID
//	pascal("created_at") // CreatedAt
//	pascal("Article")    // Article
func pascal(s string) string {
	acronymsMu.RLock()
	defer acronymsMu.RUnlock()
	title := cases.Title(language.English, cases.NoLower)
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, w := range words {
		if upper := strings.ToUpper(w); acronyms[upper] {
			words[i] = upper
			continue
		}
		words[i] = title.String(w)
	}
	return strings.Join(words, "")
}

// receiver returns the receiver name of methods on a type.
func receiver(typ string) string {
	if typ == "" {
		return "x"
	}
	return strings.ToLower(typ[:1])
}
