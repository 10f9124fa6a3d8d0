// Package ident provides functions for parsing and converting identifier names
// between various naming conventions. It handles the GraphQL (lowerCamelCase,
// SCREAMING_SNAKE_CASE) and Go (MixedCaps) styles the generator deals with.
package ident

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Name is an identifier name, broken up into individual words.
type Name []string

// ParseLowerCamelCase parses a lowerCamelCase identifier name.
//
// E.g., "countryId" -> {"country", "Id"}.
func ParseLowerCamelCase(name string) Name {
	return splitCamel(name)
}

// ParseMixedCaps parses a MixedCaps identifier name.
//
// E.g., "ClientMutationID" -> {"Client", "Mutation", "ID"}.
func ParseMixedCaps(name string) Name {
	return splitCamel(name)
}

// ParseScreamingSnakeCase parses a SCREAMING_SNAKE_CASE identifier name.
//
// E.g., "SCIENCE_FICTION" -> {"SCIENCE", "FICTION"}.
func ParseScreamingSnakeCase(name string) Name {
	var words Name
	for _, w := range strings.Split(name, "_") {
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

func splitCamel(name string) Name {
	var words Name
	var start int
	runes := []rune(name)
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		var next rune
		if i+1 < len(runes) {
			next = runes[i+1]
		}
		switch {
		case cur == '_':
			if start < i {
				words = append(words, string(runes[start:i]))
			}
			start = i + 1
		case unicode.IsLower(prev) && unicode.IsUpper(cur):
			words = append(words, string(runes[start:i]))
			start = i
		case unicode.IsUpper(prev) && unicode.IsUpper(cur) && unicode.IsLower(next):
			// "HTTPServer" splits before the last upper case letter.
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	if start < len(runes) {
		words = append(words, string(runes[start:]))
	}
	return words
}

// ToMixedCaps returns a MixedCaps (exported Go) identifier, upper-casing
// known initialisms.
//
// E.g., {"country", "Id"} -> "CountryID".
func (n Name) ToMixedCaps() string {
	var b strings.Builder
	for _, word := range n {
		if upper := strings.ToUpper(word); initialisms[upper] {
			b.WriteString(upper)
			continue
		}
		r, size := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(strings.ToLower(word[size:]))
	}
	return b.String()
}

// ToLowerCamelCase returns a lowerCamelCase identifier name.
//
// E.g., {"Country", "ID"} -> "countryId".
func (n Name) ToLowerCamelCase() string {
	var b strings.Builder
	for i, word := range n {
		if i == 0 {
			b.WriteString(strings.ToLower(word))
			continue
		}
		r, size := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(strings.ToLower(word[size:]))
	}
	return b.String()
}

// ToUnexported returns an unexported Go identifier. Leading initialisms
// are lower-cased as a whole.
//
// E.g., {"ID"} -> "id", {"film", "Id"} -> "filmID".
func (n Name) ToUnexported() string {
	if len(n) == 0 {
		return ""
	}
	rest := n[1:].ToMixedCaps()
	return strings.ToLower(n[0]) + rest
}

// initialisms is the set of words Go style writes in all capitals.
var initialisms = map[string]bool{
	"API":  true,
	"HTTP": true,
	"ID":   true,
	"JSON": true,
	"SQL":  true,
	"URL":  true,
	"UUID": true,
}
