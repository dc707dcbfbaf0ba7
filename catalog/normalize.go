// Package catalog implements the read-only queries against a medication
// catalog: text normalization, free-text search and table filtering.
package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented characters and drops the combining marks,
// so "Ácido" and "acido" compare equal after lower-casing.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes free text into a comparison key: lower-cased,
// diacritics removed. It is applied identically to queries and to the
// searchable medication fields.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	lowered := strings.ToLower(text)
	normalized, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		// Malformed input: fall back to the lower-cased form so search
		// still works on the valid part of the data.
		return lowered
	}
	return normalized
}
