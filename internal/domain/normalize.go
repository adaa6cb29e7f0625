package domain

import (
	"strings"
	"unicode"
)

// NormalizeText prepares free text for comparison: trims, lowercases and
// collapses every whitespace run into a single space. Diacritics, hyphens
// and apostrophes are preserved.
func NormalizeText(text string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(text), unicode.IsSpace), " ")
}

// Slugify turns a category label into its slug: the normalized text with
// spaces replaced by "-". Returns "" for blank labels.
func Slugify(label string) string {
	return strings.ReplaceAll(NormalizeText(label), " ", "-")
}
