// Package slug provides URL-friendly slug generation from arbitrary strings.
package slug

import (
	"regexp"
	"strings"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, or space.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
	// accents maps the characters common in French and Spanish titles.
	accents = strings.NewReplacer(
		"à", "a", "â", "a", "ä", "a", "á", "a",
		"è", "e", "é", "e", "ê", "e", "ë", "e",
		"î", "i", "ï", "i", "í", "i",
		"ô", "o", "ö", "o", "ó", "o",
		"ù", "u", "û", "u", "ü", "u", "ú", "u",
		"ç", "c", "ñ", "n", "œ", "oe", "æ", "ae",
	)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "L'Été à Paris, 2024!" → "l-ete-a-paris-2024"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = accents.Replace(result)
	result = strings.ReplaceAll(result, "'", " ")
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = strings.ReplaceAll(result, " ", "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}
