package scanner

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayTitle cleans a folder name into a human-readable title for tables
// and reports. Separators collapse to spaces; casing is normalized.
func DisplayTitle(folder string) string {
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range folder {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '\'':
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Unknown Book"
	}
	return cases.Title(language.Und, cases.NoLower).String(title)
}
