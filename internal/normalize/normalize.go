// Package normalize turns human titles and option labels into the
// machine-safe identifiers the GXSI dialect expects.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxKeyLength caps domain keys at the dialect limit.
const MaxKeyLength = 20

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Key converts a human title into a domain key: diacritics stripped,
// non-alphanumerics removed, upper-cased, truncated to MaxKeyLength.
// Empty input yields an empty key; callers substitute their own fallback.
func Key(title string) string {
	if title == "" {
		return ""
	}

	var out strings.Builder
	for _, r := range stripDiacritics(title) {
		if isAlphanumeric(r) {
			out.WriteRune(unicode.ToUpper(r))
		}
		if out.Len() >= MaxKeyLength {
			break
		}
	}
	return out.String()
}

// ItemValue derives an option item's machine value from its display
// description: diacritics stripped, whitespace runs collapsed to a single
// underscore, everything outside [A-Za-z0-9_] removed, upper-cased.
func ItemValue(description string) string {
	if description == "" {
		return ""
	}

	var out strings.Builder
	pendingSep := false
	for _, r := range stripDiacritics(strings.TrimSpace(description)) {
		if unicode.IsSpace(r) {
			pendingSep = out.Len() > 0
			continue
		}
		if !isAlphanumeric(r) && r != '_' {
			continue
		}
		if pendingSep {
			out.WriteRune('_')
			pendingSep = false
		}
		out.WriteRune(unicode.ToUpper(r))
	}
	return out.String()
}

func stripDiacritics(input string) string {
	stripped, _, err := transform.String(stripMarks, input)
	if err != nil {
		return input
	}
	return stripped
}

func isAlphanumeric(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
