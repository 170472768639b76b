package item

import (
	"strings"
	"unicode"
)

// Truncate ensures text is at most maxLen characters.
// If truncation is needed, appends "..." to indicate truncation.
func Truncate(text string, maxLen int) string {
	text = strings.TrimSpace(text)

	if len(text) <= maxLen {
		return text
	}

	// Reserve 3 characters for "..."
	if maxLen < 3 {
		return strings.Repeat(".", maxLen)
	}

	return text[:maxLen-3] + "..."
}

// Sanitize removes control characters and collapses whitespace.
// This keeps display lines safe for terminals and single-line list views.
func Sanitize(text string) string {
	text = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			// Convert control characters to space for later collapsing
			return ' '
		}
		return r
	}, text)

	// Collapse all whitespace (spaces, tabs, newlines, etc.) into single spaces
	fields := strings.Fields(text)
	return strings.Join(fields, " ")
}
