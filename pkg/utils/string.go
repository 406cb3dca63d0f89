// Package utils provides common utility functions.
package utils

import "strings"

// missingTokens are cell values collectors emit for empty cells.
var missingTokens = map[string]bool{
	"":     true,
	"nan":  true,
	"none": true,
	"null": true,
	"n/a":  true,
	"-":    true,
}

// IsMissing reports whether a raw cell carries no value.
func IsMissing(str string) bool {
	return missingTokens[strings.ToLower(strings.TrimSpace(str))]
}

// NormalizeWhitespace replaces multiple whitespace with single space.
func NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// CleanText normalizes whitespace and maps missing markers to "".
func CleanText(str string) string {
	if IsMissing(str) {
		return ""
	}

	return NormalizeWhitespace(str)
}

// TruncateString truncates string to max display length.
func TruncateString(str string, maxLength int) string {
	r := []rune(str)
	if len(r) <= maxLength {
		return str
	}

	return string(r[:maxLength]) + "..."
}
