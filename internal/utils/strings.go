package utils

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	// DefaultMaxStringLength is the default maximum length for truncated strings
	DefaultMaxStringLength = 500
)

// TruncateString shortens s to at most maxLen bytes, appending a suffix
// that records the original total length so callers know data was omitted.
// If maxLen is zero or negative, [DefaultMaxStringLength] is used instead.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxStringLength
	}
	if len(s) <= maxLen {
		return s
	}
	return fmt.Sprintf("%s... (truncated, total: %d chars)", s[:maxLen], len(s))
}

// TrimQuoted strips leading and trailing whitespace and double-quote
// characters, in any interleaving. Models answering a prompt often wrap the
// reply in quotes and newlines; `  "Hi there"  ` becomes `Hi there`.
func TrimQuoted(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return r == '"' || unicode.IsSpace(r)
	})
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
