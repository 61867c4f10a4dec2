package timelane

import (
	"fmt"
	"unicode/utf8"
)

const (
	// MaxValueLength is the number of characters kept by FormatValue.
	MaxValueLength = 50

	// Ellipsis is appended to truncated values.
	Ellipsis = "..."
)

// Truncate keeps the first n characters of s and appends Ellipsis when something was cut off.
func Truncate(s string, n int) string {
	if n < 0 || utf8.RuneCountInString(s) <= n {
		return s
	}

	runes := []rune(s)

	return string(runes[:n]) + Ellipsis
}

// FormatValue renders v with fmt's %v verb, truncated to MaxValueLength.
func FormatValue(v any) string {
	return Truncate(fmt.Sprint(v), MaxValueLength)
}

// DefaultTransform returns FormatValue as a typed transform.
func DefaultTransform[T any]() func(T) string {
	return func(v T) string {
		return FormatValue(v)
	}
}
