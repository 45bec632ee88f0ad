// Package helpers provides small string utilities shared by the UI code.
package helpers

import "strings"

const ellipsis = "..."

// TruncateText shortens text to at most maxLen runes, ending in "..." if
// truncated. Surrounding whitespace is trimmed first. A maxLen too small to
// hold the ellipsis leaves text untouched.
func TruncateText(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	r := []rune(text)
	if maxLen <= len(ellipsis) || len(r) <= maxLen {
		return text
	}
	return string(r[:maxLen-len(ellipsis)]) + ellipsis
}

// TruncateMiddle shortens s to at most maxLen runes by cutting from the
// middle, so both the leading directory and the file name stay visible.
func TruncateMiddle(s string, maxLen int) string {
	r := []rune(s)
	if maxLen <= len(ellipsis)+1 || len(r) <= maxLen {
		return s
	}
	keep := maxLen - len(ellipsis)
	head := keep / 2
	tail := keep - head
	return string(r[:head]) + ellipsis + string(r[len(r)-tail:])
}
