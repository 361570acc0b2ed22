// Package textutil normalizes document text before it is parsed, diffed,
// or dumped, so platform newline conventions and stray encoding damage
// never surface as document changes.
package textutil

import "strings"

// Normalize converts raw document bytes to diff-ready text: CRLF and bare
// CR become LF, and invalid UTF-8 sequences are replaced with U+FFFD.
func Normalize(b []byte) string {
	s := string(b)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.ToValidUTF8(s, "�")
}

// EnsureTrailingLF appends a single '\n' when text is non-empty and does
// not already end with one. Dump files always end with a newline.
func EnsureTrailingLF(s string) string {
	if s == "" || s[len(s)-1] == '\n' {
		return s
	}
	return s + "\n"
}
