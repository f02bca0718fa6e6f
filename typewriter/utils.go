package typewriter

import (
	"unicode/utf8"
)

// trimLastRune removes the final rune from s. Text is typed and erased one
// rune at a time, so multi-byte characters never get split.
func trimLastRune(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
