package normalize

import (
	"strings"
	"unicode/utf8"
)

// Sanitize drops what must not reach moderation or the database: invalid
// UTF-8, NUL and the C0 and C1 control ranges except tab, CR and LF.
// Clean input comes back unchanged without allocating
func Sanitize(s string) string {
	i := firstBad(s)
	if i < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(s[:i])
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if keep(r, size) {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

// firstBad returns the byte offset of the first dropped rune, or -1
func firstBad(s string) int {
	for i := 0; i < len(s); {
		if c := s[i]; c >= 0x20 && c < 0x7f {
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if !keep(r, size) {
			return i
		}
		i += size
	}
	return -1
}

func keep(r rune, size int) bool {
	switch {
	case r == utf8.RuneError && size == 1:
		return false
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r < 0x20 || r == 0x7f:
		return false
	case r >= 0x80 && r <= 0x9f:
		return false
	}
	return true
}
