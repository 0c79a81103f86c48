package normalize

import (
	"strings"
	"unicode/utf8"
)

// Sanitize cleans customer text before it is stored or sent to the oracle.
// It drops invalid UTF-8, NUL and the other C0 controls except \n \r \t,
// DEL and the C1 controls U+0080..U+009F. Clean text is returned as is
func Sanitize(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	return strings.Map(func(r rune) rune {
		if control(r) {
			return -1
		}
		return r
	}, s)
}

func control(r rune) bool {
	switch r {
	case '\n', '\r', '\t':
		return false
	}
	return r < 0x20 || (r >= 0x7F && r <= 0x9F)
}
