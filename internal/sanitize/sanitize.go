// Package sanitize cleans user supplied prompt text before it is forwarded upstream.
package sanitize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Text strips control characters and unpaired surrogates, collapses every run
// of whitespace to a single space and trims the ends. Visible characters are
// left untouched.
//
// encoding/json decodes a lone surrogate escape to U+FFFD, and raw surrogate
// halves arrive as invalid UTF-8; both are dropped here.
func Text(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == utf8.RuneError:
			continue
		case isControl(r):
			continue
		case isSpace(r):
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isSpace matches the whitespace class collapsed by Text. Line and paragraph
// separators are included, so they become plain spaces.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}

// isControl matches C0 controls other than tab, LF and CR, plus DEL.
func isControl(r rune) bool {
	return (r < 0x20 && r != '\t' && r != '\n' && r != '\r') || r == 0x7F
}
