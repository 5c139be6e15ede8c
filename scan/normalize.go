package scan

import (
	"strings"
	"unicode"

	"github.com/copywatch/copywatch/regexp"
)

// urlStart recognizes the scheme of a URL-shaped token.
var urlStart = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://\S+`)

// collapsible reports whether r can appear inside a whitespace/comment
// run. Quote characters and hyphens are deliberately excluded so names
// like O'Brien or third-party survive normalization.
func collapsible(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '*', '#', '/', ';', '%', '=', '|', '~':
		return true
	}
	return false
}

// Normalize collapses whitespace/comment runs in captured text to a
// single space and trims the edges, while preserving URL-shaped
// substrings verbatim (their slashes and fragments are not decoration).
// A run with no actual whitespace in it is kept as-is, so tokens like
// "and/or" survive.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	runes := []rune(s)
	for i := 0; i < len(runes); {
		r := runes[i]

		// Copy URL tokens through untouched.
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			if m := urlStart.FindString(string(runes[i:])); m != "" {
				b.WriteString(m)
				i += len([]rune(m))
				continue
			}
		}

		if !collapsible(r) {
			b.WriteRune(r)
			i++
			continue
		}

		// Take the whole run; emit one space if it contained real
		// whitespace, else keep it verbatim.
		start := i
		hasSpace := false
		for i < len(runes) && collapsible(runes[i]) {
			if unicode.IsSpace(runes[i]) {
				hasSpace = true
			}
			i++
		}
		if hasSpace {
			b.WriteByte(' ')
		} else {
			b.WriteString(string(runes[start:i]))
		}
	}
	return strings.TrimSpace(b.String())
}
