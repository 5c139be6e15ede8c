package decode

// substitute maps one malformed byte to a best-effort character. The table
// covers single-byte codes that show up in legacy copyright headers:
// accented letters keep their Latin-1 code point, layout bytes become
// whitespace so patterns treat them as word separators, bullet-like bytes
// become '*' so they read as comment characters, and the copyright and
// trademark signs keep their glyphs. Everything else becomes '?'.
func substitute(b byte) rune {
	if b >= 0xC0 {
		return rune(b)
	}
	switch b {
	case 0xA0, 0xA7, 0xAD, 0xB6:
		// NBSP, section sign, soft hyphen, pilcrow.
		return ' '
	case 0x95, 0xB7:
		// CP1252 bullet, middle dot.
		return '*'
	case 0xA9:
		return '©'
	case 0xAE:
		return '®'
	case 0x99:
		// CP1252 trademark.
		return '™'
	case 0x00:
		return 0x00
	}
	return '?'
}
