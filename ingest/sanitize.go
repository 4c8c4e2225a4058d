package ingest

import "strings"

// Sanitize replaces every character outside the printable ASCII range with a
// single space, guarding against encoding failures in downstream transport
// and keeping embedding inputs consistent. Newlines are preserved so that
// chunk boundary snapping still sees line breaks.
func Sanitize(text string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' {
			return r
		}
		if r < 0x20 || r > 0x7e {
			return ' '
		}
		return r
	}, text)
}
