package tools

import (
	"strings"
	"unicode"
)

type printableType interface {
	~string | ~[]rune | ~[]byte
}

// IsPrintable returns v without the characters that are not printable, like the CRLF of a command line.
// Invalid UTF-8 is replaced with U+FFFD.
func IsPrintable[T printableType](v T) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, string(v))
}
