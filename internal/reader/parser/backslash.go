// Released under an MIT license. See LICENSE.

package parser

import (
	"unicode/utf8"
)

// Backslash decodes the backslash sequence starting at s[i]. It returns the
// replacement text and the number of bytes consumed.
func Backslash(s string, i int) (string, int) {
	if i+1 >= len(s) {
		return `\`, 1
	}

	c := s[i+1]

	switch c {
	case 'a':
		return "\a", 2
	case 'b':
		return "\b", 2
	case 'f':
		return "\f", 2
	case 'n':
		return "\n", 2
	case 'r':
		return "\r", 2
	case 't':
		return "\t", 2
	case 'v':
		return "\v", 2

	case 'x':
		return hex(s, i, 2, "x")
	case 'u':
		return hex(s, i, 4, "u")
	case 'U':
		return hex(s, i, 8, "U")

	case '\n':
		// A backslash-newline and any following blanks become one space.
		n := 2
		for i+n < len(s) && (s[i+n] == ' ' || s[i+n] == '\t') {
			n++
		}

		return " ", n

	case '0', '1', '2', '3', '4', '5', '6', '7':
		v := 0
		n := 1

		for n <= 3 && i+n < len(s) && s[i+n] >= '0' && s[i+n] <= '7' {
			v = v*8 + int(s[i+n]-'0')
			n++
		}

		return string(rune(v & 0xff)), n
	}

	r, w := utf8.DecodeRuneInString(s[i+1:])

	return string(r), 1 + w
}

func hex(s string, i, max int, name string) (string, int) {
	v := rune(0)
	n := 2

	for n-2 < max && i+n < len(s) {
		d, ok := digit(s[i+n])
		if !ok {
			break
		}

		next := v<<4 | d
		if next > utf8.MaxRune {
			break
		}

		v = next
		n++
	}

	if n == 2 {
		return name, 2
	}

	if !utf8.ValidRune(v) {
		v = utf8.RuneError
	}

	return string(v), n
}

func digit(c byte) (rune, bool) {
	switch {
	case c >= '0' && c <= '9':
		return rune(c - '0'), true
	case c >= 'a' && c <= 'f':
		return rune(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return rune(c-'A') + 10, true
	}

	return 0, false
}
