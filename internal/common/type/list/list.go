// Released under an MIT license. See LICENSE.

// Package list provides common list operations. A list is not a true type.
// Lists are more of a type by convention. They are strings whose elements
// are separated by white space and quoted with braces or backslashes.
package list

import (
	"errors"
	"strings"

	"github.com/emberlang/ember/internal/reader/parser"
)

// Errors returned when a string is not a well-formed list.
var (
	ErrBrace = errors.New("unmatched open brace in list")
	ErrQuote = errors.New("unmatched open quote in list")
)

// Append returns the list l with each element in elements appended.
func Append(l string, elements ...string) string {
	if len(elements) == 0 {
		return l
	}

	var b strings.Builder

	b.WriteString(l)

	for _, e := range elements {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}

		b.WriteString(Quote(e))
	}

	return b.String()
}

// Concat joins each argument after trimming surrounding white space.
func Concat(args ...string) string {
	parts := make([]string, 0, len(args))

	for _, a := range args {
		a = strings.TrimSpace(a)
		if a != "" {
			parts = append(parts, a)
		}
	}

	return strings.Join(parts, " ")
}

// Length returns the number of elements in l.
func Length(l string) (int, error) {
	elements, err := Split(l)

	return len(elements), err
}

// Merge creates a list composed of all of the elements in elements.
func Merge(elements ...string) string {
	return Append("", elements...)
}

// Quote returns s quoted, if necessary, so that it is a single list element.
func Quote(s string) string {
	if s == "" {
		return "{}"
	}

	if !needsQuoting(s) {
		return s
	}

	if braceable(s) {
		return "{" + s + "}"
	}

	var b strings.Builder

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch c {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\v':
			b.WriteString(`\v`)
		case '\f':
			b.WriteString(`\f`)
		case ' ', ';', '"', '$', '[', ']', '\\', '{', '}':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

// Split returns the elements of the list l.
func Split(l string) ([]string, error) {
	var elements []string

	i := 0
	for {
		for i < len(l) && isSpace(l[i]) {
			i++
		}

		if i >= len(l) {
			return elements, nil
		}

		var (
			e   string
			err error
		)

		switch l[i] {
		case '{':
			e, i, err = braced(l, i)
		case '"':
			e, i, err = quoted(l, i)
		default:
			e, i = bare(l, i)
		}

		if err != nil {
			return nil, err
		}

		elements = append(elements, e)
	}
}

func bare(l string, i int) (string, int) {
	var b strings.Builder

	for i < len(l) && !isSpace(l[i]) {
		if l[i] == '\\' {
			s, n := parser.Backslash(l, i)
			b.WriteString(s)

			i += n

			continue
		}

		b.WriteByte(l[i])
		i++
	}

	return b.String(), i
}

func braceable(s string) bool {
	level := 0

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			level++
		case '}':
			level--
			if level < 0 {
				return false
			}
		case '\\':
			if i == len(s)-1 {
				return false
			}

			i++
		}
	}

	return level == 0
}

func braced(l string, start int) (string, int, error) {
	level := 1

	for i := start + 1; i < len(l); i++ {
		switch l[i] {
		case '{':
			level++
		case '}':
			level--
			if level == 0 {
				if i+1 < len(l) && !isSpace(l[i+1]) {
					return "", 0, errors.New(
						"list element in braces followed by \"" +
							l[i+1:i+2] + "\" instead of space",
					)
				}

				return l[start+1 : i], i + 1, nil
			}
		case '\\':
			i++
		}
	}

	return "", 0, ErrBrace
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func needsQuoting(s string) bool {
	if s[0] == '#' || s[0] == '"' {
		return true
	}

	return strings.ContainsAny(s, " \t\n\r\v\f;$[]\\{}\"")
}

func quoted(l string, start int) (string, int, error) {
	var b strings.Builder

	for i := start + 1; i < len(l); {
		switch l[i] {
		case '"':
			if i+1 < len(l) && !isSpace(l[i+1]) {
				return "", 0, errors.New(
					"list element in quotes followed by \"" +
						l[i+1:i+2] + "\" instead of space",
				)
			}

			return b.String(), i + 1, nil
		case '\\':
			s, n := parser.Backslash(l, i)
			b.WriteString(s)

			i += n
		default:
			b.WriteByte(l[i])
			i++
		}
	}

	return "", 0, ErrQuote
}
