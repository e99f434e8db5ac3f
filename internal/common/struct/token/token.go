// Released under an MIT license. See LICENSE.

// Package token is shared by the ember parser and evaluator.
package token

import (
	"strconv"
)

// Class is a token's type.
type Class int

// T (token) is a classified span of source text. Composite tokens (words and
// variable references) are followed in the token list by Components tokens.
type T struct {
	Class      Class
	Start      int // Offset of the first byte in the parsed text.
	Size       int // Number of bytes spanned.
	Components int // Number of sub-tokens that follow.
}

type token = T

// Token classes.
const (
	Word Class = iota + 1
	SimpleWord
	ExpandWord
	Text
	Backslash
	Command
	Variable
)

// String returns a string representation of Class. Useful for debugging.
func (c Class) String() string {
	switch c {
	case Word:
		return "Word"
	case SimpleWord:
		return "SimpleWord"
	case ExpandWord:
		return "ExpandWord"
	case Text:
		return "Text"
	case Backslash:
		return "Backslash"
	case Command:
		return "Command"
	case Variable:
		return "Variable"
	}

	return "Class(" + strconv.Itoa(int(c)) + ")"
}

// Is returns true if the token t is any of the classes in cs.
func (t *token) Is(cs ...Class) bool {
	if t == nil {
		return false
	}

	for _, c := range cs {
		if t.Class == c {
			return true
		}
	}

	return false
}

// End returns the offset just past the token.
func (t *token) End() int {
	return t.Start + t.Size
}

// Text returns the source text spanned by t.
func (t *token) Text(s string) string {
	return s[t.Start:t.End()]
}

// String returns the token's string representation. Useful for debugging.
func (t *token) String() string {
	return t.Class.String() + "(" +
		strconv.Itoa(t.Start) + "," +
		strconv.Itoa(t.Size) + "," +
		strconv.Itoa(t.Components) + ")"
}
