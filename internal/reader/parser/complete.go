// Released under an MIT license. See LICENSE.

package parser

import (
	"errors"
)

// Complete returns true if text holds only complete commands. A command is
// incomplete when it ends inside braces, quotes or brackets, or with a
// backslash-newline.
func Complete(text string) bool {
	p := New("", 1, text)

	for i := 0; i < len(text); {
		err := p.ParseCommand(i, len(text)-i, false)
		if err != nil {
			var e *Error
			if errors.As(err, &e) {
				return !e.Incomplete
			}

			return true
		}

		next := p.CommandStart + p.CommandSize
		if next <= i {
			break
		}

		i = next
	}

	n := 0
	for i := len(text) - 1; i >= 0 && text[i] == '\\'; i-- {
		n++
	}

	return n%2 == 0
}

// WordIndices returns the indices in p.Tokens of each word token.
func (p *parser) WordIndices() []int {
	idx := make([]int, 0, p.Words)

	for i := 0; i < len(p.Tokens); i += p.Tokens[i].Components + 1 {
		idx = append(idx, i)
	}

	return idx
}
