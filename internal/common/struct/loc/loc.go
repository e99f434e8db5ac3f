// Released under an MIT license. See LICENSE.

// Package loc provides the type used to track the source of scripts and
// commands. It is also used to keep track of the evaluator's current
// location for diagnostics.
package loc

import (
	"strconv"
	"strings"
)

// T (loc) is a lexical location.
type T struct {
	Line int    // Line number (row).
	Name string // Label for the source of this script (usually a file name).
}

type loc = T

// Advance returns the location of offset in text, where text begins at l.
func (l loc) Advance(text string, offset int) loc {
	if offset > len(text) {
		offset = len(text)
	}

	l.Line += strings.Count(text[:offset], "\n")

	return l
}

func (l *loc) String() string {
	name := l.Name
	if name == "" {
		name = "-"
	}

	return name + ":" + strconv.Itoa(l.Line)
}

// Line counts the lines in text up to offset, starting from first. The
// result is 1-based when first is 1.
func Line(text string, offset, first int) int {
	if offset < 0 {
		offset = 0
	}

	if offset > len(text) {
		offset = len(text)
	}

	if first < 1 {
		first = 1
	}

	return first + strings.Count(text[:offset], "\n")
}
