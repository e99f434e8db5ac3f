// Released under an MIT license. See LICENSE.

// Package reader accumulates lines until they hold complete commands.
package reader

import (
	"strings"

	"github.com/emberlang/ember/internal/reader/parser"
)

// T (reader) collects lines of input.
type T struct {
	name  string
	lines int
	text  strings.Builder
}

type reader = T

// New creates a new reader for name.
func New(name string) *T {
	return &T{name: name}
}

// Line returns the number of the first line of the pending text.
func (r *reader) Line() int {
	return r.lines - strings.Count(r.text.String(), "\n") + 1
}

// Name returns the name the reader was created with.
func (r *reader) Name() string {
	return r.name
}

// Pending returns true if a partial command has been read.
func (r *reader) Pending() bool {
	return r.text.Len() > 0
}

// Reset discards any partial command.
func (r *reader) Reset() {
	r.text.Reset()
}

// Scan adds line to the pending text. It returns the text and true once the
// text holds only complete commands.
func (r *reader) Scan(line string) (string, bool) {
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}

	r.lines++
	r.text.WriteString(line)

	text := r.text.String()
	if !parser.Complete(text) {
		return "", false
	}

	r.text.Reset()

	return text, true
}
