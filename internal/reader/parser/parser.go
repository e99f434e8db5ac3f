// Released under an MIT license. See LICENSE.

// Package parser splits ember source into commands, words and tokens.
//
// The parser never evaluates anything. It produces a flat list of tokens
// whose spans index into the original text; composite tokens (words and
// variable references) are followed by their components. The evaluator walks
// that list.
package parser

import (
	"github.com/emberlang/ember/internal/common/struct/loc"
	"github.com/emberlang/ember/internal/common/struct/token"
)

// Mask selects the substitutions honoured when parsing tokens.
type Mask uint8

// Substitution kinds.
const (
	Backslashes Mask = 1 << iota
	Commands
	Variables

	All = Backslashes | Commands | Variables
)

// Error is a syntax error.
type Error struct {
	Message    string
	Offset     int  // Offset of the construct that could not be parsed.
	Incomplete bool // True if more input could complete the construct.
}

func (e *Error) Error() string {
	return e.Message
}

// T (parser) holds the state for parsing one command or one substituted
// string.
type T struct {
	Source loc.T
	Text   string

	CommandStart int // Offset of the first byte of the command.
	CommandSize  int // Bytes in the command, including its terminator.
	Words        int // Number of words in the command.

	Tokens []token.T

	Term       int  // Offset of the character that terminated the parse.
	Incomplete bool // Set if the input ended in the middle of a construct.
}

type parser = T

// New creates a new T for text. Name and line label the source.
func New(name string, line int, text string) *T {
	if line < 1 {
		line = 1
	}

	return &T{Source: loc.T{Line: line, Name: name}, Text: text}
}

// Copy returns a new parser over the same text with no tokens.
func (p *parser) Copy() *T {
	return &T{Source: p.Source, Text: p.Text}
}

// Reset clears any tokens and command boundaries.
func (p *parser) Reset() {
	p.CommandStart = 0
	p.CommandSize = 0
	p.Incomplete = false
	p.Term = 0
	p.Tokens = p.Tokens[:0]
	p.Words = 0
}

// Command returns the text of the most recently parsed command without its
// terminator.
func (p *parser) Command() string {
	end := p.CommandStart + p.CommandSize
	if end > p.CommandStart && p.Term == end-1 {
		end--
	}

	return p.Text[p.CommandStart:end]
}

// ParseCommand parses the command that begins at or after start. Leading
// white space, blank lines and comments are skipped. When nested is true, an
// unescaped close bracket terminates the command. On success p.Term is the
// offset of the terminating character, or the end of the region.
func (p *parser) ParseCommand(start, length int, nested bool) error {
	p.Reset()

	end := p.end(start, length)

	i := p.skipComments(start, end)

	p.CommandStart = i

	stop := stopSpace | stopCommandEnd
	if nested {
		stop |= stopBracket
	}

	term := end

	for {
		i = p.skipSpace(i, end)
		if i >= end {
			break
		}

		c := p.Text[i]
		if c == '\n' || c == ';' || (nested && c == ']') {
			term = i
			break
		}

		w := len(p.Tokens)
		p.Tokens = append(p.Tokens, token.T{Class: token.Word, Start: i})

		expand := false
		if p.expansion(i, end) {
			expand = true
			i += 3
		}

		var (
			err    error
			next   int
			closer string
		)

		switch p.Text[i] {
		case '"':
			closer = "quote"
			next, err = p.ParseQuoted(i, end)
		case '{':
			closer = "brace"
			next, err = p.ParseBraces(i, end)
		default:
			next, err = p.parseTokens(i, end, stop, All)
		}

		if err != nil {
			return p.fail(err)
		}

		p.finishWord(w, next, expand)

		if closer != "" && next < end && !p.separates(next, end, nested) {
			return p.fail(&Error{
				Message: "extra characters after close-" + closer,
				Offset:  next,
			})
		}

		i = next
	}

	p.Term = term
	p.CommandSize = term - p.CommandStart

	if term < end {
		p.CommandSize++
	}

	return nil
}

// ParseSubst parses text as if it were the contents of a double-quoted word
// in which only the substitutions in m are performed.
func (p *parser) ParseSubst(start, length int, m Mask) error {
	p.Reset()

	end := p.end(start, length)

	p.CommandStart = start

	next, err := p.parseTokens(start, end, 0, m)
	if err != nil {
		return p.fail(err)
	}

	p.Term = next
	p.CommandSize = next - start

	return nil
}

// ParseBraces parses the braced word starting at start, appending Text
// tokens and Backslash tokens for backslash-newline sequences. It returns
// the offset after the close brace.
func (p *parser) ParseBraces(start, end int) (int, error) {
	first := len(p.Tokens)
	level := 1
	run := start + 1

	for i := start + 1; i < end; {
		switch p.Text[i] {
		case '{':
			level++
		case '}':
			level--
			if level == 0 {
				p.text(run, i)
				p.empty(first, i)

				return i + 1, nil
			}
		case '\\':
			if i+1 < end && p.Text[i+1] == '\n' {
				p.text(run, i)

				_, n := Backslash(p.Text[:end], i)
				p.Tokens = append(p.Tokens, token.T{
					Class: token.Backslash, Start: i, Size: n,
				})

				i += n
				run = i

				continue
			}

			i += 2

			continue
		}

		i++
	}

	return end, &Error{
		Message:    "missing close-brace",
		Offset:     start,
		Incomplete: true,
	}
}

// ParseBracket parses the command substitution starting at start, appending
// a Command token. It returns the offset after the close bracket.
func (p *parser) ParseBracket(start, end int) (int, error) {
	nested := p.Copy()

	i := start + 1

	for {
		err := nested.ParseCommand(i, end-i, true)
		if err != nil {
			return end, err
		}

		i = nested.Term + 1

		if nested.Term < end && p.Text[nested.Term] == ']' {
			break
		}

		if nested.Term >= end {
			return end, &Error{
				Message:    "missing close-bracket",
				Offset:     start,
				Incomplete: true,
			}
		}
	}

	p.Tokens = append(p.Tokens, token.T{
		Class: token.Command, Start: start, Size: i - start,
	})

	return i, nil
}

// ParseQuoted parses the double-quoted word starting at start. It returns
// the offset after the close quote.
func (p *parser) ParseQuoted(start, end int) (int, error) {
	next, err := p.parseTokens(start+1, end, stopQuote, All)
	if err != nil {
		return end, err
	}

	if next >= end {
		return end, &Error{
			Message:    `missing "`,
			Offset:     start,
			Incomplete: true,
		}
	}

	return next + 1, nil
}

// ParseVarName parses the variable reference starting at start (which must
// be a dollar sign). A dollar sign not followed by a variable name is
// appended as a Text token.
func (p *parser) ParseVarName(start, end int) (int, error) {
	v := len(p.Tokens)
	p.Tokens = append(p.Tokens, token.T{Class: token.Variable, Start: start})

	i := start + 1

	switch {
	case i < end && p.Text[i] == '{':
		name := i + 1

		for i = name; i < end && p.Text[i] != '}'; i++ {
		}

		if i >= end {
			p.Tokens = p.Tokens[:v]

			return end, &Error{
				Message:    "missing close-brace for variable name",
				Offset:     name - 1,
				Incomplete: true,
			}
		}

		p.Tokens = append(p.Tokens, token.T{
			Class: token.Text, Start: name, Size: i - name,
		})

		i++

	default:
		name := i
		i = p.scanName(i, end)

		if i == name {
			p.Tokens[v] = token.T{Class: token.Text, Start: start, Size: 1}

			return start + 1, nil
		}

		p.Tokens = append(p.Tokens, token.T{
			Class: token.Text, Start: name, Size: i - name,
		})

		if i < end && p.Text[i] == '(' {
			open := i

			next, err := p.parseTokens(i+1, end, stopParen, All)
			if err != nil {
				return end, err
			}

			if next >= end {
				return end, &Error{
					Message:    "missing )",
					Offset:     open,
					Incomplete: true,
				}
			}

			i = next + 1
		}
	}

	p.Tokens[v].Size = i - start
	p.Tokens[v].Components = len(p.Tokens) - v - 1

	return i, nil
}

type stop uint8

const (
	stopSpace stop = 1 << iota
	stopCommandEnd
	stopQuote
	stopParen
	stopBracket
)

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\v' || c == '\f' || c == '\r'
}

func (p *parser) empty(first, at int) {
	if len(p.Tokens) == first {
		p.Tokens = append(p.Tokens, token.T{Class: token.Text, Start: at})
	}
}

func (p *parser) end(start, length int) int {
	end := start + length
	if length < 0 || end > len(p.Text) {
		end = len(p.Text)
	}

	return end
}

func (p *parser) expansion(i, end int) bool {
	if i+3 >= end || p.Text[i:i+3] != "{*}" {
		return false
	}

	c := p.Text[i+3]

	return !isSpace(c) && c != '\n' && c != ';'
}

func (p *parser) fail(err error) error {
	if e, ok := err.(*Error); ok {
		p.Term = e.Offset
		p.Incomplete = e.Incomplete
	}

	return err
}

func (p *parser) finishWord(w, next int, expand bool) {
	words := p.Tokens[w:]

	words[0].Size = next - words[0].Start
	words[0].Components = len(words) - 1

	switch {
	case expand:
		words[0].Class = token.ExpandWord
	case words[0].Components == 1 && words[1].Class == token.Text:
		words[0].Class = token.SimpleWord
	}

	p.Words++
}

// parseTokens appends tokens for the characters from start up to the first
// character matching s. It returns the offset of that character.
func (p *parser) parseTokens(start, end int, s stop, m Mask) (int, error) {
	first := len(p.Tokens)

	i := start
	for i < end && !p.stops(i, s) {
		c := p.Text[i]

		switch {
		case c == '$' && m&Variables != 0:
			next, err := p.ParseVarName(i, end)
			if err != nil {
				return end, err
			}

			i = next

		case c == '[' && m&Commands != 0:
			next, err := p.ParseBracket(i, end)
			if err != nil {
				return end, err
			}

			i = next

		case c == '\\' && m&Backslashes != 0:
			if i+1 < end && p.Text[i+1] == '\n' && s&stopSpace != 0 {
				// A backslash-newline separates words.
				p.empty(first, i)

				return i, nil
			}

			_, n := Backslash(p.Text[:end], i)
			p.Tokens = append(p.Tokens, token.T{
				Class: token.Backslash, Start: i, Size: n,
			})

			i += n

		default:
			j := i + 1
			for j < end && !p.stops(j, s) && !special(p.Text[j], m) {
				j++
			}

			p.text(i, j)

			i = j
		}
	}

	p.empty(first, i)

	return i, nil
}

func (p *parser) scanName(i, end int) int {
	for i < end {
		c := p.Text[i]

		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			i++
		case c >= 0x80:
			i++
		case c == ':' && i+1 < end && p.Text[i+1] == ':':
			for i < end && p.Text[i] == ':' {
				i++
			}
		default:
			return i
		}
	}

	return i
}

func (p *parser) separates(i, end int, nested bool) bool {
	c := p.Text[i]

	switch {
	case isSpace(c), c == '\n', c == ';':
		return true
	case nested && c == ']':
		return true
	case c == '\\' && i+1 < end && p.Text[i+1] == '\n':
		return true
	}

	return false
}

func (p *parser) skipComments(i, end int) int {
	for {
		i = p.skipSpace(i, end)
		for i < end && p.Text[i] == '\n' {
			i = p.skipSpace(i+1, end)
		}

		if i >= end || p.Text[i] != '#' {
			return i
		}

		for i < end {
			if p.Text[i] == '\\' {
				i += 2
				continue
			}

			if p.Text[i] == '\n' {
				i++
				break
			}

			i++
		}

		if i > end {
			i = end
		}
	}
}

func (p *parser) skipSpace(i, end int) int {
	for i < end {
		c := p.Text[i]

		switch {
		case isSpace(c):
			i++
		case c == '\\' && i+1 < end && p.Text[i+1] == '\n':
			_, n := Backslash(p.Text[:end], i)
			i += n
		default:
			return i
		}
	}

	return i
}

func (p *parser) stops(i int, s stop) bool {
	switch p.Text[i] {
	case ' ', '\t', '\v', '\f', '\r':
		return s&stopSpace != 0
	case '\n', ';':
		return s&stopCommandEnd != 0
	case '"':
		return s&stopQuote != 0
	case ')':
		return s&stopParen != 0
	case ']':
		return s&stopBracket != 0
	}

	return false
}

func (p *parser) text(start, end int) {
	if end > start {
		p.Tokens = append(p.Tokens, token.T{
			Class: token.Text, Start: start, Size: end - start,
		})
	}
}

func special(c byte, m Mask) bool {
	switch c {
	case '$':
		return m&Variables != 0
	case '[':
		return m&Commands != 0
	case '\\':
		return m&Backslashes != 0
	}

	return false
}
