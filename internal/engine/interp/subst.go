// Released under an MIT license. See LICENSE.

package interp

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/emberlang/ember/internal/common/struct/loc"
	"github.com/emberlang/ember/internal/common/struct/token"
	"github.com/emberlang/ember/internal/engine/result"
	"github.com/emberlang/ember/internal/reader/parser"
)

// SubstituteFile performs substitutions on the contents of the file name.
func (i *interp) SubstituteFile(name string, flags SubstitutionFlags) result.T {
	b, err := os.ReadFile(name)
	if err != nil {
		return result.Errorf("couldn't read file \"%s\": %v", name, err)
	}

	return i.SubstituteString(name, 1, string(b), flags)
}

// SubstituteStream performs substitutions on everything read from r.
func (i *interp) SubstituteStream(name string, r io.Reader, flags SubstitutionFlags) result.T {
	b, err := io.ReadAll(r)
	if err != nil {
		return result.FromError(fmt.Errorf("reading %s: %w", name, err))
	}

	return i.SubstituteString(name, 1, string(b), flags)
}

// SubstituteString performs the substitutions selected by flags on text as
// if it were the contents of a double-quoted word. When text has a syntax
// error, the part before the error is still substituted and the error is
// reported afterwards. A break stops substitution and keeps the output so
// far. A continue contributes nothing.
func (i *interp) SubstituteString(name string, line int, text string, flags SubstitutionFlags) result.T {
	if i.disposed.Load() {
		return unusable()
	}

	outermost, r := i.enter()
	defer i.leave(outermost)

	if r.Code != result.Ok {
		return r
	}

	if outermost {
		i.ResetResult()
	}

	p := parser.New(name, line, text)

	synthetic := -1

	saved := p.ParseSubst(0, len(text), mask(flags))
	if saved != nil {
		synthetic = recoverSubst(p, mask(flags))
	}

	r, stopped := i.substitute(p, flags, synthetic)
	if r.Code == result.Ok && saved != nil && !stopped {
		r = result.FromError(saved)
	}

	if i.disposed.Load() {
		return unusable()
	}

	if outermost {
		i.snapshot(&r)
	}

	return r
}

// substitute returns the substituted value and true if a break stopped
// substitution early.
func (i *interp) substitute(p *parser.T, flags SubstitutionFlags, synthetic int) (result.T, bool) {
	var b strings.Builder

	for k := 0; k < len(p.Tokens); {
		t := &p.Tokens[k]
		n := 1 + componentsOf(t)

		var r result.T

		if k == synthetic {
			if r = i.Ready(); r.Code != result.Ok {
				return r, false
			}

			r = i.EvaluateScript(
				p.Source.Name, loc.Line(p.Text, t.Start, p.Source.Line),
				p.Text, t.Start+1, t.Size-2, NoResetResult,
			)
		} else {
			r = i.EvaluateTokens(p, k, n, flags)
		}

		k += n

		switch r.Code {
		case result.Ok:
			b.WriteString(r.Value)
		case result.Break:
			return result.Value(b.String()), true
		case result.Continue:
		case result.Return:
			r = i.updateReturnInfo(r)
			if r.Code != result.Ok {
				return r, false
			}

			b.WriteString(r.Value)
		default:
			return r, false
		}
	}

	return result.Value(b.String()), false
}

// recoverSubst re-parses the prefix of p's text that precedes a syntax
// error. It returns the index of a synthesized Command token holding the
// complete commands after an unmatched open bracket, or -1.
func recoverSubst(p *parser.T, m parser.Mask) int {
	end := len(p.Text)

	for p.ParseSubst(0, p.Term, m) != nil {
	}

	term := p.Term
	if term >= end {
		return -1
	}

	switch p.Text[term] {
	case '{':
	case '(':
		if term > 0 && p.Text[term-1] != '$' && len(p.Tokens) >= 2 {
			p.Tokens = p.Tokens[:len(p.Tokens)-2]
		}

	case '[':
		nested := p.Copy()
		last := term

		for pos := term + 1; pos < end; {
			if nested.ParseCommand(pos, end-pos, false) != nil {
				break
			}

			pos = nested.Term
			if pos < end {
				pos++
			}

			if pos == end && nested.Term == end {
				break
			}

			last = nested.Term
		}

		if last == term {
			return -1
		}

		p.Tokens = append(p.Tokens, token.T{
			Class: token.Command, Start: term, Size: last - term + 1,
		})

		return len(p.Tokens) - 1
	}

	return -1
}

func mask(flags SubstitutionFlags) parser.Mask {
	var m parser.Mask

	if flags&SubstBackslashes != 0 {
		m |= parser.Backslashes
	}

	if flags&SubstCommands != 0 {
		m |= parser.Commands
	}

	if flags&SubstVariables != 0 {
		m |= parser.Variables
	}

	return m
}
