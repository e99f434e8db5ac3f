// Released under an MIT license. See LICENSE.

package interp

import (
	"strings"

	"github.com/emberlang/ember/internal/common/struct/loc"
	"github.com/emberlang/ember/internal/common/struct/token"
	"github.com/emberlang/ember/internal/engine/result"
	"github.com/emberlang/ember/internal/engine/vars"
	"github.com/emberlang/ember/internal/reader/parser"
)

// EvaluateTokens substitutes the count token entries of p starting at first
// and concatenates their values. A Variable entry consumes the entries for
// its name and index. Substitution stops at the first non-Ok result, which
// is returned unchanged. Token classes excluded by flags are left as text.
func (i *interp) EvaluateTokens(p *parser.T, first, count int, flags SubstitutionFlags) result.T {
	var (
		b      strings.Builder
		n      int
		single string
	)

	end := first + count
	if end > len(p.Tokens) {
		end = len(p.Tokens)
	}

	for k := first; k < end; {
		t := &p.Tokens[k]

		var r result.T

		switch t.Class {
		case token.Backslash:
			if flags&SubstBackslashes == 0 {
				r = result.Value(t.Text(p.Text))

				break
			}

			s, _ := parser.Backslash(p.Text[:t.End()], t.Start)
			r = result.Value(s)

		case token.Command:
			if flags&SubstCommands == 0 {
				r = result.Value(t.Text(p.Text))

				break
			}

			if r = i.Ready(); r.Code != result.Ok {
				return r
			}

			line := loc.Line(p.Text, t.Start, p.Source.Line)

			r = i.EvaluateScript(
				p.Source.Name, line, p.Text, t.Start+1, t.Size-1,
				BracketTerminator|NoResetResult,
			)

		case token.Variable:
			if flags&SubstVariables == 0 {
				r = result.Value(t.Text(p.Text))

				break
			}

			if r = i.Ready(); r.Code != result.Ok {
				return r
			}

			r = i.variable(p, k, flags)

		case token.Word, token.SimpleWord, token.ExpandWord:
			r = i.EvaluateTokens(p, k+1, t.Components, flags)

		default:
			r = result.Value(t.Text(p.Text))
		}

		if r.Code != result.Ok {
			return r
		}

		switch n {
		case 0:
			single = r.Value
		case 1:
			b.WriteString(single)
			b.WriteString(r.Value)
		default:
			b.WriteString(r.Value)
		}

		n++

		k += 1 + componentsOf(t)
	}

	if n < 2 {
		return result.Value(single)
	}

	return result.Value(b.String())
}

func componentsOf(t *token.T) int {
	switch t.Class {
	case token.Variable, token.Word, token.SimpleWord, token.ExpandWord:
		return t.Components
	}

	return 0
}

func (i *interp) variable(p *parser.T, k int, flags SubstitutionFlags) result.T {
	t := &p.Tokens[k]

	name := vars.Name{Base: p.Tokens[k+1].Text(p.Text)}

	if t.Components > 1 {
		r := i.EvaluateTokens(p, k+2, t.Components-1, flags)
		if r.Code != result.Ok {
			return r
		}

		name.Index = r.Value
		name.Element = true
	}

	return i.variables.Get(i, name)
}
