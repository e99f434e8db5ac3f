// Released under an MIT license. See LICENSE.

// Package expr evaluates ember's infix expressions. Operands are substituted
// by the interpreter's token evaluator. Operators and math functions are
// entities executed through the interpreter's dispatcher, so they can be
// replaced, hidden or traced like any other command. The logical operators,
// implication and the conditional operator short-circuit. The word form and
// evaluates both operands.
package expr

import (
	"github.com/emberlang/ember/internal/engine/interp"
	"github.com/emberlang/ember/internal/engine/result"
	"github.com/emberlang/ember/internal/reader/parser"
)

// Node is a compiled expression.
type Node interface {
	Evaluate(i *interp.T) result.T
}

// Evaluate compiles and evaluates text in i.
func Evaluate(i *interp.T, text string) result.T {
	n, err := Parse(text, i.ExpressionFlags()&interp.ExprNoCommands == 0)
	if err != nil {
		return result.FromError(err)
	}

	return n.Evaluate(i)
}

// Truth evaluates text and converts the result to a boolean.
func Truth(i *interp.T, text string) (bool, result.T) {
	r := Evaluate(i, text)
	if r.Code != result.Ok {
		return false, r
	}

	b, err := Bool(r.Value)
	if err != nil {
		return false, result.FromError(err)
	}

	return b, r
}

type binary struct {
	op          string
	left, right Node
}

func (n *binary) Evaluate(i *interp.T) result.T {
	l := n.left.Evaluate(i)
	if l.Code != result.Ok {
		return l
	}

	r := n.right.Evaluate(i)
	if r.Code != result.Ok {
		return r
	}

	return i.CallOperator(n.op, []string{l.Value, r.Value})
}

type call struct {
	args []Node
	name string
}

func (n *call) Evaluate(i *interp.T) result.T {
	if i.ExpressionFlags()&interp.ExprNoFunctions != 0 {
		return result.Errorf("math functions are disabled")
	}

	args := make([]string, 0, len(n.args))

	for _, a := range n.args {
		r := a.Evaluate(i)
		if r.Code != result.Ok {
			return r
		}

		args = append(args, r.Value)
	}

	return i.CallFunction(n.name, args)
}

type conditional struct {
	cond, then, otherwise Node
}

func (n *conditional) Evaluate(i *interp.T) result.T {
	b, r := truth(i, n.cond)
	if r.Code != result.Ok {
		return r
	}

	if b {
		return n.then.Evaluate(i)
	}

	return n.otherwise.Evaluate(i)
}

type literal struct {
	value string
}

func (n *literal) Evaluate(_ *interp.T) result.T {
	if v, ok := ParseNumber(n.value); ok {
		return result.Value(v.String())
	}

	return result.Value(n.value)
}

type logical struct {
	op          string
	left, right Node
}

func (n *logical) Evaluate(i *interp.T) result.T {
	b, r := truth(i, n.left)
	if r.Code != result.Ok {
		return r
	}

	switch {
	case n.op == "imp" && !b:
		return result.Value("1")
	case n.op != "imp" && b == (n.op == "||"):
		return result.Value(boolean(b))
	}

	b, r = truth(i, n.right)
	if r.Code != result.Ok {
		return r
	}

	return result.Value(boolean(b))
}

type substitution struct {
	p     *parser.T
	first int
	count int
}

func (n *substitution) Evaluate(i *interp.T) result.T {
	return i.EvaluateTokens(n.p, n.first, n.count, interp.SubstAll)
}

type unary struct {
	op string
	x  Node
}

func (n *unary) Evaluate(i *interp.T) result.T {
	x := n.x.Evaluate(i)
	if x.Code != result.Ok {
		return x
	}

	return i.CallOperator(n.op, []string{x.Value})
}

func truth(i *interp.T, n Node) (bool, result.T) {
	r := n.Evaluate(i)
	if r.Code != result.Ok {
		return false, r
	}

	b, err := Bool(r.Value)
	if err != nil {
		return false, result.FromError(err)
	}

	return b, result.T{}
}
