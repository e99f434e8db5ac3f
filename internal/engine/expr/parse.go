// Released under an MIT license. See LICENSE.

package expr

import (
	"fmt"
	"strings"

	"github.com/emberlang/ember/internal/reader/parser"
)

// Binary operator precedence. Higher binds tighter.
var precedence = map[string]int{
	"imp": 1,
	"||":  2,
	"&&":  3, "and": 3,
	"|":  4,
	"^":  5,
	"&":  6,
	"in": 7, "ni": 7,
	"eq": 8, "ne": 8,
	"equals": 8, "contains": 8, "starts_with": 8, "matches_regex": 8,
	"==": 9, "!=": 9,
	"<": 10, "<=": 10, ">": 10, ">=": 10,
	"<<": 11, ">>": 11,
	"+": 12, "-": 12,
	"*": 13, "/": 13, "%": 13,
}

// Operators that are scanned before their single-character prefixes.
var symbols = []string{
	"**", "<<", ">>", "<=", ">=", "==", "!=", "&&", "||",
	"+", "-", "*", "/", "%", "<", ">", "&", "|", "^", "!", "~",
	"?", ":", "(", ")", ",",
}

type kind int

const (
	end kind = iota
	number
	operand
	symbol
	word
)

type lexeme struct {
	kind  kind
	text  string
	at    int
	first int // First parser token of an operand.
	count int // Parser tokens in an operand.
}

// The type compiler turns expression text into a tree of nodes.
type compiler struct {
	commands bool
	p        *parser.T
	pos      int
	peeked   *lexeme
}

// Parse compiles the expression text. When commands is false, command
// substitution is a syntax error.
func Parse(text string, commands bool) (Node, error) {
	c := &compiler{commands: commands, p: parser.New("", 1, text)}

	n, err := c.ternary()
	if err != nil {
		return nil, c.syntax(err)
	}

	l, err := c.next()
	if err != nil {
		return nil, c.syntax(err)
	}

	if l.kind != end {
		return nil, c.syntax(fmt.Errorf("extra tokens at end of expression"))
	}

	return n, nil
}

func (c *compiler) binary(min int) (Node, error) {
	left, err := c.power()
	if err != nil {
		return nil, err
	}

	for {
		l, err := c.peek()
		if err != nil {
			return nil, err
		}

		prec, ok := precedence[l.text]
		if !ok || (l.kind != symbol && l.kind != word) || prec < min {
			return left, nil
		}

		c.peeked = nil

		right, err := c.binary(prec + 1)
		if err != nil {
			return nil, err
		}

		switch l.text {
		case "&&", "||", "imp":
			left = &logical{op: l.text, left: left, right: right}
		default:
			left = &binary{op: l.text, left: left, right: right}
		}
	}
}

func (c *compiler) call(name string) (Node, error) {
	f := &call{name: name}

	l, err := c.peek()
	if err != nil {
		return nil, err
	}

	if l.text == ")" {
		c.peeked = nil

		return f, nil
	}

	for {
		arg, err := c.ternary()
		if err != nil {
			return nil, err
		}

		f.args = append(f.args, arg)

		l, err := c.next()
		if err != nil {
			return nil, err
		}

		switch l.text {
		case ")":
			return f, nil
		case ",":
		default:
			return nil, fmt.Errorf("missing close parenthesis at end of function call")
		}
	}
}

func (c *compiler) next() (lexeme, error) {
	if c.peeked != nil {
		l := *c.peeked
		c.peeked = nil

		return l, nil
	}

	return c.scan()
}

func (c *compiler) peek() (lexeme, error) {
	if c.peeked == nil {
		l, err := c.scan()
		if err != nil {
			return l, err
		}

		c.peeked = &l
	}

	return *c.peeked, nil
}

// power parses exponentiation, which is right associative and binds less
// tightly than the unary operators.
func (c *compiler) power() (Node, error) {
	x, err := c.unary()
	if err != nil {
		return nil, err
	}

	l, err := c.peek()
	if err != nil {
		return nil, err
	}

	if l.kind != symbol || l.text != "**" {
		return x, nil
	}

	c.peeked = nil

	y, err := c.power()
	if err != nil {
		return nil, err
	}

	return &binary{op: "**", left: x, right: y}, nil
}

func (c *compiler) primary() (Node, error) {
	l, err := c.next()
	if err != nil {
		return nil, err
	}

	switch l.kind {
	case end:
		return nil, fmt.Errorf("premature end of expression")

	case number:
		return &literal{value: l.text}, nil

	case operand:
		return &substitution{p: c.p, first: l.first, count: l.count}, nil

	case word:
		switch strings.ToLower(l.text) {
		case "true", "false", "yes", "no", "on", "off", "inf", "nan":
			return &literal{value: l.text}, nil
		}

		p, err := c.next()
		if err != nil {
			return nil, err
		}

		if p.text != "(" {
			return nil, fmt.Errorf("invalid bareword \"%s\"", l.text)
		}

		return c.call(l.text)

	case symbol:
		if l.text == "(" {
			n, err := c.ternary()
			if err != nil {
				return nil, err
			}

			r, err := c.next()
			if err != nil {
				return nil, err
			}

			if r.text != ")" {
				return nil, fmt.Errorf("looking for close parenthesis")
			}

			return n, nil
		}
	}

	return nil, fmt.Errorf("unexpected operator %s", l.text)
}

func (c *compiler) scan() (lexeme, error) {
	text := c.p.Text

	for c.pos < len(text) && strings.ContainsRune(" \t\n\r\v\f", rune(text[c.pos])) {
		c.pos++
	}

	at := c.pos
	if at >= len(text) {
		return lexeme{kind: end, at: at}, nil
	}

	ch := text[at]

	switch {
	case ch >= '0' && ch <= '9' || ch == '.' && at+1 < len(text) && isDigit(text[at+1]):
		return c.number(at), nil

	case ch == '$' || ch == '[' || ch == '"' || ch == '{':
		return c.operand(at)

	case isAlpha(ch):
		i := at
		for i < len(text) && (isAlpha(text[i]) || isDigit(text[i])) {
			i++
		}

		c.pos = i

		return lexeme{kind: word, text: text[at:i], at: at}, nil
	}

	for _, s := range symbols {
		if strings.HasPrefix(text[at:], s) {
			c.pos += len(s)

			return lexeme{kind: symbol, text: s, at: at}, nil
		}
	}

	return lexeme{}, fmt.Errorf("character not legal in expressions")
}

func (c *compiler) number(at int) lexeme {
	text := c.p.Text

	i := at
	if strings.HasPrefix(text[i:], "0x") || strings.HasPrefix(text[i:], "0X") ||
		strings.HasPrefix(text[i:], "0b") || strings.HasPrefix(text[i:], "0o") {
		i += 2
		for i < len(text) && isHex(text[i]) {
			i++
		}
	} else {
		for i < len(text) && isDigit(text[i]) {
			i++
		}

		if i < len(text) && text[i] == '.' {
			i++
			for i < len(text) && isDigit(text[i]) {
				i++
			}
		}

		if i < len(text) && (text[i] == 'e' || text[i] == 'E') {
			j := i + 1
			if j < len(text) && (text[j] == '+' || text[j] == '-') {
				j++
			}

			if j < len(text) && isDigit(text[j]) {
				for i = j; i < len(text) && isDigit(text[i]); i++ {
				}
			}
		}
	}

	c.pos = i

	return lexeme{kind: number, text: text[at:i], at: at}
}

func (c *compiler) operand(at int) (lexeme, error) {
	p := c.p
	first := len(p.Tokens)

	var (
		err  error
		next int
	)

	switch p.Text[at] {
	case '$':
		next, err = p.ParseVarName(at, len(p.Text))
	case '[':
		if !c.commands {
			return lexeme{}, fmt.Errorf("command substitution is disabled")
		}

		next, err = p.ParseBracket(at, len(p.Text))
	case '"':
		next, err = p.ParseQuoted(at, len(p.Text))
	case '{':
		next, err = p.ParseBraces(at, len(p.Text))
	}

	if err != nil {
		return lexeme{}, err
	}

	c.pos = next

	return lexeme{
		kind:  operand,
		text:  p.Text[at:next],
		at:    at,
		first: first,
		count: len(p.Tokens) - first,
	}, nil
}

func (c *compiler) syntax(err error) error {
	return fmt.Errorf("syntax error in expression \"%s\": %w", c.p.Text, err)
}

func (c *compiler) ternary() (Node, error) {
	cond, err := c.binary(1)
	if err != nil {
		return nil, err
	}

	l, err := c.peek()
	if err != nil {
		return nil, err
	}

	if l.text != "?" || l.kind != symbol {
		return cond, nil
	}

	c.peeked = nil

	then, err := c.ternary()
	if err != nil {
		return nil, err
	}

	colon, err := c.next()
	if err != nil {
		return nil, err
	}

	if colon.text != ":" {
		return nil, fmt.Errorf("missing operator \":\"")
	}

	otherwise, err := c.ternary()
	if err != nil {
		return nil, err
	}

	return &conditional{cond: cond, then: then, otherwise: otherwise}, nil
}

func (c *compiler) unary() (Node, error) {
	l, err := c.peek()
	if err != nil {
		return nil, err
	}

	if l.kind == symbol {
		switch l.text {
		case "-", "+", "!", "~":
			c.peeked = nil

			x, err := c.unary()
			if err != nil {
				return nil, err
			}

			return &unary{op: l.text, x: x}, nil
		}
	}

	if l.kind == word && l.text == "not" {
		c.peeked = nil

		x, err := c.unary()
		if err != nil {
			return nil, err
		}

		return &unary{op: l.text, x: x}, nil
	}

	return c.primary()
}

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHex(c byte) bool {
	return isDigit(c) || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F' || c == '_'
}
