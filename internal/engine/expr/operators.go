// Released under an MIT license. See LICENSE.

package expr

import (
	"math"
	"regexp"
	"strings"

	"github.com/emberlang/ember/internal/common/type/list"
	"github.com/emberlang/ember/internal/engine/interp"
	"github.com/emberlang/ember/internal/engine/result"
)

// Operators returns the operator implementations by name. Operators that
// are both unary and binary check the number of operands.
func Operators() map[string]interp.Executor {
	return map[string]interp.Executor{
		"!":             not,
		"!=":            compare(func(c int) bool { return c != 0 }),
		"%":             integral(remainder),
		"&":             integral(func(a, b int64) (int64, error) { return a & b, nil }),
		"*":             arithmetic(mul),
		"**":            power,
		"+":             plus,
		"-":             minus,
		"/":             arithmetic(quo),
		"<":             compare(func(c int) bool { return c < 0 }),
		"<<":            integral(func(a, b int64) (int64, error) { return a << uint64(b&63), nil }),
		"<=":            compare(func(c int) bool { return c <= 0 }),
		"==":            compare(func(c int) bool { return c == 0 }),
		">":             compare(func(c int) bool { return c > 0 }),
		">=":            compare(func(c int) bool { return c >= 0 }),
		">>":            integral(func(a, b int64) (int64, error) { return a >> uint64(b&63), nil }),
		"^":             integral(func(a, b int64) (int64, error) { return a ^ b, nil }),
		"and":           logic(func(a, b bool) bool { return a && b }),
		"contains":      text(strings.Contains),
		"eq":            text(func(a, b string) bool { return a == b }),
		"equals":        text(strings.EqualFold),
		"imp":           logic(func(a, b bool) bool { return !a || b }),
		"in":            membership(true),
		"matches_regex": matches,
		"ne":            text(func(a, b string) bool { return a != b }),
		"ni":            membership(false),
		"not":           not,
		"starts_with":   text(strings.HasPrefix),
		"|":             integral(func(a, b int64) (int64, error) { return a | b, nil }),
		"~":             complement,
	}
}

type errorCode struct {
	code, message string
}

func (e *errorCode) Error() string {
	return e.message
}

var errDivideByZero = &errorCode{
	code:    "ARITH DIVZERO {divide by zero}",
	message: "divide by zero",
}

func arithmetic(op func(a, b Number) (Number, error)) interp.Executor {
	return func(_ *interp.T, _ any, args []string) result.T {
		a, b, r := operands(args)
		if r.Code != result.Ok {
			return r
		}

		n, err := op(a, b)
		if err != nil {
			return failure(err)
		}

		return result.Value(n.String())
	}
}

func compare(test func(c int) bool) interp.Executor {
	return func(_ *interp.T, _ any, args []string) result.T {
		a, aok := ParseNumber(args[1])
		b, bok := ParseNumber(args[2])

		var c int

		switch {
		case !aok || !bok:
			c = strings.Compare(args[1], args[2])
		case a.IsFloat || b.IsFloat:
			x, y := a.AsFloat(), b.AsFloat()
			c = cmp(x < y, x > y)
		default:
			c = cmp(a.Int < b.Int, a.Int > b.Int)
		}

		return result.Value(boolean(test(c)))
	}
}

func cmp(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	}

	return 0
}

func complement(_ *interp.T, _ any, args []string) result.T {
	n, r := integer(args[0], args[1])
	if r.Code != result.Ok {
		return r
	}

	return result.Value(Int(^n).String())
}

func failure(err error) result.T {
	r := result.FromError(err)

	if e, ok := err.(*errorCode); ok {
		r.ErrorCode = e.code
	}

	return r
}

func integer(op, s string) (int64, result.T) {
	n, ok := ParseNumber(s)
	if !ok {
		return 0, nonNumeric(op, s)
	}

	if n.IsFloat {
		return 0, result.Errorf(
			"can't use floating-point value \"%s\" as operand of \"%s\"", s, op,
		)
	}

	return n.Int, result.T{}
}

func integral(op func(a, b int64) (int64, error)) interp.Executor {
	return func(_ *interp.T, _ any, args []string) result.T {
		if len(args) != 3 {
			return result.Errorf("wrong # operands for \"%s\"", args[0])
		}

		a, r := integer(args[0], args[1])
		if r.Code != result.Ok {
			return r
		}

		b, r := integer(args[0], args[2])
		if r.Code != result.Ok {
			return r
		}

		n, err := op(a, b)
		if err != nil {
			return failure(err)
		}

		return result.Value(Int(n).String())
	}
}

// logic applies a boolean operator to operands that have both been
// evaluated.
func logic(op func(a, b bool) bool) interp.Executor {
	return func(_ *interp.T, _ any, args []string) result.T {
		if len(args) != 3 {
			return result.Errorf("wrong # operands for \"%s\"", args[0])
		}

		a, err := Bool(args[1])
		if err != nil {
			return result.FromError(err)
		}

		b, err := Bool(args[2])
		if err != nil {
			return result.FromError(err)
		}

		return result.Value(boolean(op(a, b)))
	}
}

func matches(_ *interp.T, _ any, args []string) result.T {
	if len(args) != 3 {
		return result.Errorf("wrong # operands for \"%s\"", args[0])
	}

	re, err := regexp.Compile(args[2])
	if err != nil {
		return result.Errorf("couldn't compile regular expression pattern: %v", err)
	}

	return result.Value(boolean(re.MatchString(args[1])))
}

func membership(in bool) interp.Executor {
	return func(_ *interp.T, _ any, args []string) result.T {
		l, err := list.Split(args[2])
		if err != nil {
			return result.FromError(err)
		}

		found := false

		for _, e := range l {
			if e == args[1] {
				found = true

				break
			}
		}

		return result.Value(boolean(found == in))
	}
}

func minus(_ *interp.T, _ any, args []string) result.T {
	if len(args) == 2 {
		n, ok := ParseNumber(args[1])
		if !ok {
			return nonNumeric("-", args[1])
		}

		if n.IsFloat {
			return result.Value(Float(-n.Float).String())
		}

		return result.Value(Int(-n.Int).String())
	}

	return arithmetic(func(a, b Number) (Number, error) {
		if a.IsFloat || b.IsFloat {
			return Float(a.AsFloat() - b.AsFloat()), nil
		}

		return Int(a.Int - b.Int), nil
	})(nil, nil, args)
}

func mul(a, b Number) (Number, error) {
	if a.IsFloat || b.IsFloat {
		return Float(a.AsFloat() * b.AsFloat()), nil
	}

	return Int(a.Int * b.Int), nil
}

func nonNumeric(op, s string) result.T {
	return result.Errorf(
		"can't use non-numeric string \"%s\" as operand of \"%s\"", s, op,
	)
}

func not(_ *interp.T, _ any, args []string) result.T {
	if len(args) != 2 {
		return result.Errorf("wrong # operands for \"%s\"", args[0])
	}

	b, err := Bool(args[1])
	if err != nil {
		return nonNumeric(args[0], args[1])
	}

	return result.Value(boolean(!b))
}

func operands(args []string) (Number, Number, result.T) {
	if len(args) != 3 {
		return Number{}, Number{}, result.Errorf("wrong # operands for \"%s\"", args[0])
	}

	a, ok := ParseNumber(args[1])
	if !ok {
		return a, a, nonNumeric(args[0], args[1])
	}

	b, ok := ParseNumber(args[2])
	if !ok {
		return a, b, nonNumeric(args[0], args[2])
	}

	return a, b, result.T{}
}

func plus(_ *interp.T, _ any, args []string) result.T {
	if len(args) == 2 {
		n, ok := ParseNumber(args[1])
		if !ok {
			return nonNumeric("+", args[1])
		}

		return result.Value(n.String())
	}

	return arithmetic(func(a, b Number) (Number, error) {
		if a.IsFloat || b.IsFloat {
			return Float(a.AsFloat() + b.AsFloat()), nil
		}

		return Int(a.Int + b.Int), nil
	})(nil, nil, args)
}

func power(_ *interp.T, _ any, args []string) result.T {
	a, b, r := operands(args)
	if r.Code != result.Ok {
		return r
	}

	if a.IsFloat || b.IsFloat {
		return result.Value(Float(math.Pow(a.AsFloat(), b.AsFloat())).String())
	}

	if b.Int < 0 {
		switch a.Int {
		case 0:
			return result.Errorf("exponentiation of zero by negative power")
		case 1:
			return result.Value("1")
		case -1:
			if b.Int%2 == 0 {
				return result.Value("1")
			}

			return result.Value("-1")
		}

		return result.Value("0")
	}

	n := int64(1)
	for base, exp := a.Int, b.Int; exp > 0; exp >>= 1 {
		if exp&1 == 1 {
			n *= base
		}

		base *= base
	}

	return result.Value(Int(n).String())
}

func quo(a, b Number) (Number, error) {
	if a.IsFloat || b.IsFloat {
		return Float(a.AsFloat() / b.AsFloat()), nil
	}

	if b.Int == 0 {
		return Number{}, errDivideByZero
	}

	q := a.Int / b.Int
	if (a.Int%b.Int != 0) && ((a.Int < 0) != (b.Int < 0)) {
		q--
	}

	return Int(q), nil
}

// text compares operands as strings.
func text(test func(a, b string) bool) interp.Executor {
	return func(_ *interp.T, _ any, args []string) result.T {
		if len(args) != 3 {
			return result.Errorf("wrong # operands for \"%s\"", args[0])
		}

		return result.Value(boolean(test(args[1], args[2])))
	}
}

func remainder(a, b int64) (int64, error) {
	if b == 0 {
		return 0, errDivideByZero
	}

	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}

	return m, nil
}
