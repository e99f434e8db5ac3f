package expr

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/emberlang/ember/internal/engine/interp"
	"github.com/emberlang/ember/internal/engine/result"
)

func TestArithmetic(t *testing.T) {
	h := setup(t, "Arithmetic")

	h.evaluates("1 + 2 * 3", "7")
	h.evaluates("(1 + 2) * 3", "9")
	h.evaluates("7 / 2", "3")
	h.evaluates("-7 / 2", "-4")
	h.evaluates("-7 % 2", "1")
	h.evaluates("7.0 / 2", "3.5")
	h.evaluates("2 ** 3 ** 2", "512")
	h.evaluates("-2 ** 2", "4")
	h.evaluates("2 ** -1", "0")
	h.evaluates("0x10 + 1", "17")
	h.evaluates("1 << 4", "16")
	h.evaluates("~0", "-1")
	h.evaluates("1e3", "1000.0")
}

func TestComparison(t *testing.T) {
	h := setup(t, "Comparison")

	h.evaluates("1 < 2", "1")
	h.evaluates("2.0 == 2", "1")
	h.evaluates(`"abc" < "abd"`, "1")
	h.evaluates(`"a" eq "a"`, "1")
	h.evaluates(`"a" ne "a"`, "0")
	h.evaluates(`"b" in {a b c}`, "1")
	h.evaluates(`"d" ni {a b c}`, "1")
}

func TestConditional(t *testing.T) {
	h := setup(t, "Conditional")

	h.evaluates("1 ? 2 : 3", "2")
	h.evaluates("0 ? 2 : 0 ? 3 : 4", "4")
	h.evaluates("true && !false", "1")
}

func TestWordOperators(t *testing.T) {
	h := setup(t, "WordOperators")

	h.evaluates(`"Host" equals "HOST"`, "1")
	h.evaluates(`"www.example.com" contains "example"`, "1")
	h.evaluates(`"/api/v1" starts_with "/api"`, "1")
	h.evaluates(`"/static/a" starts_with "/api"`, "0")
	h.evaluates(`"abc123" matches_regex {^[a-z]+[0-9]+$}`, "1")
	h.evaluates(`1 and 0`, "0")
	h.evaluates(`not 0`, "1")
	h.evaluates(`not (1 == 2)`, "1")
	h.evaluates(`"a" equals "A" and "b" contains "b"`, "1")
	h.evaluates(`1 imp 0`, "0")
	h.evaluates(`0 imp $missing`, "1")
	h.evaluates(`1 || 0 imp 0`, "0")

	h.fails(`"a" matches_regex {(}`, "couldn't compile regular expression pattern: "+
		"error parsing regexp: missing closing ): `(`")

	// The word form of and reads both operands.
	if r := Evaluate(h.i, `1 and $missing`); r.Code != result.Error || !strings.Contains(r.Value, "no such variable") {
		t.Fatalf("and with a missing operand: %v %q", r.Code, r.Value)
	}

	h.fails(`"x" and 1`, `expected boolean value but got "x"`)

	for _, c := range []struct {
		op       string
		args     []string
		expected string
	}{
		{"equals", []string{"GET", "get"}, "1"},
		{"contains", []string{"abc", "d"}, "0"},
		{"imp", []string{"1", "1"}, "1"},
		{"imp", []string{"0", "1"}, "1"},
		{"not", []string{"yes"}, "0"},
	} {
		r := h.i.CallOperator(c.op, c.args)
		if r.Code != result.Ok || r.Value != c.expected {
			t.Fatalf("%s %q = %v %q, expected %q", c.op, c.args, r.Code, r.Value, c.expected)
		}
	}
}

func TestErrors(t *testing.T) {
	h := setup(t, "Errors")

	h.fails("1 +", `syntax error in expression "1 +": premature end of expression`)
	h.fails("foo", `syntax error in expression "foo": invalid bareword "foo"`)
	h.fails("(1", `syntax error in expression "(1": looking for close parenthesis`)
	h.fails("1 / 0", "divide by zero")
	h.fails(`"x" + 1`, `can't use non-numeric string "x" as operand of "+"`)
	h.fails("1.5 % 1", `can't use floating-point value "1.5" as operand of "%"`)
	h.fails("nosuch(1)", `unknown math function "nosuch"`)
	h.fails("abs(1, 2)", `too many arguments for math function "abs"`)

	r := Evaluate(h.i, "1 / 0")
	if r.ErrorCode != "ARITH DIVZERO {divide by zero}" {
		t.Fatalf("errorCode = %q", r.ErrorCode)
	}
}

func TestFunctions(t *testing.T) {
	h := setup(t, "Functions")

	h.evaluates("abs(-3)", "3")
	h.evaluates("int(3.7)", "3")
	h.evaluates("round(2.5)", "3")
	h.evaluates("max(1, 4.5, 2)", "4.5")
	h.evaluates("min(3, 1, 2)", "1")
	h.evaluates("double(1)", "1.0")
	h.evaluates("sqrt(16)", "4.0")
	h.evaluates("bool(yes)", "1")
}

func TestNoFunctions(t *testing.T) {
	i := interp.New(interp.Options{
		ExpressionFlags: interp.ExprNoFunctions,
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	register(i)

	r := Evaluate(i, "abs(1)")
	if r.Code != result.Error || r.Value != "math functions are disabled" {
		t.Fatalf("got %v %q", r.Code, r.Value)
	}
}

func TestOperands(t *testing.T) {
	h := setup(t, "Operands")

	h.i.SetVar("x", "4")
	h.i.SetVar("a(k)", "5")

	h.evaluates("$x * 2", "8")
	h.evaluates("$a(k) + $x", "9")
	h.evaluates(`"$x$x" + 1`, "45")
	h.evaluates("{12} + 1", "13")
}

func TestShortCircuit(t *testing.T) {
	h := setup(t, "ShortCircuit")

	// An unset variable is never read on the branch not taken.
	h.evaluates("0 && $missing", "0")
	h.evaluates("1 || $missing", "1")
	h.evaluates("1 ? 2 : $missing", "2")
}

type harness struct {
	i     *interp.T
	label string
	t     *testing.T
}

func register(i *interp.T) {
	reg := i.Registry()

	for name, fn := range Operators() {
		reg.Add(interp.NewOperator(name, fn))
	}

	for name, fn := range Functions() {
		reg.Add(interp.NewFunction(name, fn))
	}
}

func setup(t *testing.T, label string) *harness {
	i := interp.New(interp.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	register(i)

	return &harness{i: i, label: label, t: t}
}

func (h *harness) evaluates(text, expected string) {
	h.t.Helper()

	r := Evaluate(h.i, text)
	if r.Code != result.Ok {
		h.t.Fatalf("%s: %q failed: %s", h.label, text, r.Value)
	}

	if r.Value != expected {
		h.t.Fatalf("%s: %q = %q, expected %q", h.label, text, r.Value, expected)
	}
}

func (h *harness) fails(text, expected string) {
	h.t.Helper()

	r := Evaluate(h.i, text)
	if r.Code != result.Error {
		h.t.Fatalf("%s: %q did not fail: %q", h.label, text, r.Value)
	}

	if r.Value != expected {
		h.t.Fatalf("%s: %q failed with %q, expected %q", h.label, text, r.Value, expected)
	}
}
