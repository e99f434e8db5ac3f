package interp

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/emberlang/ember/internal/common/type/list"
	"github.com/emberlang/ember/internal/engine/debug"
	"github.com/emberlang/ember/internal/engine/result"
	"github.com/emberlang/ember/internal/system/policy"
	"github.com/google/uuid"
)

func TestBackslashes(t *testing.T) {
	h := setup(t, "Backslashes", Options{})

	escapes := map[string]string{
		`\a`:         "\a",
		`\b`:         "\b",
		`\f`:         "\f",
		`\n`:         "\n",
		`\r`:         "\r",
		`\t`:         "\t",
		`\v`:         "\v",
		`\\`:         `\`,
		`\$`:         "$",
		`\[`:         "[",
		`\x41`:       "A",
		`\101`:       "A",
		`\u00e9`:     "\u00e9",
		`\U0001F600`: "\U0001F600",
		"a\\\n   b":  "a b",
	}

	for in, out := range escapes {
		h.substitutes(in, out)
	}
}

func TestCallFrameBalance(t *testing.T) {
	h := setup(t, "CallFrameBalance", Options{})

	h.proc("p", "", "set x 1; boom")
	h.proc("q", "", "p")

	before := h.i.Depth()

	for _, script := range []string{
		"set a 1",
		"error oops",
		"boom",
		"q",
		"set a [q]",
		"set a [",
	} {
		h.eval(script)

		if after := h.i.Depth(); after != before {
			h.t.Fatalf("%s: %q: depth %d, want %d", h.label, script, after, before)
		}

		if h.i.Levels() != 0 {
			h.t.Fatalf("%s: %q: levels %d, want 0", h.label, script, h.i.Levels())
		}
	}
}

func TestCancelOneShot(t *testing.T) {
	h := setup(t, "CancelOneShot", Options{})

	h.i.CancelEvaluate(false, "")

	r := h.i.Ready()
	if r.Code != result.Error || !errors.Is(r.Cause, ErrCanceled) {
		h.t.Fatalf("%s: first check: %v %q", h.label, r.Code, r.Value)
	}

	if r.ErrorCode != "TCL CANCEL EVAL" {
		h.t.Fatalf("%s: errorCode %q", h.label, r.ErrorCode)
	}

	if r = h.i.Ready(); r.Code != result.Ok {
		h.t.Fatalf("%s: second check: %v %q", h.label, r.Code, r.Value)
	}
}

func TestCancelFromCommand(t *testing.T) {
	h := setup(t, "CancelFromCommand", Options{})

	h.command("cancel", func(i *T, _ any, args []string) result.T {
		i.CancelEvaluate(len(args) > 1, "stopped")

		return result.T{}
	})

	h.fails("cancel; set x 1", "stopped")
	h.unset("x")

	// Unwinding persists until reset.
	h.fails("cancel -unwind; set y 1", "stopped")
	h.fails("set y 2", "stopped")

	if !h.i.ResetCancel(false) {
		h.t.Fatalf("%s: nothing was reset", h.label)
	}

	h.succeeds("set y 2", "2")
}

func TestDebugger(t *testing.T) {
	var seen []string

	d := debug.New(func(bp debug.Type, name string, args []string, r result.T) result.T {
		seen = append(seen, name)

		if bp == debug.AfterCommand {
			return result.Value("rewritten")
		}

		return r
	})
	d.Enable(debug.AfterCommand, "echo")

	h := setup(t, "Debugger", Options{Debugger: d})

	h.succeeds("echo a", "rewritten")
	h.succeeds("set a b", "b")

	if len(seen) != 1 || seen[0] != "echo" {
		h.t.Fatalf("%s: breakpoints hit for %v", h.label, seen)
	}
}

func TestDepthFirst(t *testing.T) {
	h := setup(t, "DepthFirst", Options{})

	h.substitutes("[note a][note b]", "ab")
	h.order("a", "b")
}

func TestErrorInfo(t *testing.T) {
	h := setup(t, "ErrorInfo", Options{})

	r := h.fails("set a 1\nerror boom", "boom")

	if r.ErrorLine != 2 {
		h.t.Fatalf("%s: error line %d, want 2", h.label, r.ErrorLine)
	}

	h.info(r, "boom\n    while executing\n\"error boom\"")

	if r.ErrorCode != "NONE" {
		h.t.Fatalf("%s: errorCode %q", h.label, r.ErrorCode)
	}

	h.succeeds("set errorCode", "NONE")

	h.proc("p", "", "error boom")

	r = h.fails("p", "boom")
	h.info(r, "boom\n    while executing\n\"error boom\"\n"+
		"    (procedure \"p\" line 1)\n    invoked from within\n\"p\"")

	h.succeeds("set errorInfo", r.ErrorInfo)
}

func TestErrorInfoCommandTruncation(t *testing.T) {
	h := setup(t, "ErrorInfoCommandTruncation", Options{})

	long := "error " + strings.Repeat("x", 200)

	r := h.fails(long, strings.Repeat("x", 200))

	want := "\"" + long[:150] + "...\""
	if !strings.HasSuffix(r.ErrorInfo, want) {
		h.t.Fatalf("%s: errorInfo %q", h.label, r.ErrorInfo)
	}
}

func TestErrorInfoOverflow(t *testing.T) {
	h := setup(t, "ErrorInfoOverflow", Options{MaxLevels: 50})

	h.proc("r", "", "r")

	r := h.fails("r", "too many nested evaluations (infinite loop?)")

	if !errors.Is(r.Cause, ErrStackOverflow) {
		h.t.Fatalf("%s: cause %v", h.label, r.Cause)
	}

	if !strings.Contains(r.ErrorInfo, "\n    ...\n    (stack overflow line ") {
		h.t.Fatalf("%s: no truncation marker in %q", h.label, r.ErrorInfo)
	}

	if strings.Count(r.ErrorInfo, "(procedure \"r\"") > 10 {
		h.t.Fatalf("%s: errorInfo not truncated: %q", h.label, r.ErrorInfo)
	}

	// The trace does not grow with the depth of the recursion.
	deep := setup(t, "ErrorInfoOverflowDeep", Options{MaxLevels: 500})
	deep.proc("r", "", "r")

	d := deep.fails("r", "too many nested evaluations (infinite loop?)")
	if len(d.ErrorInfo) != len(r.ErrorInfo) {
		h.t.Fatalf("%s: errorInfo grew from %d to %d",
			h.label, len(r.ErrorInfo), len(d.ErrorInfo))
	}
}

func TestExceptions(t *testing.T) {
	h := setup(t, "Exceptions", Options{})

	r := h.fails("boom", "caught exception while executing command: boom")

	if !strings.HasPrefix(r.ErrorCode, "EXCEPTION ") {
		h.t.Fatalf("%s: errorCode %q", h.label, r.ErrorCode)
	}

	h.command("raise", func(*T, any, []string) result.T {
		panic(result.Errorf("raised"))
	})

	h.fails("raise", "raised")
}

func TestHaltPersistence(t *testing.T) {
	h := setup(t, "HaltPersistence", Options{})

	h.i.HaltEvaluate("")

	for k := 0; k < 2; k++ {
		r := h.fails("set a 1", "eval halted")
		if !errors.Is(r.Cause, ErrHalted) {
			h.t.Fatalf("%s: cause %v", h.label, r.Cause)
		}
	}

	if err := h.i.ResetHalt(false); err != nil {
		h.t.Fatalf("%s: %v", h.label, err)
	}

	h.succeeds("set a 1", "1")
}

func TestHidden(t *testing.T) {
	h := setup(t, "Hidden", Options{
		Policy: policy.New(policy.Rules{Allow: []string{"echo"}}),
	})

	h.command("secret", func(*T, any, []string) result.T {
		return result.Value("classified")
	})

	if err := h.i.Registry().Hide("echo"); err != nil {
		h.t.Fatal(err)
	}

	if err := h.i.Registry().Hide("secret"); err != nil {
		h.t.Fatal(err)
	}

	h.fails("echo a", `invalid command name "echo"`)

	r := h.i.InvokeHidden([]string{"echo", "a"}, 0)
	if r.Code != result.Ok || r.Value != "a" {
		h.t.Fatalf("%s: invokehidden echo: %v %q", h.label, r.Code, r.Value)
	}

	r = h.i.InvokeHidden([]string{"secret"}, 0)
	if r.Code != result.Error || !r.Denied {
		h.t.Fatalf("%s: invokehidden secret: %v %q", h.label, r.Code, r.Value)
	}
}

func TestLiterals(t *testing.T) {
	h := setup(t, "Literals", Options{})

	for _, s := range []string{
		"",
		"plain text",
		"a {b} c",
		"tabs\tand\nnewlines",
		"unicode: ñ é 日本",
	} {
		h.substitutes(s, s)
	}
}

func TestMaxResultLength(t *testing.T) {
	h := setup(t, "MaxResultLength", Options{MaxResultLength: 5})

	h.command("ten", func(*T, any, []string) result.T {
		return result.Value("0123456789")
	})

	r := h.eval("set a [ten]")
	if r.Code != result.Error || !strings.Contains(r.Value, "maximum result length") {
		h.t.Fatalf("%s: %v %q", h.label, r.Code, r.Value)
	}

	h.succeeds("echo abc", "abc")

	r = h.eval("error abcdefghij")
	if r.Code != result.Error || r.Value != "abcdefghij" {
		h.t.Fatalf("%s: error message replaced: %q", h.label, r.Value)
	}
}

func TestPrefix(t *testing.T) {
	h := setup(t, "Prefix", Options{EngineFlags: UsePrefix})

	h.command("note", func(*T, any, []string) result.T {
		return result.Value("noted")
	})

	h.succeeds("ec hello", "hello")
	h.fails("n x", `ambiguous command name "n": note nothing`)
}

func TestProcedures(t *testing.T) {
	h := setup(t, "Procedures", Options{})

	h.proc("add", "a {b 10}", "return [concat $a $b]")
	h.proc("rest", "first args", "concat $first | $args")

	h.succeeds("add 1", "1 10")
	h.succeeds("add 1 2", "1 2")
	h.succeeds("rest a b c", "a | b c")
	h.fails("add", `wrong # args: should be "add a ?b?"`)
	h.fails("add 1 2 3", `wrong # args: should be "add a ?b?"`)

	if _, err := NewProc("bad", "{}", ""); err == nil {
		h.t.Fatalf("%s: no error for empty parameter name", h.label)
	}
}

func TestReturnOptions(t *testing.T) {
	h := setup(t, "ReturnOptions", Options{})

	h.command("raise", func(i *T, _ any, args []string) result.T {
		i.SetReturnOptions(result.Error, "custom trace", "MY CODE")

		return result.T{Code: result.Return, Value: args[1]}
	})

	h.proc("p", "", "raise failed")

	r := h.fails("p", "failed")
	if r.ErrorCode != "MY CODE" {
		h.t.Fatalf("%s: errorCode %q", h.label, r.ErrorCode)
	}

	if !strings.HasPrefix(r.ErrorInfo, "custom trace") {
		h.t.Fatalf("%s: errorInfo %q", h.label, r.ErrorInfo)
	}
}

func TestShortCircuit(t *testing.T) {
	h := setup(t, "ShortCircuit", Options{})

	h.fails("puts [error boom] [set x 1]", "boom")
	h.unset("x")

	h.fails("puts [note a][error boom][note b]", "boom")
	h.order("a")
}

func TestSubstitution(t *testing.T) {
	h := setup(t, "Substitution", Options{})

	h.succeeds("set array(key) v", "v")
	h.succeeds("set k key", "key")

	h.substitutes("$array(key)", "v")
	h.substitutes("$array($k)", "v")
	h.substitutes("${k}s", "keys")
	h.substitutes("<[echo a b]>", "<a b>")

	r := h.i.SubstituteString("", 1, "$k [echo x] \\t", SubstVariables)
	if r.Code != result.Ok || r.Value != "key [echo x] \\t" {
		h.t.Fatalf("%s: variables only: %q", h.label, r.Value)
	}

	// Break ends substitution early, keeping what came before.
	h.command("stop", func(*T, any, []string) result.T {
		return result.T{Code: result.Break}
	})

	h.substitutes("a [stop] b", "a ")

	// Continue contributes nothing.
	h.command("skip", func(*T, any, []string) result.T {
		return result.T{Code: result.Continue}
	})

	h.substitutes("a [skip] b", "a  b")
}

func TestSubstitutionRecovery(t *testing.T) {
	h := setup(t, "SubstitutionRecovery", Options{})

	r := h.i.SubstituteString("", 1, "a [note x] [echo b", SubstAll)
	if r.Code != result.Error {
		h.t.Fatalf("%s: %v %q", h.label, r.Code, r.Value)
	}

	// The prefix before the syntax error is still substituted.
	h.order("x")
}

func TestUnknown(t *testing.T) {
	h := setup(t, "Unknown", Options{})

	h.fails("nope a b", `invalid command name "nope"`)

	h.command("unknown", func(_ *T, _ any, args []string) result.T {
		return result.Value(list.Merge(args[1:]...))
	})

	h.succeeds("nope a b", "nope a b")

	r := h.i.Invoke([]string{"nope"}, NoUnknown)
	if r.Code != result.Error {
		h.t.Fatalf("%s: fallback used with NoUnknown", h.label)
	}
}

func TestUnusable(t *testing.T) {
	h := setup(t, "Unusable", Options{})

	h.i.Dispose()

	r := h.eval("set a 1")
	if r.Code != result.Error || !errors.Is(r.Cause, ErrUnusable) {
		h.t.Fatalf("%s: %v %q", h.label, r.Code, r.Value)
	}

	if _, err := h.i.EvaluateScriptAsync(context.Background(), "set a 1", 0, nil); err == nil {
		h.t.Fatalf("%s: async evaluation queued", h.label)
	}
}

func TestUnusableAfterDispose(t *testing.T) {
	for _, script := range []string{"die", "p", "set a [die]"} {
		h := setup(t, "UnusableAfterDispose "+script, Options{})

		h.command("die", func(i *T, _ any, _ []string) result.T {
			i.Dispose()

			return result.T{}
		})

		h.proc("p", "", "die")

		r := h.eval(script)
		if r.Code != result.Error || !errors.Is(r.Cause, ErrUnusable) {
			h.t.Fatalf("%s: %v %q", h.label, r.Code, r.Value)
		}

		if v, _ := h.i.GlobalVar("errorInfo"); strings.Contains(v, "unusable") {
			h.t.Fatalf("%s: errorInfo written after dispose: %q", h.label, v)
		}

		if v := h.i.ErrorInfo(); strings.Contains(v, "unusable") {
			h.t.Fatalf("%s: error state written after dispose: %q", h.label, v)
		}
	}
}

func TestAsync(t *testing.T) {
	h := setup(t, "Async", Options{Workers: 2})

	var (
		mu      sync.Mutex
		results = map[uuid.UUID]result.T{}
	)

	cb := func(job uuid.UUID, r result.T) {
		mu.Lock()
		defer mu.Unlock()

		results[job] = r
	}

	ok, err := h.i.EvaluateScriptAsync(context.Background(), "set g 1", 0, cb)
	if err != nil {
		h.t.Fatal(err)
	}

	bad, err := h.i.EvaluateScriptAsync(context.Background(), "error failed", 0, cb)
	if err != nil {
		h.t.Fatal(err)
	}

	sub, err := h.i.SubstituteStringAsync(context.Background(), "<[echo s]>", SubstAll, cb)
	if err != nil {
		h.t.Fatal(err)
	}

	h.i.Wait()

	if r := results[ok]; r.Code != result.Ok || r.Value != "1" {
		h.t.Fatalf("%s: ok job: %v %q", h.label, r.Code, r.Value)
	}

	if r := results[bad]; r.Code != result.Error || r.Value != "failed" {
		h.t.Fatalf("%s: failed job: %v %q", h.label, r.Code, r.Value)
	}

	if r := results[sub]; r.Code != result.Ok || r.Value != "<s>" {
		h.t.Fatalf("%s: subst job: %v %q", h.label, r.Code, r.Value)
	}

	// Threads share global variables.
	h.succeeds("set g", "1")
}

func TestBackgroundError(t *testing.T) {
	h := setup(t, "BackgroundError", Options{})

	var reported []string

	h.command("bgerror", func(_ *T, _ any, args []string) result.T {
		reported = append(reported, args[1])

		return result.T{}
	})

	if _, err := h.i.EvaluateScriptAsync(context.Background(), "error late", 0, nil); err != nil {
		h.t.Fatal(err)
	}

	h.i.Wait()

	// The error is reported at the next readiness check.
	h.succeeds("set a 1", "1")

	if len(reported) != 1 || reported[0] != "late" {
		h.t.Fatalf("%s: reported %v", h.label, reported)
	}
}

type harness struct {
	i     *T
	label string
	notes []string
	out   *bytes.Buffer
	t     *testing.T
}

func setup(t *testing.T, label string, o Options) *harness {
	out := &bytes.Buffer{}

	o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	o.Stdout = out

	h := &harness{i: New(o), label: label, out: out, t: t}

	h.command("boom", func(*T, any, []string) result.T {
		panic(errors.New("boom"))
	})

	h.command("concat", func(_ *T, _ any, args []string) result.T {
		return result.Value(list.Concat(args[1:]...))
	})

	h.command("echo", func(_ *T, _ any, args []string) result.T {
		return result.Value(list.Merge(args[1:]...))
	})

	h.command("error", func(_ *T, _ any, args []string) result.T {
		return result.T{Code: result.Error, Value: args[1]}
	})

	h.command("nothing", func(*T, any, []string) result.T {
		return result.T{}
	})

	h.command("note", func(_ *T, _ any, args []string) result.T {
		h.notes = append(h.notes, args[1])

		return result.Value(args[1])
	})

	h.command("puts", func(i *T, _ any, args []string) result.T {
		_, err := io.WriteString(i.Stdout(), strings.Join(args[1:], " ")+"\n")

		return result.FromError(err)
	})

	h.command("return", func(_ *T, _ any, args []string) result.T {
		return result.T{Code: result.Return, Value: args[1]}
	})

	h.command("set", func(i *T, _ any, args []string) result.T {
		if len(args) == 2 {
			return i.GetVar(args[1])
		}

		return i.SetVar(args[1], args[2])
	})

	return h
}

func (h *harness) command(name string, fn Executor) {
	h.i.Registry().Add(NewCommand(name, true, fn, nil))
}

func (h *harness) eval(script string) result.T {
	return h.i.EvaluateScript("", 1, script, 0, len(script), 0)
}

func (h *harness) fails(script, message string) result.T {
	h.t.Helper()

	r := h.eval(script)
	if r.Code != result.Error || r.Value != message {
		h.t.Fatalf("%s: %q: got %v %q, want error %q",
			h.label, script, r.Code, r.Value, message)
	}

	return r
}

func (h *harness) info(r result.T, want string) {
	h.t.Helper()

	if r.ErrorInfo != want {
		h.t.Fatalf("%s: errorInfo\n%q\nwant\n%q", h.label, r.ErrorInfo, want)
	}
}

func (h *harness) order(want ...string) {
	h.t.Helper()

	if strings.Join(h.notes, " ") != strings.Join(want, " ") {
		h.t.Fatalf("%s: order %v, want %v", h.label, h.notes, want)
	}
}

func (h *harness) proc(name, params, body string) {
	h.t.Helper()

	p, err := NewProc(name, params, body)
	if err != nil {
		h.t.Fatal(err)
	}

	h.i.Registry().Add(p)
}

func (h *harness) substitutes(text, want string) {
	h.t.Helper()

	r := h.i.SubstituteString("", 1, text, SubstAll)
	if r.Code != result.Ok || r.Value != want {
		h.t.Fatalf("%s: subst %q: got %v %q, want %q",
			h.label, text, r.Code, r.Value, want)
	}
}

func (h *harness) succeeds(script, want string) {
	h.t.Helper()

	r := h.eval(script)
	if r.Code != result.Ok || r.Value != want {
		h.t.Fatalf("%s: %q: got %v %q, want %q",
			h.label, script, r.Code, r.Value, want)
	}
}

func (h *harness) unset(name string) {
	h.t.Helper()

	if h.i.VarExists(name) {
		h.t.Fatalf("%s: %s is set", h.label, name)
	}
}
