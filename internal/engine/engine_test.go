package engine

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emberlang/ember/internal/engine/interp"
	"github.com/emberlang/ember/internal/engine/result"
	"github.com/emberlang/ember/internal/system/settings"
)

func TestArgs(t *testing.T) {
	e, _ := setup(t, nil, "script.tcl", "a", "b c")

	evaluates(t, e, "set argv0", "script.tcl")
	evaluates(t, e, "set argc", "2")
	evaluates(t, e, "lindex $argv 1", "b c")
}

func TestBoot(t *testing.T) {
	e, _ := setup(t, nil)

	evaluates(t, e, "lreverse {a b c}", "c b a")
	evaluates(t, e, "lsearch {a b c} c", "2")
	evaluates(t, e, "lsearch {a b c} z", "-1")
	evaluates(t, e, "lsum {1 2 3}", "6")
	evaluates(t, e, "info exists ember_version", "1")
}

func TestCommands(t *testing.T) {
	e, _ := setup(t, nil)

	got := strings.Join(e.Commands("ls"), " ")
	if got != "lsearch lsum" {
		t.Fatalf("commands %q", got)
	}
}

func TestVariables(t *testing.T) {
	e, _ := setup(t, nil)

	evaluates(t, e, "set argz 1", "1")

	got := strings.Join(e.Variables("arg"), " ")
	if got != "argc argv argv0 argz" {
		t.Fatalf("variables %q", got)
	}
}

func TestErrors(t *testing.T) {
	e, _ := setup(t, nil)

	_, err := e.Evaluate("set a 1\nerror boom")

	var se *result.ScriptError
	if !errors.As(err, &se) {
		t.Fatalf("error %v is not a script error", err)
	}

	if se.Message != "boom" || se.Line != 2 || se.ErrorCode != "NONE" {
		t.Fatalf("script error %+v", se)
	}

	if _, err := e.Evaluate("break"); err == nil || err.Error() != `invoked "break" outside of a loop` {
		t.Fatalf("break: %v", err)
	}

	evaluates(t, e, "return early; set a 2", "early")
	evaluates(t, e, "set a", "1")
}

func TestHaltAndReset(t *testing.T) {
	e, _ := setup(t, nil)

	e.Halt()

	if !e.Halted() {
		t.Fatal("not halted")
	}

	_, err := e.Evaluate("set a 1")
	if !errors.Is(err, interp.ErrHalted) {
		t.Fatalf("halted: %v", err)
	}

	e.Reset()

	evaluates(t, e, "set a 1", "1")
}

func TestOutput(t *testing.T) {
	e, out := setup(t, nil)

	evaluates(t, e, "puts hello", "")

	if out.String() != "hello\n" {
		t.Fatalf("output %q", out.String())
	}
}

func TestPolicy(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "policy.yaml")
	if err := os.WriteFile(path, []byte("deny: [exit]\nmessage: not here\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	s := settings.Default()
	s.Engine.Safe = true
	s.Policy.File = path

	e, _ := setup(t, s)

	r := e.Interp().InvokeHidden([]string{"exit"}, 0)
	if r.Code != result.Error || r.Value != "not here" || !r.Denied {
		t.Fatalf("exit: %v %q", r.Code, r.Value)
	}

	if exited, _ := e.Exited(); exited {
		t.Fatal("exit ran")
	}
}

func TestSafeSettings(t *testing.T) {
	s, err := settings.Parse("[engine]\nsafe = true\nmax_result_length = 8\n")
	if err != nil {
		t.Fatal(err)
	}

	e, _ := setup(t, s)

	if _, err := e.Evaluate("exit"); err == nil {
		t.Fatal("exit is visible in a safe interpreter")
	}

	if _, err := e.Evaluate("string repeat x 9"); err == nil ||
		!strings.Contains(err.Error(), "maximum result length") {
		t.Fatalf("result length: %v", err)
	}
}

func TestSource(t *testing.T) {
	e, _ := setup(t, nil)

	path := filepath.Join(t.TempDir(), "lib.tcl")
	if err := os.WriteFile(path, []byte("proc double {x} {expr {$x * 2}}\ndouble 4\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	value, err := e.Source(path)
	if err != nil || value != "8" {
		t.Fatalf("source: %q %v", value, err)
	}

	value, err = e.Stream("stdin", strings.NewReader("double 5"))
	if err != nil || value != "10" {
		t.Fatalf("stream: %q %v", value, err)
	}

	value, err = e.Substitute("[double 1] and $argc")
	if err != nil || value != "2 and 0" {
		t.Fatalf("subst: %q %v", value, err)
	}
}

func evaluates(t *testing.T, e *T, script, want string) {
	t.Helper()

	got, err := e.Evaluate(script)
	if err != nil {
		t.Fatalf("%q: %v", script, err)
	}

	if got != want {
		t.Fatalf("%q: got %q, want %q", script, got, want)
	}
}

func setup(t *testing.T, s *settings.T, args ...string) (*T, *bytes.Buffer) {
	t.Helper()

	out := &bytes.Buffer{}

	e, err := New(s, Options{
		Args:   args,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Stdout: out,
	})
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(e.Close)

	return e, out
}
