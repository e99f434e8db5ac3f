package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fake struct{}

func (fake) Commands(prefix string) []string {
	return filter([]string{"puts", "proc", "set"}, prefix)
}

func (fake) Evaluate(text string) (string, error) {
	return text, nil
}

func (fake) Exited() (bool, int) {
	return false, 0
}

func (fake) Halted() bool {
	return false
}

func (fake) Reset() {}

func (fake) Variables(prefix string) []string {
	return filter([]string{"argc", "argv", "env"}, prefix)
}

func TestCompleteCommands(t *testing.T) {
	completes(t, "p", "", "puts |proc ")
	completes(t, "set a [p", "set a [", "puts |proc ")
	completes(t, "set a 1; s", "set a 1; ", "set ")
}

func TestCompleteFiles(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "lib.tcl"), nil, 0o600); err != nil {
		t.Fatal(err)
	}

	prefix := dir + string(os.PathSeparator)

	completes(t, "source "+prefix+"l", "source ", prefix+"lib.tcl")
}

func TestCompleteVariables(t *testing.T) {
	completes(t, "puts $ar", "puts ", "$argc|$argv")
}

func completes(t *testing.T, line, head, want string) {
	t.Helper()

	h, c, tail := complete(fake{}, line+"tail", len(line))
	if h != head || tail != "tail" {
		t.Fatalf("%q: head %q tail %q", line, h, tail)
	}

	if got := strings.Join(c, "|"); got != want {
		t.Fatalf("%q: got %q, want %q", line, got, want)
	}
}

func filter(names []string, prefix string) []string {
	var matched []string

	for _, name := range names {
		if strings.HasPrefix(name, prefix) {
			matched = append(matched, name)
		}
	}

	return matched
}
