package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestComplete(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"alpha.tcl", "also.tcl", "beta.tcl"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}

	if err := os.Mkdir(filepath.Join(dir, "almanac"), 0o700); err != nil {
		t.Fatal(err)
	}

	prefix := dir + string(os.PathSeparator)

	got := strings.Join(Complete(prefix+"al"), " ")
	want := strings.Join([]string{
		prefix + "almanac" + string(os.PathSeparator),
		prefix + "alpha.tcl",
		prefix + "also.tcl",
	}, " ")

	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestInvalidate(t *testing.T) {
	dir := t.TempDir()
	prefix := dir + string(os.PathSeparator)

	if c := Complete(prefix); len(c) != 0 {
		t.Fatalf("empty directory: %q", c)
	}

	if err := os.WriteFile(filepath.Join(dir, "new.tcl"), nil, 0o600); err != nil {
		t.Fatal(err)
	}

	Invalidate(dir)

	if c := Complete(prefix + "n"); len(c) != 1 {
		t.Fatalf("after invalidate: %q", c)
	}
}
