package history

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"
)

func TestMissing(t *testing.T) {
	called := false

	err := Load(filepath.Join(t.TempDir(), "none"), func(io.Reader) (int, error) {
		called = true

		return 0, nil
	})
	if err != nil || called {
		t.Fatalf("missing history: %v %v", err, called)
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history")

	err := Save(path, func(w io.Writer) (int, error) {
		return io.WriteString(w, "set a 1\nputs $a\n")
	})
	if err != nil {
		t.Fatal(err)
	}

	var b bytes.Buffer

	err = Load(path, func(r io.Reader) (int, error) {
		n, err := b.ReadFrom(r)

		return int(n), err
	})
	if err != nil {
		t.Fatal(err)
	}

	if lines := strings.Split(strings.TrimSpace(b.String()), "\n"); len(lines) != 2 {
		t.Fatalf("history %q", b.String())
	}
}
