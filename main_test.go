package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emberlang/ember/internal/engine"
)

func TestExamples(t *testing.T) {
	scripts, err := filepath.Glob(filepath.Join("examples", "*.tcl"))
	if err != nil {
		t.Fatal(err)
	}

	if len(scripts) == 0 {
		t.Fatal("no examples")
	}

	for _, script := range scripts {
		t.Run(filepath.Base(script), func(t *testing.T) {
			want, err := os.ReadFile(strings.TrimSuffix(script, ".tcl") + ".out")
			if err != nil {
				t.Fatal(err)
			}

			out := &bytes.Buffer{}

			e, err := engine.New(nil, engine.Options{
				Args:   []string{script},
				Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
				Stdout: out,
			})
			if err != nil {
				t.Fatal(err)
			}

			defer e.Close()

			if _, err := e.Source(script); err != nil {
				t.Fatal(err)
			}

			if out.String() != string(want) {
				t.Fatalf("got:\n%s\nwant:\n%s", out.String(), want)
			}
		})
	}
}
