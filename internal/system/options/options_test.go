package options

import (
	"strings"
	"testing"

	"github.com/docopt/docopt-go"
)

func TestCommand(t *testing.T) {
	parsed(t, false, "-c", "puts hi", "name", "a")

	if Command() != "puts hi" || Script() != "" || Interactive() || Stdin() {
		t.Fatalf("command %q script %q", Command(), Script())
	}

	if strings.Join(Args(), ",") != "name,a" {
		t.Fatalf("args %q", Args())
	}
}

func TestInteractive(t *testing.T) {
	parsed(t, true)

	if !Interactive() || Stdin() {
		t.Fatal("expected interactive mode")
	}

	if strings.Join(Args(), ",") != "ember" {
		t.Fatalf("args %q", Args())
	}

	parsed(t, false)

	if Interactive() || !Stdin() {
		t.Fatal("expected stdin mode")
	}
}

func TestScript(t *testing.T) {
	parsed(t, true, "-g", "--config=ember.toml", "--policy=p.yaml", "run.tcl", "x", "y")

	if Script() != "run.tcl" || Interactive() {
		t.Fatalf("script %q", Script())
	}

	if !Global() || Debug() || Config() != "ember.toml" || Policy() != "p.yaml" {
		t.Fatalf("global %v config %q policy %q", Global(), Config(), Policy())
	}

	if strings.Join(Args(), ",") != "run.tcl,x,y" {
		t.Fatalf("args %q", Args())
	}
}

func parsed(t *testing.T, terminal bool, argv ...string) {
	t.Helper()

	p := &docopt.Parser{HelpHandler: docopt.NoHelpHandler}

	// docopt substitutes os.Args[1:] for a nil argv.
	if argv == nil {
		argv = []string{}
	}

	opts, err := p.ParseArgs(usage, argv, version)
	if err != nil {
		t.Fatalf("%q: %v", argv, err)
	}

	parse(opts, "ember", terminal)
}
