package debug

import (
	"testing"

	"github.com/emberlang/ember/internal/engine/result"
)

func TestCheckBreakpoints(t *testing.T) {
	d := New(func(bp Type, name string, args []string, r result.T) result.T {
		return result.Errorf("stopped at %s", name)
	})

	if d.CanHitBreakpoints(BeforeCommand) {
		t.Fatal("no breakpoints are enabled")
	}

	d.Enable(BeforeCommand, "s*")

	if !d.CanHitBreakpoints(BeforeCommand | AfterCommand) {
		t.Fatal("BeforeCommand is enabled")
	}

	r := d.CheckBreakpoints(BeforeCommand, "puts", nil, result.Value("x"))
	if r.Code != result.Ok || r.Value != "x" {
		t.Fatalf("puts should not match: %+v", r)
	}

	r = d.CheckBreakpoints(BeforeCommand, "set", nil, result.Value("x"))
	if r.Code != result.Error || r.Value != "stopped at set" {
		t.Fatalf("set should match: %+v", r)
	}

	if d.Hits() != 1 {
		t.Fatalf("Hits = %d, expected 1", d.Hits())
	}

	d.Disable(All)

	if d.CanHitBreakpoints(All) {
		t.Fatal("all breakpoints are disabled")
	}
}
