package policy

import (
	"testing"
)

func TestCheckCommand(t *testing.T) {
	p, err := Parse([]byte("allow: [\"str*\", info]\ndeny: [string]\n"))
	if err != nil {
		t.Fatal(err)
	}

	for _, tc := range []struct {
		name     string
		expected Decision
	}{
		{"strlen", Approved},
		{"info", Approved},
		{"string", Denied},
		{"exit", Denied},
	} {
		d, msg := p.CheckCommand(tc.name, nil)
		if d != tc.expected {
			t.Errorf("CheckCommand(%q) = %s, expected %s", tc.name, d, tc.expected)
		}

		if d == Denied && msg == "" {
			t.Errorf("CheckCommand(%q) denied without a message", tc.name)
		}
	}
}

func TestMessage(t *testing.T) {
	p := New(Rules{Deny: []string{"*"}, Message: "no"})

	if d, msg := p.CheckCommand("x", nil); d != Denied || msg != "no" {
		t.Fatalf("CheckCommand = %s %q", d, msg)
	}
}

func TestNilPolicy(t *testing.T) {
	var p *T

	if d, _ := p.CheckCommand("x", nil); d != Approved {
		t.Fatalf("nil policy should approve, got %s", d)
	}
}

func TestParseError(t *testing.T) {
	if _, err := Parse([]byte("allow: [")); err == nil {
		t.Fatal("expected a YAML error")
	}
}
