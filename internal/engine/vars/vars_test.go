package vars

import (
	"testing"
)

func TestArrays(t *testing.T) {
	v := New()

	if _, err := v.Set(Parse("a(k)"), "x", false); err != nil {
		t.Fatal(err)
	}

	if s, err := v.Get(Name{Base: "a", Index: "k", Element: true}); err != nil || s != "x" {
		t.Fatalf("Get = %q, %v", s, err)
	}

	if _, err := v.Get(Scalar("a")); err == nil || err.Error() != `can't read "a": variable is array` {
		t.Fatalf("unexpected error %v", err)
	}

	if _, err := v.Set(Scalar("a"), "y", false); err == nil {
		t.Fatal("setting an array as a scalar should fail")
	}

	if _, err := v.Get(Parse("a(missing)")); err == nil ||
		err.Error() != `can't read "a(missing)": no such element in array` {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestAppend(t *testing.T) {
	v := New()

	v.Set(Scalar("s"), "a", true)
	v.Set(Scalar("s"), "b", true)

	if s, _ := v.Get(Scalar("s")); s != "ab" {
		t.Fatalf("Get = %q, expected \"ab\"", s)
	}
}

func TestLink(t *testing.T) {
	global := New()
	local := New()

	if err := local.Link("g", global, "g"); err != nil {
		t.Fatal(err)
	}

	if local.Exists(Scalar("g")) {
		t.Fatal("linked variable should not exist before it is set")
	}

	local.Set(Scalar("g"), "1", false)

	if s, err := global.Get(Scalar("g")); err != nil || s != "1" {
		t.Fatalf("Get = %q, %v", s, err)
	}
}

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		in       string
		expected Name
	}{
		{"a", Name{Base: "a"}},
		{"a(b)", Name{Base: "a", Index: "b", Element: true}},
		{"a()", Name{Base: "a", Index: "", Element: true}},
		{"(b)", Name{Base: "(b)"}},
		{"a(b", Name{Base: "a(b"}},
	} {
		if actual := Parse(tc.in); actual != tc.expected {
			t.Errorf("Parse(%q) = %+v, expected %+v", tc.in, actual, tc.expected)
		}
	}
}

func TestUnset(t *testing.T) {
	v := New()

	if err := v.Unset(Scalar("x")); err == nil ||
		err.Error() != `can't unset "x": no such variable` {
		t.Fatalf("unexpected error %v", err)
	}

	v.Set(Scalar("x"), "1", false)

	if err := v.Unset(Scalar("x")); err != nil {
		t.Fatal(err)
	}

	if v.Exists(Scalar("x")) {
		t.Fatal("x should not exist")
	}
}
