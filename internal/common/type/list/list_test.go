package list

import (
	"testing"
)

func TestRoundTrip(t *testing.T) {
	for _, elements := range [][]string{
		{"a", "b", "c"},
		{"", "x"},
		{"a b", "{c}", "d"},
		{"unbalanced {", "$x", "[y]"},
		{"line\nbreak", "tab\there"},
		{"#comment", `"quoted"`},
		{`trailing\`},
	} {
		l := Merge(elements...)

		actual, err := Split(l)
		if err != nil {
			t.Fatalf("Split(%q): %v", l, err)
		}

		if len(actual) != len(elements) {
			t.Fatalf("Split(%q) = %q, expected %q", l, actual, elements)
		}

		for i := range elements {
			if actual[i] != elements[i] {
				t.Fatalf("Split(%q) = %q, expected %q", l, actual, elements)
			}
		}
	}
}

func TestSplit(t *testing.T) {
	for _, tc := range []struct {
		in       string
		expected []string
	}{
		{"", nil},
		{"  a  b ", []string{"a", "b"}},
		{"{a {b c}} d", []string{"a {b c}", "d"}},
		{`"a b" c\ d`, []string{"a b", "c d"}},
	} {
		actual, err := Split(tc.in)
		if err != nil {
			t.Fatalf("Split(%q): %v", tc.in, err)
		}

		if len(actual) != len(tc.expected) {
			t.Fatalf("Split(%q) = %q, expected %q", tc.in, actual, tc.expected)
		}

		for i := range actual {
			if actual[i] != tc.expected[i] {
				t.Fatalf("Split(%q) = %q, expected %q", tc.in, actual, tc.expected)
			}
		}
	}
}

func TestSplitErrors(t *testing.T) {
	for _, in := range []string{"{a", `"a`, "{a}b", `"a"b`} {
		if _, err := Split(in); err == nil {
			t.Errorf("Split(%q) should fail", in)
		}
	}
}

func TestConcat(t *testing.T) {
	if actual := Concat(" a ", "", "b c "); actual != "a b c" {
		t.Fatalf("Concat = %q", actual)
	}
}
