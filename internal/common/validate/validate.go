// Released under an MIT license. See LICENSE.

// Package validate checks the words passed to built-in commands. Failures
// panic with an Error result that the entity dispatcher recovers.
package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/emberlang/ember/internal/engine/result"
)

// Count returns n followed by label, pluralized with p when n is not 1.
func Count(n int, label string, p string) string {
	if n == 1 {
		p = ""
	}

	return fmt.Sprintf("%d %s%s", n, label, p)
}

// Fixed returns the words after the command name when there are at least
// min and at most max of them. A negative max means no limit. Otherwise it
// panics with the usage message for args[0].
func Fixed(args []string, min, max int, usage string) []string {
	n := len(args) - 1
	if n < min || (max >= 0 && n > max) {
		panic(WrongArgs(args[0], usage))
	}

	return args[1:]
}

// Integer parses s as a Tcl integer or panics.
func Integer(s string) int64 {
	n, err := ParseInteger(s)
	if err != nil {
		panic(result.FromError(err))
	}

	return n
}

// Index parses a list or string index: an integer, "end" or "end-N".
func Index(s string, length int) int {
	t := strings.TrimSpace(s)

	if rest, ok := strings.CutPrefix(t, "end"); ok {
		if rest == "" {
			return length - 1
		}

		if n, err := strconv.Atoi(rest); err == nil && (rest[0] == '-' || rest[0] == '+') {
			return length - 1 + n
		}
	} else if n, err := ParseInteger(t); err == nil {
		return int(n)
	}

	panic(result.Errorf(
		"bad index \"%s\": must be integer?[+-]integer? or end?[+-]integer?", s,
	))
}

// ParseInteger parses s as a decimal, hexadecimal (0x), octal (0o) or binary
// (0b) integer with an optional sign and surrounding white space.
func ParseInteger(s string) (int64, error) {
	t := strings.TrimSpace(s)

	n, err := strconv.ParseInt(t, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("expected integer but got \"%s\"", s)
	}

	return n, nil
}

// WrongArgs returns the standard wrong number of arguments error.
func WrongArgs(name, usage string) result.T {
	if usage != "" {
		name += " " + usage
	}

	return result.Errorf("wrong # args: should be \"%s\"", name)
}
