// Released under an MIT license. See LICENSE.

package commands

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/emberlang/ember/internal/common/validate"
	"github.com/emberlang/ember/internal/engine/interp"
	"github.com/emberlang/ember/internal/engine/result"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// StringCommands returns the sub-commands of the string command.
func StringCommands() map[string]interp.Executor {
	return map[string]interp.Executor{
		"compare": scompare,
		"equal":   sequal,
		"first":   sfirst,
		"index":   sindex,
		"length":  slength,
		"match":   smatch,
		"range":   srange,
		"repeat":  srepeat,
		"tolower": convert(func(s string) string {
			return cases.Lower(language.Und).String(s)
		}),
		"totitle": convert(title),
		"toupper": convert(func(s string) string {
			return cases.Upper(language.Und).String(s)
		}),
		"trim": trim(strings.Trim),
		"trimleft": trim(func(s, cut string) string {
			return strings.TrimLeft(s, cut)
		}),
		"trimright": trim(func(s, cut string) string {
			return strings.TrimRight(s, cut)
		}),
	}
}

func convert(fn func(string) string) interp.Executor {
	return func(_ *interp.T, _ any, args []string) result.T {
		v := subcommand(args, 1, 1, "string")

		return result.Value(fn(v[0]))
	}
}

// nocase strips a leading -nocase option.
func nocase(v []string) ([]string, bool) {
	if len(v) > 0 && v[0] == "-nocase" {
		return v[1:], true
	}

	return v, false
}

func scompare(_ *interp.T, _ any, args []string) result.T {
	v := subcommand(args, 2, 3, "?-nocase? string1 string2")

	v, fold := nocase(v)
	if len(v) != 2 {
		panic(validate.WrongArgs(args[0]+" "+args[1], "?-nocase? string1 string2"))
	}

	a, b := v[0], v[1]
	if fold {
		a, b = strings.ToLower(a), strings.ToLower(b)
	}

	return result.Value(strconv.Itoa(strings.Compare(a, b)))
}

func sequal(_ *interp.T, _ any, args []string) result.T {
	v := subcommand(args, 2, 3, "?-nocase? string1 string2")

	v, fold := nocase(v)
	if len(v) != 2 {
		panic(validate.WrongArgs(args[0]+" "+args[1], "?-nocase? string1 string2"))
	}

	equal := v[0] == v[1]
	if fold {
		equal = strings.EqualFold(v[0], v[1])
	}

	return result.Value(boolean(equal))
}

func sfirst(_ *interp.T, _ any, args []string) result.T {
	v := subcommand(args, 2, 2, "needleString haystackString")

	at := strings.Index(v[1], v[0])
	if at > 0 {
		at = utf8.RuneCountInString(v[1][:at])
	}

	return result.Value(strconv.Itoa(at))
}

func sindex(_ *interp.T, _ any, args []string) result.T {
	v := subcommand(args, 2, 2, "string charIndex")

	runes := []rune(v[0])

	k := validate.Index(v[1], len(runes))
	if k < 0 || k >= len(runes) {
		return result.T{}
	}

	return result.Value(string(runes[k]))
}

func slength(_ *interp.T, _ any, args []string) result.T {
	v := subcommand(args, 1, 1, "string")

	return result.Value(strconv.Itoa(utf8.RuneCountInString(v[0])))
}

func smatch(_ *interp.T, _ any, args []string) result.T {
	v := subcommand(args, 2, 3, "?-nocase? pattern string")

	v, fold := nocase(v)
	if len(v) != 2 {
		panic(validate.WrongArgs(args[0]+" "+args[1], "?-nocase? pattern string"))
	}

	pattern, s := v[0], v[1]
	if fold {
		pattern, s = strings.ToLower(pattern), strings.ToLower(s)
	}

	return result.Value(boolean(match([]rune(pattern), []rune(s))))
}

func srange(_ *interp.T, _ any, args []string) result.T {
	v := subcommand(args, 3, 3, "string first last")

	runes := []rune(v[0])

	first := max(validate.Index(v[1], len(runes)), 0)
	last := min(validate.Index(v[2], len(runes)), len(runes)-1)

	if first > last {
		return result.T{}
	}

	return result.Value(string(runes[first : last+1]))
}

func srepeat(_ *interp.T, _ any, args []string) result.T {
	v := subcommand(args, 2, 2, "string count")

	n := validate.Integer(v[1])
	if n <= 0 {
		return result.T{}
	}

	return result.Value(strings.Repeat(v[0], int(n)))
}

func title(s string) string {
	if s == "" {
		return s
	}

	_, n := utf8.DecodeRuneInString(s)

	return cases.Title(language.Und).String(s[:n]) + cases.Lower(language.Und).String(s[n:])
}

func trim(fn func(s, cut string) string) interp.Executor {
	return func(_ *interp.T, _ any, args []string) result.T {
		v := subcommand(args, 1, 2, "string ?chars?")

		cut := " \t\n\r\v\f\x00"
		if len(v) == 2 {
			cut = v[1]
		}

		return result.Value(fn(v[0], cut))
	}
}

// match reports whether s matches the Tcl glob pattern. Unlike file name
// patterns, * and ? match any character including separators.
func match(pattern, s []rune) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '*':
			for len(pattern) > 0 && pattern[0] == '*' {
				pattern = pattern[1:]
			}

			if len(pattern) == 0 {
				return true
			}

			for k := 0; k <= len(s); k++ {
				if match(pattern, s[k:]) {
					return true
				}
			}

			return false

		case '?':
			if len(s) == 0 {
				return false
			}

		case '[':
			if len(s) == 0 {
				return false
			}

			n, ok := class(pattern[1:], s[0])
			if !ok {
				return false
			}

			pattern = pattern[n:]

		case '\\':
			if len(pattern) > 1 {
				pattern = pattern[1:]
			}

			fallthrough

		default:
			if len(s) == 0 || s[0] != pattern[0] {
				return false
			}
		}

		pattern = pattern[1:]
		s = s[1:]
	}

	return len(s) == 0
}

// class matches c against the bracket expression that follows a '['. It
// returns the number of pattern runes consumed before the closing ']'.
func class(pattern []rune, c rune) (int, bool) {
	matched := false

	k := 0
	for k < len(pattern) && pattern[k] != ']' {
		lo := pattern[k]
		hi := lo

		if k+2 < len(pattern) && pattern[k+1] == '-' && pattern[k+2] != ']' {
			hi = pattern[k+2]
			k += 2
		}

		if lo > hi {
			lo, hi = hi, lo
		}

		if lo <= c && c <= hi {
			matched = true
		}

		k++
	}

	if k == len(pattern) {
		return k, matched
	}

	return k + 1, matched
}
