// Released under an MIT license. See LICENSE.

package commands

import (
	"strconv"
	"strings"

	"github.com/emberlang/ember/internal/common/type/list"
	"github.com/emberlang/ember/internal/common/validate"
	"github.com/emberlang/ember/internal/engine/interp"
	"github.com/emberlang/ember/internal/engine/result"
)

func concat(_ *interp.T, _ any, args []string) result.T {
	return result.Value(list.Concat(args[1:]...))
}

func elements(s string) []string {
	l, err := list.Split(s)
	if err != nil {
		panic(result.FromError(err))
	}

	return l
}

func join(_ *interp.T, _ any, args []string) result.T {
	v := validate.Fixed(args, 1, 2, "list ?joinString?")

	sep := " "
	if len(v) == 2 {
		sep = v[1]
	}

	return result.Value(strings.Join(elements(v[0]), sep))
}

func lappend(i *interp.T, _ any, args []string) result.T {
	v := validate.Fixed(args, 1, -1, "varName ?value ...?")

	current := ""

	if i.VarExists(v[0]) {
		r := i.GetVar(v[0])
		if r.Code != result.Ok {
			return r
		}

		current = r.Value
		elements(current)
	}

	return i.SetVar(v[0], list.Append(current, v[1:]...))
}

func lindex(_ *interp.T, _ any, args []string) result.T {
	v := validate.Fixed(args, 1, -1, "list ?index ...?")

	value := v[0]

	for _, index := range v[1:] {
		l := elements(value)

		k := validate.Index(index, len(l))
		if k < 0 || k >= len(l) {
			return result.T{}
		}

		value = l[k]
	}

	return result.Value(value)
}

func listCommand(_ *interp.T, _ any, args []string) result.T {
	return result.Value(list.Merge(args[1:]...))
}

func llength(_ *interp.T, _ any, args []string) result.T {
	v := validate.Fixed(args, 1, 1, "list")

	return result.Value(strconv.Itoa(len(elements(v[0]))))
}

func lrange(_ *interp.T, _ any, args []string) result.T {
	v := validate.Fixed(args, 3, 3, "list first last")

	l := elements(v[0])

	first := max(validate.Index(v[1], len(l)), 0)
	last := min(validate.Index(v[2], len(l)), len(l)-1)

	if first > last {
		return result.T{}
	}

	return result.Value(list.Merge(l[first : last+1]...))
}

func split(_ *interp.T, _ any, args []string) result.T {
	v := validate.Fixed(args, 1, 2, "string ?splitChars?")

	chars := " \t\n\r"
	if len(v) == 2 {
		chars = v[1]
	}

	if v[0] == "" {
		return result.T{}
	}

	var parts []string

	if chars == "" {
		for _, r := range v[0] {
			parts = append(parts, string(r))
		}
	} else {
		parts = splitAll(v[0], chars)
	}

	return result.Value(list.Merge(parts...))
}

func splitAll(s, chars string) []string {
	var (
		parts []string
		start int
	)

	for k, r := range s {
		if strings.ContainsRune(chars, r) {
			parts = append(parts, s[start:k])
			start = k + len(string(r))
		}
	}

	return append(parts, s[start:])
}
