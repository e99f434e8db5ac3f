// Released under an MIT license. See LICENSE.

package commands

import (
	"strings"

	"github.com/emberlang/ember/internal/common/struct/frame"
	"github.com/emberlang/ember/internal/common/type/list"
	"github.com/emberlang/ember/internal/common/validate"
	"github.com/emberlang/ember/internal/engine/expr"
	"github.com/emberlang/ember/internal/engine/interp"
	"github.com/emberlang/ember/internal/engine/result"
)

func forCommand(i *interp.T, _ any, args []string) result.T {
	v := validate.Fixed(args, 4, 4, "start test next command")

	if r := body(i, "for", "initial command", v[0]); r.Code != result.Ok {
		return r
	}

	for {
		ok, r := expr.Truth(i, v[1])
		if r.Code != result.Ok {
			return r
		}

		if !ok {
			return result.T{}
		}

		r = body(i, "for", "body", v[3])

		switch r.Code {
		case result.Ok, result.Continue:
		case result.Break:
			return result.T{}
		default:
			return r
		}

		if r = body(i, "for", "loop-end command", v[2]); r.Code != result.Ok {
			return r
		}
	}
}

// foreach iterates over one or more lists, assigning consecutive elements
// to each list's variables. Shorter lists supply empty values.
func foreach(i *interp.T, _ any, args []string) result.T {
	v := validate.Fixed(args, 3, -1, "varList list ?varList list ...? command")
	if len(v)%2 == 0 {
		panic(validate.WrongArgs(args[0], "varList list ?varList list ...? command"))
	}

	type binding struct {
		names  []string
		values []string
	}

	var (
		bindings []binding
		rounds   int
	)

	for k := 0; k+1 < len(v); k += 2 {
		names, err := list.Split(v[k])
		if err != nil {
			return result.FromError(err)
		}

		if len(names) == 0 {
			return result.Errorf("foreach varlist is empty")
		}

		values, err := list.Split(v[k+1])
		if err != nil {
			return result.FromError(err)
		}

		rounds = max(rounds, (len(values)+len(names)-1)/len(names))

		bindings = append(bindings, binding{names, values})
	}

	script := v[len(v)-1]

	for n := 0; n < rounds; n++ {
		for _, b := range bindings {
			for k, name := range b.names {
				value := ""
				if at := n*len(b.names) + k; at < len(b.values) {
					value = b.values[at]
				}

				if r := i.SetVar(name, value); r.Code != result.Ok {
					return r
				}
			}
		}

		r := body(i, "foreach", "body", script)

		switch r.Code {
		case result.Ok, result.Continue:
		case result.Break:
			return result.T{}
		default:
			return r
		}
	}

	return result.T{}
}

func ifCommand(i *interp.T, _ any, args []string) result.T {
	v := args[1:]

	for {
		if len(v) == 0 {
			return result.Errorf("wrong # args: no expression after \"%s\" argument", args[0])
		}

		ok, r := expr.Truth(i, v[0])
		if r.Code != result.Ok {
			return r
		}

		v = v[1:]
		if len(v) > 0 && v[0] == "then" {
			v = v[1:]
		}

		if len(v) == 0 {
			return result.Errorf("wrong # args: no script following \"%s\" argument", args[0])
		}

		if ok {
			return body(i, "", "", v[0])
		}

		v = v[1:]

		switch {
		case len(v) == 0:
			return result.T{}
		case v[0] == "elseif":
			v = v[1:]

			continue
		case v[0] == "else":
			v = v[1:]
		}

		if len(v) != 1 {
			return result.Errorf("wrong # args: extra words after \"else\" clause in \"if\" command")
		}

		return body(i, "", "", v[0])
	}
}

func while(i *interp.T, _ any, args []string) result.T {
	v := validate.Fixed(args, 2, 2, "test command")

	for {
		ok, r := expr.Truth(i, v[0])
		if r.Code != result.Ok {
			return r
		}

		if !ok {
			return result.T{}
		}

		r = body(i, "while", "body", v[1])

		switch r.Code {
		case result.Ok, result.Continue:
		case result.Break:
			return result.T{}
		default:
			return r
		}
	}
}

// when evaluates its script in a scope frame named after the event words
// that precede it, as in "when HTTP_REQUEST {...}". With -withinfo, errors
// are traced with the event.
func when(i *interp.T, _ any, args []string) result.T {
	if len(args) < 2 {
		panic(validate.WrongArgs(args[0], "?options? ?event ...? script"))
	}

	v := args[1:]
	info := false

options:
	for len(v) > 1 && strings.HasPrefix(v[0], "-") {
		switch v[0] {
		case "--":
			v = v[1:]

			break options
		case "-withinfo":
			if len(v) < 3 {
				return result.Errorf("missing argument to \"-withinfo\"")
			}

			b, err := expr.Bool(v[1])
			if err != nil {
				return result.FromError(err)
			}

			info = b
			v = v[2:]
		default:
			return result.Errorf("bad option \"%s\": must be -withinfo or --", v[0])
		}
	}

	event := list.Merge(v[:len(v)-1]...)

	defer i.PushFrame(frame.Scope, strings.TrimSpace("when "+event), nil)()

	part := ""
	if info {
		part = "event " + event
	}

	return body(i, "when", part, v[len(v)-1])
}
