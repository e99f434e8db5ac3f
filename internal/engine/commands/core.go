// Released under an MIT license. See LICENSE.

package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/emberlang/ember/internal/common/type/list"
	"github.com/emberlang/ember/internal/common/validate"
	"github.com/emberlang/ember/internal/engine/expr"
	"github.com/emberlang/ember/internal/engine/interp"
	"github.com/emberlang/ember/internal/engine/result"
)

func appendCommand(i *interp.T, _ any, args []string) result.T {
	v := validate.Fixed(args, 1, -1, "varName ?value ...?")

	r := i.AppendVar(v[0], "")
	for _, s := range v[1:] {
		if r = i.AppendVar(v[0], s); r.Code != result.Ok {
			break
		}
	}

	return r
}

func bgerror(i *interp.T, _ any, args []string) result.T {
	v := validate.Fixed(args, 1, 1, "message")

	info, _ := i.GlobalVar("errorInfo")

	i.Logger().Error("background error", "error", v[0], "errorInfo", info)

	return result.T{}
}

func breakCommand(_ *interp.T, _ any, args []string) result.T {
	validate.Fixed(args, 0, 0, "")

	return result.T{Code: result.Break}
}

// catch evaluates a script and returns its completion code. Unwinding and
// halted evaluations cannot be caught.
func catch(i *interp.T, _ any, args []string) result.T {
	v := validate.Fixed(args, 1, 2, "script ?resultVarName?")

	r := i.EvaluateScript("", 1, v[0], 0, len(v[0]), 0)
	if errors.Is(r.Cause, interp.ErrUnwound) || errors.Is(r.Cause, interp.ErrHalted) {
		return r
	}

	if len(v) == 2 {
		if s := i.SetVar(v[1], r.Value); s.Code != result.Ok {
			return result.Errorf("couldn't save command result in variable")
		}
	}

	return result.Value(strconv.Itoa(int(r.Code)))
}

func continueCommand(_ *interp.T, _ any, args []string) result.T {
	validate.Fixed(args, 0, 0, "")

	return result.T{Code: result.Continue}
}

// errorCommand raises an error. When errorInfo is given it replaces the
// trace that would otherwise start with this command.
func errorCommand(i *interp.T, _ any, args []string) result.T {
	v := validate.Fixed(args, 1, 3, "message ?errorInfo? ?errorCode?")

	r := result.T{Code: result.Error, Value: v[0]}

	if len(v) > 1 && v[1] != "" {
		i.AddErrorInformation(result.T{Code: result.Error}, v[1])
		i.SetAlreadyLogged()
	}

	if len(v) > 2 {
		i.SetErrorCode(v[2])
		r.ErrorCode = v[2]
	}

	return r
}

func eval(i *interp.T, _ any, args []string) result.T {
	v := validate.Fixed(args, 1, -1, "arg ?arg ...?")

	return body(i, "eval", "body", list.Concat(v...))
}

func exit(i *interp.T, _ any, args []string) result.T {
	v := validate.Fixed(args, 0, 1, "?returnCode?")

	code := 0
	if len(v) == 1 {
		code = int(validate.Integer(v[0]))
	}

	i.Exit(code)

	return result.T{}
}

func exprCommand(i *interp.T, _ any, args []string) result.T {
	v := validate.Fixed(args, 1, -1, "arg ?arg ...?")

	return expr.Evaluate(i, strings.Join(v, " "))
}

func global(i *interp.T, _ any, args []string) result.T {
	v := validate.Fixed(args, 1, -1, "varName ?varName ...?")

	for _, name := range v {
		if r := i.LinkGlobal(name); r.Code != result.Ok {
			return r
		}
	}

	return result.T{}
}

func incr(i *interp.T, _ any, args []string) result.T {
	v := validate.Fixed(args, 1, 2, "varName ?increment?")

	by := int64(1)
	if len(v) == 2 {
		by = validate.Integer(v[1])
	}

	current := int64(0)

	if i.VarExists(v[0]) {
		r := i.GetVar(v[0])
		if r.Code != result.Ok {
			return r
		}

		current = validate.Integer(r.Value)
	}

	return i.SetVar(v[0], strconv.FormatInt(current+by, 10))
}

func proc(i *interp.T, _ any, args []string) result.T {
	v := validate.Fixed(args, 3, 3, "name args body")

	p, err := interp.NewProc(v[0], v[1], v[2])
	if err != nil {
		return result.FromError(err)
	}

	i.Registry().Add(p)

	return result.T{}
}

func puts(i *interp.T, _ any, args []string) result.T {
	v := validate.Fixed(args, 1, 3, "?-nonewline? ?channelId? string")

	newline := "\n"
	if len(v) > 1 && v[0] == "-nonewline" {
		newline = ""
		v = v[1:]
	}

	var w io.Writer

	switch len(v) {
	case 1:
		w = i.Stdout()
	case 2:
		switch v[0] {
		case "stdout":
			w = i.Stdout()
		case "stderr":
			w = i.Stderr()
		default:
			return result.Errorf("can not find channel named \"%s\"", v[0])
		}

		v = v[1:]
	default:
		panic(validate.WrongArgs(args[0], "?-nonewline? ?channelId? string"))
	}

	if _, err := io.WriteString(w, v[0]+newline); err != nil {
		return result.FromError(fmt.Errorf("error writing: %w", err))
	}

	return result.T{}
}

func rename(i *interp.T, _ any, args []string) result.T {
	v := validate.Fixed(args, 2, 2, "oldName newName")

	if err := i.Registry().Rename(v[0], v[1]); err != nil {
		return result.FromError(err)
	}

	return result.T{}
}

// returnCommand records the return options for the enclosing procedure or
// script and completes with the Return code.
func returnCommand(i *interp.T, _ any, args []string) result.T {
	v := args[1:]

	code := result.Ok
	info := ""
	ecode := ""

	for len(v) > 1 && strings.HasPrefix(v[0], "-") {
		switch v[0] {
		case "-code":
			c, err := result.ParseCode(v[1])
			if err != nil {
				return result.FromError(err)
			}

			code = c
		case "-errorcode":
			ecode = v[1]
		case "-errorinfo":
			info = v[1]
		default:
			return result.Errorf(
				"bad option \"%s\": must be -code, -errorcode, or -errorinfo", v[0],
			)
		}

		v = v[2:]
	}

	if len(v) > 1 {
		panic(validate.WrongArgs(args[0], "?-option value ...? ?result?"))
	}

	value := ""
	if len(v) == 1 {
		value = v[0]
	}

	i.SetReturnOptions(code, info, ecode)

	return result.T{Code: result.Return, Value: value}
}

func set(i *interp.T, _ any, args []string) result.T {
	v := validate.Fixed(args, 1, 2, "varName ?newValue?")

	if len(v) == 1 {
		return i.GetVar(v[0])
	}

	return i.SetVar(v[0], v[1])
}

func source(i *interp.T, _ any, args []string) result.T {
	v := validate.Fixed(args, 1, 1, "fileName")

	return i.EvaluateFile(v[0], 0)
}

func subst(i *interp.T, _ any, args []string) result.T {
	v := validate.Fixed(args, 1, 4, "?-nobackslashes? ?-nocommands? ?-novariables? string")

	flags := interp.SubstAll

	for _, opt := range v[:len(v)-1] {
		switch opt {
		case "-nobackslashes":
			flags &^= interp.SubstBackslashes
		case "-nocommands":
			flags &^= interp.SubstCommands
		case "-novariables":
			flags &^= interp.SubstVariables
		default:
			return result.Errorf(
				"bad switch \"%s\": must be -nobackslashes, -nocommands, or -novariables", opt,
			)
		}
	}

	return i.SubstituteString("", 1, v[len(v)-1], flags)
}

func unset(i *interp.T, _ any, args []string) result.T {
	v := args[1:]

	complain := true
	if len(v) > 0 && v[0] == "-nocomplain" {
		complain = false
		v = v[1:]
	}

	if len(v) > 0 && v[0] == "--" {
		v = v[1:]
	}

	for _, name := range v {
		if r := i.UnsetVar(name); r.Code != result.Ok && complain {
			return r
		}
	}

	return result.T{}
}
