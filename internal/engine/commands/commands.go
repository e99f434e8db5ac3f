// Released under an MIT license. See LICENSE.

// Package commands provides ember's built-in commands, operators and math
// functions.
package commands

import (
	"fmt"

	"github.com/emberlang/ember/internal/common/validate"
	"github.com/emberlang/ember/internal/engine/expr"
	"github.com/emberlang/ember/internal/engine/interp"
	"github.com/emberlang/ember/internal/engine/result"
)

type builtin struct {
	fn   interp.Executor
	safe bool
}

func builtins() map[string]builtin {
	return map[string]builtin{
		"append":   {appendCommand, true},
		"bgerror":  {bgerror, true},
		"break":    {breakCommand, true},
		"catch":    {catch, true},
		"concat":   {concat, true},
		"continue": {continueCommand, true},
		"error":    {errorCommand, true},
		"eval":     {eval, true},
		"exit":     {exit, false},
		"expr":     {exprCommand, true},
		"for":      {forCommand, true},
		"foreach":  {foreach, true},
		"glob":     {glob, false},
		"global":   {global, true},
		"if":       {ifCommand, true},
		"incr":     {incr, true},
		"join":     {join, true},
		"lappend":  {lappend, true},
		"lindex":   {lindex, true},
		"list":     {listCommand, true},
		"llength":  {llength, true},
		"lrange":   {lrange, true},
		"proc":     {proc, true},
		"puts":     {puts, true},
		"rename":   {rename, true},
		"return":   {returnCommand, true},
		"set":      {set, true},
		"source":   {source, false},
		"split":    {split, true},
		"subst":    {subst, true},
		"unset":    {unset, true},
		"when":     {when, false},
		"while":    {while, true},
	}
}

// Ensembles returns the built-in commands that dispatch to sub-commands.
func Ensembles() map[string]*interp.Ensemble {
	return map[string]*interp.Ensemble{
		"async":  interp.NewEnsemble("async", false, AsyncCommands()),
		"info":   interp.NewEnsemble("info", true, InfoCommands()),
		"interp": interp.NewEnsemble("interp", false, InterpCommands()),
		"string": interp.NewEnsemble("string", true, StringCommands()),
	}
}

// Register adds every built-in command, operator and math function to i.
// When safe is true, commands that are not safe are hidden.
func Register(i *interp.T, safe bool) {
	reg := i.Registry()

	for name, b := range builtins() {
		reg.Add(interp.NewCommand(name, b.safe, b.fn, nil))
	}

	for _, e := range Ensembles() {
		reg.Add(e)
	}

	for name, fn := range expr.Operators() {
		reg.Add(interp.NewOperator(name, fn))
	}

	for name, fn := range expr.Functions() {
		reg.Add(interp.NewFunction(name, fn))
	}

	if safe {
		reg.HideUnsafe()
	}
}

// body evaluates a script argument of the command name. Errors are traced
// with the part of the command the script belongs to.
func body(i *interp.T, name, part, script string) result.T {
	r := i.EvaluateScript("", 1, script, 0, len(script), 0)
	if r.Code == result.Error && part != "" {
		i.AddErrorInformation(r, fmt.Sprintf(
			"\n    (\"%s\" %s line %d)", name, part, i.ErrorLineNumber(),
		))
	}

	return r
}

func boolean(b bool) string {
	if b {
		return "1"
	}

	return "0"
}

// subcommand validates the words after an ensemble's sub-command name.
func subcommand(args []string, min, max int, usage string) []string {
	n := len(args) - 2
	if n < min || (max >= 0 && n > max) {
		panic(validate.WrongArgs(args[0]+" "+args[1], usage))
	}

	return args[2:]
}
