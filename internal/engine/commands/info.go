// Released under an MIT license. See LICENSE.

package commands

import (
	"strconv"

	"github.com/emberlang/ember/internal/common/type/list"
	"github.com/emberlang/ember/internal/common/validate"
	"github.com/emberlang/ember/internal/engine/interp"
	"github.com/emberlang/ember/internal/engine/result"
)

// InfoCommands returns the sub-commands of the info command.
func InfoCommands() map[string]interp.Executor {
	return map[string]interp.Executor{
		"args":     infoArgs,
		"body":     infoBody,
		"commands": infoCommands,
		"default":  infoDefault,
		"exists":   infoExists,
		"frame":    infoFrame,
		"level":    infoLevel,
		"procs":    infoProcs,
	}
}

func infoArgs(i *interp.T, _ any, args []string) result.T {
	v := subcommand(args, 1, 1, "procname")

	p, r := procedure(i, v[0])
	if p == nil {
		return r
	}

	return result.Value(list.Merge(p.Params()...))
}

func infoBody(i *interp.T, _ any, args []string) result.T {
	v := subcommand(args, 1, 1, "procname")

	p, r := procedure(i, v[0])
	if p == nil {
		return r
	}

	return result.Value(p.Body())
}

func infoCommands(i *interp.T, _ any, args []string) result.T {
	v := subcommand(args, 0, 1, "?pattern?")

	pattern := ""
	if len(v) == 1 {
		pattern = v[0]
	}

	return result.Value(list.Merge(i.Registry().Commands(pattern)...))
}

// infoDefault stores the default value of a procedure argument in varName
// and reports whether there was one.
func infoDefault(i *interp.T, _ any, args []string) result.T {
	v := subcommand(args, 3, 3, "procname arg varname")

	p, r := procedure(i, v[0])
	if p == nil {
		return r
	}

	known := false

	for _, name := range p.Params() {
		if name == v[1] {
			known = true

			break
		}
	}

	if !known {
		return result.Errorf(
			"procedure \"%s\" doesn't have an argument \"%s\"", v[0], v[1],
		)
	}

	value, ok := p.Default(v[1])
	if r := i.SetVar(v[2], value); r.Code != result.Ok {
		return result.Errorf(
			"couldn't store default value in variable \"%s\"", v[2],
		)
	}

	return result.Value(boolean(ok))
}

func infoExists(i *interp.T, _ any, args []string) result.T {
	v := subcommand(args, 1, 1, "varName")

	return result.Value(boolean(i.VarExists(v[0])))
}

// infoFrame returns the depth of the call stack or, given a depth, a
// description of the frame at that depth. Depths of zero or less are
// relative to the current frame.
func infoFrame(i *interp.T, _ any, args []string) result.T {
	v := subcommand(args, 0, 1, "?number?")

	depth := i.Depth()
	if len(v) == 0 {
		return result.Value(strconv.Itoa(depth))
	}

	n, err := validate.ParseInteger(v[0])
	if err != nil {
		return result.FromError(err)
	}

	k := int(n)
	if k <= 0 {
		k += depth
	}

	if k <= 0 || k > depth {
		return result.Errorf("bad level \"%s\"", v[0])
	}

	f := i.Frame()
	for d := depth; d > k; d-- {
		f = f.Previous()
	}

	return result.Value(list.Merge(
		"type", f.Kind().String(),
		"name", f.Name(),
		"level", strconv.Itoa(f.Level()),
		"location", f.Loc().String(),
	))
}

// infoLevel returns the current procedure level or, given a level, the
// words of the invocation at that level. Levels of zero or less are
// relative to the current one.
func infoLevel(i *interp.T, _ any, args []string) result.T {
	v := subcommand(args, 0, 1, "?number?")

	current := i.Frame().Level()
	if len(v) == 0 {
		return result.Value(strconv.Itoa(current))
	}

	n, err := validate.ParseInteger(v[0])
	if err != nil {
		return result.FromError(err)
	}

	level := int(n)
	if level <= 0 {
		level += current
	}

	if level <= 0 || level > current {
		return result.Errorf("bad level \"%s\"", v[0])
	}

	f := i.Frame().Procedure(level)
	if f == nil {
		return result.Errorf("bad level \"%s\"", v[0])
	}

	return result.Value(list.Merge(f.Args...))
}

func infoProcs(i *interp.T, _ any, args []string) result.T {
	v := subcommand(args, 0, 1, "?pattern?")

	pattern := ""
	if len(v) == 1 {
		pattern = v[0]
	}

	return result.Value(list.Merge(i.Registry().Procedures(pattern)...))
}

func procedure(i *interp.T, name string) (*interp.Proc, result.T) {
	if p, ok := i.Registry().Command(name).(*interp.Proc); ok {
		return p, result.T{}
	}

	return nil, result.Errorf("\"%s\" isn't a procedure", name)
}
