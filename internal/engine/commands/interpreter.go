// Released under an MIT license. See LICENSE.

package commands

import (
	"github.com/emberlang/ember/internal/common/type/list"
	"github.com/emberlang/ember/internal/engine/interp"
	"github.com/emberlang/ember/internal/engine/result"
)

// InterpCommands returns the sub-commands of the interp command.
func InterpCommands() map[string]interp.Executor {
	return map[string]interp.Executor{
		"cancel":       interpCancel,
		"expose":       interpExpose,
		"halt":         interpHalt,
		"hidden":       interpHidden,
		"hide":         interpHide,
		"invokehidden": interpInvokeHidden,
		"resetcancel":  interpResetCancel,
	}
}

// interpCancel requests cancellation of the evaluation in progress. With
// -unwind, enclosing catch commands cannot stop the cancellation.
func interpCancel(i *interp.T, _ any, args []string) result.T {
	v := subcommand(args, 0, 2, "?-unwind? ?result?")

	unwind := false
	if len(v) > 0 && v[0] == "-unwind" {
		unwind = true
		v = v[1:]
	}

	message := ""
	switch len(v) {
	case 0:
	case 1:
		message = v[0]
	default:
		return result.Errorf("bad option \"%s\": must be -unwind", v[0])
	}

	i.CancelEvaluate(unwind, message)

	return result.T{}
}

func interpExpose(i *interp.T, _ any, args []string) result.T {
	v := subcommand(args, 1, 1, "hiddenCmdName")

	if err := i.Registry().Expose(v[0]); err != nil {
		return result.FromError(err)
	}

	return result.T{}
}

func interpHalt(i *interp.T, _ any, args []string) result.T {
	v := subcommand(args, 0, 1, "?result?")

	message := ""
	if len(v) == 1 {
		message = v[0]
	}

	i.HaltEvaluate(message)

	return result.T{}
}

func interpHidden(i *interp.T, _ any, args []string) result.T {
	subcommand(args, 0, 0, "")

	return result.Value(list.Merge(i.Registry().Hidden()...))
}

func interpHide(i *interp.T, _ any, args []string) result.T {
	v := subcommand(args, 1, 1, "cmdName")

	if err := i.Registry().Hide(v[0]); err != nil {
		return result.FromError(err)
	}

	return result.T{}
}

func interpInvokeHidden(i *interp.T, _ any, args []string) result.T {
	v := subcommand(args, 1, -1, "hiddenCmdName ?arg ...?")

	return i.InvokeHidden(v, 0)
}

func interpResetCancel(i *interp.T, _ any, args []string) result.T {
	v := subcommand(args, 0, 1, "?-force?")

	force := false
	if len(v) == 1 {
		if v[0] != "-force" {
			return result.Errorf("bad option \"%s\": must be -force", v[0])
		}

		force = true
	}

	return result.Value(boolean(i.ResetCancel(force)))
}
