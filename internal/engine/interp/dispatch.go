// Released under an MIT license. See LICENSE.

package interp

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/emberlang/ember/internal/engine/debug"
	"github.com/emberlang/ember/internal/engine/result"
	"github.com/emberlang/ember/internal/system/policy"
)

// Debugger decides whether breakpoints are hit around entity execution.
type Debugger interface {
	CanHitBreakpoints(bp debug.Type) bool
	CheckBreakpoints(bp debug.Type, name string, args []string, r result.T) result.T
}

// Policy approves or denies the execution of hidden commands.
type Policy interface {
	CheckCommand(name string, args []string) (policy.Decision, string)
}

// CallFunction executes the math function name.
func (i *interp) CallFunction(name string, args []string) result.T {
	e := i.registry.Function(name)
	if e == nil {
		return result.Errorf("unknown math function \"%s\"", name)
	}

	return i.Execute(name, e, e.Identity().ClientData, append([]string{name}, args...), 0)
}

// CallOperator executes the operator name.
func (i *interp) CallOperator(name string, args []string) result.T {
	e := i.registry.Operator(name)
	if e == nil {
		return result.Errorf("unknown operator \"%s\"", name)
	}

	return i.Execute(name, e, e.Identity().ClientData, append([]string{name}, args...), 0)
}

// Execute runs the entity e as name with the words args. It is the single
// entry point through which every command, sub-command, procedure, function
// and operator runs.
func (i *interp) Execute(name string, e Entity, clientData any, args []string, flags EngineFlags) result.T {
	if r := i.Ready(); r.Code != result.Ok {
		return r
	}

	flags |= i.engineFlags

	id := e.Identity()

	if id.Disabled() {
		return result.Errorf("command \"%s\" is disabled", name)
	}

	if id.Hidden() {
		if flags&InvokeHidden == 0 {
			return result.Errorf("invalid command name \"%s\"", name)
		}

		if r := i.approve(name, args); r.Code != result.Ok {
			return r
		}
	}

	i.ResetResult()

	before, after := breakpoints(e.Kind())

	breaks := flags&NoBreakpoints == 0 && i.debugger != nil

	if breaks && i.debugger.CanHitBreakpoints(before) {
		r := i.debugger.CheckBreakpoints(before, name, args, result.T{})
		if r.Code != result.Ok {
			return r
		}
	}

	r := i.invoke(e, clientData, args)

	if i.disposed.Load() {
		return unusable()
	}

	if limit := i.maxResultLength; limit > 0 && r.Code == result.Ok && len(r.Value) > limit {
		r = result.Errorf(
			"maximum result length of %d exceeded (got %d)", limit, len(r.Value),
		)

		runtime.GC()
	}

	id.invocations.Add(1)

	switch e.Kind() {
	case Function, Operator:
		i.operations.Add(1)
	default:
		i.commands.Add(1)
	}

	if breaks && i.debugger.CanHitBreakpoints(after) {
		r = i.debugger.CheckBreakpoints(after, name, args, r)
	}

	switch e.Kind() {
	case SubCommand, Command:
		if r.Code == result.Return && i.levels == 0 {
			r = i.updateReturnInfo(r)
		}
	}

	return r
}

func (i *interp) approve(name string, args []string) result.T {
	if i.policy == nil {
		return result.T{}
	}

	decision, message := i.policy.CheckCommand(name, args)
	if decision == policy.Approved {
		return result.T{}
	}

	if message == "" {
		message = fmt.Sprintf("permission denied for hidden command \"%s\"", name)
	}

	i.logger.Debug("hidden command denied", "command", name)

	return result.T{Code: result.Error, Value: message, Denied: true}
}

// breakpoints returns the breakpoint types checked before and after an
// entity of kind k runs.
func breakpoints(k Kind) (before, after debug.Type) {
	switch k {
	case SubCommand:
		return debug.BeforeSubCommand, debug.AfterSubCommand
	case Command:
		return debug.BeforeCommand, debug.AfterCommand
	case Procedure:
		return debug.BeforeProcedure, debug.AfterProcedure
	case Function:
		return debug.BeforeFunction, debug.AfterFunction
	case Operator:
		return debug.BeforeOperator, debug.AfterOperator
	}

	return debug.None, debug.None
}

// invoke executes e, converting panics into Error results.
func (i *interp) invoke(e Entity, clientData any, args []string) (r result.T) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}

		switch v := v.(type) {
		case result.T:
			r = v

			return
		case *result.ScriptError:
			r = result.FromError(v)

			return
		case error:
			if errors.Is(v, ErrUnusable) {
				r = unusable()

				return
			}
		}

		if c, ok := i.critical(v); ok {
			r = c

			return
		}

		err, ok := v.(error)
		if !ok {
			err = fmt.Errorf("%v", v)
		}

		i.logger.Warn("command panicked", "command", e.Identity().Name, "error", err)

		i.SetExceptionErrorCode(err, "Execute")

		r = result.T{
			Code:  result.Error,
			Value: "caught exception while executing command: " + err.Error(),
			Cause: err,
		}
	}()

	return e.Execute(i, clientData, args)
}
