// Released under an MIT license. See LICENSE.

package commands

import (
	"context"
	"strconv"

	"github.com/emberlang/ember/internal/common/type/list"
	"github.com/emberlang/ember/internal/engine/interp"
	"github.com/emberlang/ember/internal/engine/result"
	"github.com/google/uuid"
)

// AsyncCommands returns the sub-commands of the async command.
func AsyncCommands() map[string]interp.Executor {
	return map[string]interp.Executor{
		"eval":   asyncEval,
		"source": asyncSource,
		"subst":  asyncSubst,
		"wait":   asyncWait,
	}
}

func asyncEval(i *interp.T, _ any, args []string) result.T {
	v := subcommand(args, 1, 2, "script ?command?")

	return queued(i.EvaluateScriptAsync(context.Background(), v[0], 0, callback(i, v[1:])))
}

func asyncSource(i *interp.T, _ any, args []string) result.T {
	v := subcommand(args, 1, 2, "fileName ?command?")

	return queued(i.EvaluateFileAsync(context.Background(), v[0], 0, callback(i, v[1:])))
}

func asyncSubst(i *interp.T, _ any, args []string) result.T {
	v := subcommand(args, 1, 2, "string ?command?")

	return queued(i.SubstituteStringAsync(
		context.Background(), v[0], interp.SubstAll, callback(i, v[1:]),
	))
}

func asyncWait(i *interp.T, _ any, args []string) result.T {
	subcommand(args, 0, 0, "")

	i.Wait()

	return result.T{}
}

// callback returns a Callback that evaluates the command prefix with the
// job's completion code and value appended, or nil when there is no prefix.
func callback(i *interp.T, prefix []string) interp.Callback {
	if len(prefix) == 0 {
		return nil
	}

	return func(job uuid.UUID, r result.T) {
		t := i.Thread()

		script := list.Append(prefix[0], strconv.Itoa(int(r.Code)), r.Value)

		c := t.EvaluateScript("", 1, script, 0, len(script), interp.EvaluateGlobal)
		if c.Code == result.Error {
			t.Logger().Error("async callback failed",
				"job", job, "error", c.Value, "errorInfo", c.ErrorInfo)
		}
	}
}

func queued(job uuid.UUID, err error) result.T {
	if err != nil {
		return result.FromError(err)
	}

	return result.Value(job.String())
}
