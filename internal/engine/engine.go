// Released under an MIT license. See LICENSE.

// Package engine provides an ember interpreter with the built-in commands
// and the boot script loaded. It is the entry point for embedding ember.
package engine

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/emberlang/ember/internal/common/type/list"
	"github.com/emberlang/ember/internal/engine/boot"
	"github.com/emberlang/ember/internal/engine/commands"
	"github.com/emberlang/ember/internal/engine/interp"
	"github.com/emberlang/ember/internal/engine/result"
	"github.com/emberlang/ember/internal/system/policy"
	"github.com/emberlang/ember/internal/system/settings"
)

// Options supply what the settings file does not.
type Options struct {
	// Args are published as argv. The first is published as argv0.
	Args []string

	Logger *slog.Logger
	Stderr io.Writer
	Stdout io.Writer
}

// T (engine) is a facade in front of the machinery for evaluating ember
// code.
type T struct {
	interp *interp.T
	logger *slog.Logger
}

type engine = T

// New creates an interpreter configured by s and evaluates the boot script.
func New(s *settings.T, o Options) (*T, error) {
	if s == nil {
		s = settings.Default()
	}

	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	opts := interp.Options{
		Logger:          o.Logger,
		MaxLevels:       s.Engine.MaxLevels,
		MaxResultLength: s.Engine.MaxResultLength,
		Workers:         s.Async.Workers,
		Stderr:          o.Stderr,
		Stdout:          o.Stdout,
	}

	if s.Engine.EvaluateGlobal {
		opts.EngineFlags |= interp.EvaluateGlobal
	}

	if s.Engine.UsePrefix {
		opts.EngineFlags |= interp.UsePrefix
	}

	if s.Engine.NoFunctions {
		opts.ExpressionFlags |= interp.ExprNoFunctions
	}

	if s.Policy.File != "" {
		p, err := policy.Load(s.Policy.File)
		if err != nil {
			return nil, err
		}

		opts.Policy = p
	}

	i := interp.New(opts)

	commands.Register(i, s.Engine.Safe)

	e := &T{interp: i, logger: o.Logger}

	if err := e.publish(o.Args); err != nil {
		return nil, err
	}

	if _, err := e.Evaluate(boot.Script()); err != nil {
		return nil, fmt.Errorf("boot script: %w", err)
	}

	e.logger.Debug("engine ready", "interp", i.ID(), "safe", s.Engine.Safe)

	return e, nil
}

// Cancel stops the evaluation in progress. With unwind, catch cannot stop
// the cancellation.
func (e *engine) Cancel(unwind bool) {
	e.interp.CancelEvaluate(unwind, "")
}

// Close waits for asynchronous evaluations and disposes of the interpreter.
func (e *engine) Close() {
	e.interp.Wait()
	e.interp.Dispose()
}

// Commands returns the names of the visible commands starting with prefix.
func (e *engine) Commands(prefix string) []string {
	return e.interp.Registry().Commands(prefix + "*")
}

// Evaluate evaluates text at the global level.
func (e *engine) Evaluate(text string) (string, error) {
	return e.complete(e.interp.EvaluateScript("", 1, text, 0, len(text), interp.EvaluateGlobal))
}

// Exited returns true and the exit code if a script called exit.
func (e *engine) Exited() (bool, int) {
	return e.interp.Exited()
}

// Halt stops all evaluation until Reset is called.
func (e *engine) Halt() {
	e.interp.HaltEvaluate("")
}

// Halted returns true if evaluation is halted.
func (e *engine) Halted() bool {
	return e.interp.Halted()
}

// Interp returns the underlying interpreter.
func (e *engine) Interp() *interp.T {
	return e.interp
}

// Reset clears any cancel, unwind or halt request.
func (e *engine) Reset() {
	e.interp.ResetCancel(true)

	if err := e.interp.ResetHalt(true); err != nil {
		e.logger.Warn("reset halt", "error", err)
	}
}

// Source evaluates the file path at the global level.
func (e *engine) Source(path string) (string, error) {
	return e.complete(e.interp.EvaluateFile(path, interp.EvaluateGlobal))
}

// Stream evaluates the script read from r at the global level.
func (e *engine) Stream(name string, r io.Reader) (string, error) {
	return e.complete(e.interp.EvaluateStream(name, r, interp.EvaluateGlobal))
}

// Substitute performs every substitution on text.
func (e *engine) Substitute(text string) (string, error) {
	return e.complete(e.interp.SubstituteString("", 1, text, interp.SubstAll))
}

// Variables returns the sorted names of the global variables starting with
// prefix.
func (e *engine) Variables(prefix string) []string {
	var names []string

	for _, name := range e.interp.VarNames() {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	return names
}

// complete converts the result of a top-level evaluation. Break and continue
// cannot escape to the top level.
func (e *engine) complete(r result.T) (string, error) {
	switch r.Code {
	case result.Break, result.Continue:
		return "", fmt.Errorf("invoked \"%s\" outside of a loop", r.Code)
	}

	if err := r.Err(); err != nil {
		return r.Value, err
	}

	return r.Value, nil
}

func (e *engine) publish(args []string) error {
	if len(args) == 0 {
		args = []string{"ember"}
	}

	values := map[string]string{
		"argv0": args[0],
		"argv":  list.Merge(args[1:]...),
		"argc":  strconv.Itoa(len(args) - 1),
	}

	for name, value := range values {
		if err := e.interp.SetVar(name, value).Err(); err != nil {
			return err
		}
	}

	return nil
}
