// Released under an MIT license. See LICENSE.

// Package interp provides ember's evaluation core: the script evaluation
// loop, token substitution, the entity dispatcher and the cancellation and
// error state shared by every thread evaluating in one interpreter.
package interp

import (
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/emberlang/ember/internal/common/struct/frame"
	"github.com/emberlang/ember/internal/engine/vars"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// DefaultMaxLevels is the default limit on nested evaluations.
const DefaultMaxLevels = 1000

// EngineFlags control script evaluation and command dispatch.
type EngineFlags uint32

// Engine flags.
const (
	NoEvaluate EngineFlags = 1 << iota
	NoResetResult
	ResetReturnCode
	EvaluateGlobal
	BracketTerminator
	InvokeHidden
	UsePrefix
	NoUnknown
	NoBreakpoints
)

// SubstitutionFlags select the substitutions performed on words and strings.
type SubstitutionFlags uint8

// Substitution flags.
const (
	SubstBackslashes SubstitutionFlags = 1 << iota
	SubstCommands
	SubstVariables

	SubstAll = SubstBackslashes | SubstCommands | SubstVariables
)

// EventFlags control when queued events are serviced.
type EventFlags uint8

// Event flags.
const (
	ServiceEvents EventFlags = 1 << iota
)

// ExpressionFlags control expression evaluation.
type ExpressionFlags uint8

// Expression flags.
const (
	ExprNoFunctions ExpressionFlags = 1 << iota
	ExprNoCommands
)

// Options configure a new interpreter. The zero value is usable.
type Options struct {
	// Logger receives structured diagnostics. Defaults to slog.Default().
	Logger *slog.Logger

	// MaxLevels limits nested evaluations. Defaults to DefaultMaxLevels.
	MaxLevels int

	// MaxResultLength limits the length of a command's result. Zero means
	// no limit.
	MaxResultLength int

	// Workers bounds the number of asynchronous evaluations that may run at
	// once. Defaults to runtime.NumCPU().
	Workers int

	EngineFlags       EngineFlags
	EventFlags        EventFlags
	ExpressionFlags   ExpressionFlags
	SubstitutionFlags SubstitutionFlags

	// Collaborators. Nil values select the defaults.
	Debugger  Debugger
	Policy    Policy
	Resolver  Resolver
	Variables Variables

	Stderr io.Writer
	Stdout io.Writer
}

// T (interp) is a thread's view of an interpreter.
type T struct {
	*shared
	*thread
}

type interp = T

// The type shared holds state common to every thread in an interpreter.
type shared struct {
	*sync.Mutex

	id     uuid.UUID
	logger *slog.Logger

	busy     atomic.Int32
	disposed atomic.Bool

	cancel        bool
	cancelMessage string
	halt          bool
	haltMessage   string
	unwind        bool

	exitCode int
	exited   bool

	errorState

	events    []event
	servicing bool

	globals  *vars.T
	registry *Registry

	debugger  Debugger
	policy    Policy
	resolver  Resolver
	variables Variables

	engineFlags     EngineFlags
	eventFlags      EventFlags
	expressionFlags ExpressionFlags
	substFlags      SubstitutionFlags

	maxLevels       int
	maxResultLength int

	commands   atomic.Int64
	operations atomic.Int64

	jobs sync.WaitGroup
	pool *semaphore.Weighted

	stderr io.Writer
	stdout io.Writer
}

// The type thread holds the state private to one thread of evaluation.
type thread struct {
	depth   int
	frame   *frame.T
	levels  int
	unknown bool
}

// New creates a new interpreter with no commands.
func New(o Options) *T {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	if o.MaxLevels <= 0 {
		o.MaxLevels = DefaultMaxLevels
	}

	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}

	if o.EventFlags == 0 {
		o.EventFlags = ServiceEvents
	}

	if o.SubstitutionFlags == 0 {
		o.SubstitutionFlags = SubstAll
	}

	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}

	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}

	id := uuid.New()

	s := &shared{
		Mutex:           &sync.Mutex{},
		id:              id,
		logger:          o.Logger.With("interp", id.String()),
		globals:         vars.New(),
		registry:        NewRegistry(),
		debugger:        o.Debugger,
		policy:          o.Policy,
		resolver:        o.Resolver,
		variables:       o.Variables,
		engineFlags:     o.EngineFlags,
		eventFlags:      o.EventFlags,
		expressionFlags: o.ExpressionFlags,
		substFlags:      o.SubstitutionFlags,
		maxLevels:       o.MaxLevels,
		maxResultLength: o.MaxResultLength,
		pool:            semaphore.NewWeighted(int64(o.Workers)),
		stderr:          o.Stderr,
		stdout:          o.Stdout,
	}

	if s.resolver == nil {
		s.resolver = s.registry
	}

	if s.variables == nil {
		s.variables = frameVariables{}
	}

	return &T{shared: s, thread: s.newThread()}
}

func (s *shared) newThread() *thread {
	return &thread{depth: 1, frame: frame.New(frame.Global, "", s.globals, nil)}
}

// Depth returns the number of call frames on this thread's stack.
func (i *interp) Depth() int {
	return i.depth
}

// Dispose marks the interpreter as unusable. Evaluations in progress stop at
// their next readiness check.
func (i *interp) Dispose() {
	if i.disposed.Swap(true) {
		return
	}

	i.logger.Debug("disposed")
}

// Disposed returns true if the interpreter has been disposed.
func (i *interp) Disposed() bool {
	return i.disposed.Load()
}

// ExpressionFlags returns the interpreter's expression flags.
func (i *interp) ExpressionFlags() ExpressionFlags {
	return i.expressionFlags
}

// Frame returns the current call frame.
func (i *interp) Frame() *frame.T {
	return i.frame
}

// ID returns the interpreter's unique identifier.
func (i *interp) ID() uuid.UUID {
	return i.id
}

// Levels returns the number of nested evaluations on this thread.
func (i *interp) Levels() int {
	return i.levels
}

// Logger returns the interpreter's logger.
func (i *interp) Logger() *slog.Logger {
	return i.logger
}

// PushFrame pushes a new call frame of kind k. The returned function pops
// it. Pops must happen in the reverse order of pushes.
func (i *interp) PushFrame(k frame.Kind, name string, v *vars.T) func() {
	f := frame.New(k, name, v, i.frame)

	i.frame = f
	i.depth++

	return func() {
		if i.frame != f {
			panic("unbalanced call frame pop")
		}

		i.frame = f.Previous()
		i.depth--
	}
}

// Registry returns the interpreter's command registry.
func (i *interp) Registry() *Registry {
	return i.registry
}

// Statistics returns the number of commands and operations executed.
func (i *interp) Statistics() (commands, operations int64) {
	return i.commands.Load(), i.operations.Load()
}

// Stderr returns the interpreter's standard error.
func (i *interp) Stderr() io.Writer {
	return i.stderr
}

// Stdout returns the interpreter's standard output.
func (i *interp) Stdout() io.Writer {
	return i.stdout
}

// Thread returns a new thread view of the interpreter with its own call
// stack rooted at the global frame.
func (i *interp) Thread() *T {
	return &T{shared: i.shared, thread: i.newThread()}
}
