// Released under an MIT license. See LICENSE.

package interp

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/emberlang/ember/internal/engine/result"
)

// Kind identifies the kind of an executable entity.
type Kind int

// Entity kinds.
const (
	Raw Kind = iota
	SubCommand
	Command
	Procedure
	Function
	Operator
)

func (k Kind) String() string {
	switch k {
	case Raw:
		return "raw"
	case SubCommand:
		return "subcommand"
	case Command:
		return "command"
	case Procedure:
		return "procedure"
	case Function:
		return "function"
	case Operator:
		return "operator"
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Executor implements an entity in Go.
type Executor func(i *T, clientData any, args []string) result.T

// Entity is something the dispatcher can execute. The set of entity
// implementations is closed.
type Entity interface {
	Execute(i *T, clientData any, args []string) result.T
	Identity() *Identity
	Kind() Kind

	entity()
}

// Identity holds the name, flags and usage count of an entity.
type Identity struct {
	ClientData any
	Name       string
	Safe       bool

	disabled    atomic.Bool
	hidden      atomic.Bool
	invocations atomic.Int64
}

// Disabled returns true if the entity may not be executed.
func (id *Identity) Disabled() bool {
	return id.disabled.Load()
}

// Hidden returns true if the entity may only be executed as a hidden
// command.
func (id *Identity) Hidden() bool {
	return id.hidden.Load()
}

// Invocations returns the number of times the entity has been executed.
func (id *Identity) Invocations() int64 {
	return id.invocations.Load()
}

// SetDisabled sets or clears the disabled flag.
func (id *Identity) SetDisabled(v bool) {
	id.disabled.Store(v)
}

// SetHidden sets or clears the hidden flag.
func (id *Identity) SetHidden(v bool) {
	id.hidden.Store(v)
}

// Builtin is an entity implemented by a Go function.
type Builtin struct {
	fn   Executor
	id   Identity
	kind Kind
}

func newBuiltin(k Kind, name string, safe bool, fn Executor, data any) *Builtin {
	b := &Builtin{fn: fn, kind: k}
	b.id.Name = name
	b.id.Safe = safe
	b.id.ClientData = data

	return b
}

// NewCommand creates a Command entity.
func NewCommand(name string, safe bool, fn Executor, data any) *Builtin {
	return newBuiltin(Command, name, safe, fn, data)
}

// NewFunction creates a math Function entity.
func NewFunction(name string, fn Executor) *Builtin {
	return newBuiltin(Function, name, true, fn, nil)
}

// NewOperator creates an Operator entity.
func NewOperator(name string, fn Executor) *Builtin {
	return newBuiltin(Operator, name, true, fn, nil)
}

// NewRaw creates a Raw entity.
func NewRaw(name string, safe bool, fn Executor, data any) *Builtin {
	return newBuiltin(Raw, name, safe, fn, data)
}

// NewSubCommand creates a SubCommand entity.
func NewSubCommand(name string, fn Executor) *Builtin {
	return newBuiltin(SubCommand, name, true, fn, nil)
}

// Execute calls the builtin's function.
func (b *Builtin) Execute(i *T, clientData any, args []string) result.T {
	return b.fn(i, clientData, args)
}

// Identity returns the builtin's identity.
func (b *Builtin) Identity() *Identity {
	return &b.id
}

// Kind returns the builtin's kind.
func (b *Builtin) Kind() Kind {
	return b.kind
}

func (b *Builtin) entity() {}

// Ensemble is a Command entity that dispatches its first argument to one
// of a set of SubCommand entities. Unique prefixes select a sub-command.
type Ensemble struct {
	id   Identity
	subs map[string]*Builtin
}

// NewEnsemble creates an ensemble command.
func NewEnsemble(name string, safe bool, subs map[string]Executor) *Ensemble {
	e := &Ensemble{subs: map[string]*Builtin{}}
	e.id.Name = name
	e.id.Safe = safe

	for k, fn := range subs {
		e.subs[k] = NewSubCommand(k, fn)
	}

	return e
}

// Execute dispatches to the selected sub-command.
func (e *Ensemble) Execute(i *T, clientData any, args []string) result.T {
	if len(args) < 2 {
		return result.Errorf(
			"wrong # args: should be \"%s option ?arg ...?\"", args[0],
		)
	}

	sub, err := e.lookup(args[1])
	if err != nil {
		return result.FromError(err)
	}

	return i.Execute(args[0]+" "+sub.id.Name, sub, clientData, args, 0)
}

// Identity returns the ensemble's identity.
func (e *Ensemble) Identity() *Identity {
	return &e.id
}

// Kind returns Command.
func (e *Ensemble) Kind() Kind {
	return Command
}

// Names returns the sorted names of the ensemble's sub-commands.
func (e *Ensemble) Names() []string {
	names := make([]string, 0, len(e.subs))
	for k := range e.subs {
		names = append(names, k)
	}

	sort.Strings(names)

	return names
}

func (e *Ensemble) entity() {}

func (e *Ensemble) lookup(name string) (*Builtin, error) {
	if sub, ok := e.subs[name]; ok {
		return sub, nil
	}

	var found *Builtin

	n := 0

	for k, sub := range e.subs {
		if strings.HasPrefix(k, name) {
			found = sub
			n++
		}
	}

	if n == 1 && name != "" {
		return found, nil
	}

	return nil, fmt.Errorf(
		"unknown or ambiguous subcommand \"%s\": must be %s",
		name, oneOf(e.Names()),
	)
}

func oneOf(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " or " + names[1]
	}

	return strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
}
