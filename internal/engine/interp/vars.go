// Released under an MIT license. See LICENSE.

package interp

import (
	"github.com/emberlang/ember/internal/engine/result"
	"github.com/emberlang/ember/internal/engine/vars"
)

// SetFlags modify variable assignment.
type SetFlags uint8

// Set flags.
const (
	GlobalOnly SetFlags = 1 << iota
	AppendValue
)

// Variables is the variable store consulted for substitution and used to
// publish errorInfo and errorCode.
type Variables interface {
	Get(i *T, name vars.Name) result.T
	Set(i *T, flags SetFlags, name vars.Name, value string) result.T
}

// The type frameVariables is the default store. It resolves names in the
// current call frame's table, or the global table for GlobalOnly.
type frameVariables struct{}

func (frameVariables) Get(i *T, name vars.Name) result.T {
	i.Lock()
	defer i.Unlock()

	s, err := i.frame.Vars().Get(name)
	if err != nil {
		return result.FromError(err)
	}

	return result.Value(s)
}

func (frameVariables) Set(i *T, flags SetFlags, name vars.Name, value string) result.T {
	table := i.frame.Vars()
	if flags&GlobalOnly != 0 {
		table = i.globals
	}

	i.Lock()
	defer i.Unlock()

	s, err := table.Set(name, value, flags&AppendValue != 0)
	if err != nil {
		return result.FromError(err)
	}

	return result.Value(s)
}

// GetVar returns the value of the variable name, which may name an array
// element.
func (i *interp) GetVar(name string) result.T {
	return i.variables.Get(i, vars.Parse(name))
}

// SetVar sets the variable name, which may name an array element.
func (i *interp) SetVar(name, value string) result.T {
	return i.variables.Set(i, 0, vars.Parse(name), value)
}

// AppendVar appends value to the variable name.
func (i *interp) AppendVar(name, value string) result.T {
	return i.variables.Set(i, AppendValue, vars.Parse(name), value)
}

// GlobalVar returns the value of the global variable name.
func (i *interp) GlobalVar(name string) (string, bool) {
	i.Lock()
	defer i.Unlock()

	s, err := i.globals.Get(vars.Parse(name))

	return s, err == nil
}

// LinkGlobal makes the variable name in the current frame refer to the
// global variable of the same name. It does nothing at global level.
func (i *interp) LinkGlobal(name string) result.T {
	i.Lock()
	defer i.Unlock()

	local := i.frame.Vars()
	if local == i.globals {
		return result.T{}
	}

	if err := local.Link(name, i.globals, name); err != nil {
		return result.FromError(err)
	}

	return result.T{}
}

// UnsetVar removes the variable name.
func (i *interp) UnsetVar(name string) result.T {
	i.Lock()
	defer i.Unlock()

	if err := i.frame.Vars().Unset(vars.Parse(name)); err != nil {
		return result.FromError(err)
	}

	return result.T{}
}

// VarExists returns true if the variable name exists.
func (i *interp) VarExists(name string) bool {
	i.Lock()
	defer i.Unlock()

	return i.frame.Vars().Exists(vars.Parse(name))
}

// VarNames returns the sorted names of variables visible in the current
// frame.
func (i *interp) VarNames() []string {
	i.Lock()
	defer i.Unlock()

	return i.frame.Vars().Names()
}

func (i *interp) setGlobal(name, value string, appendValue bool) {
	flags := GlobalOnly
	if appendValue {
		flags |= AppendValue
	}

	i.variables.Set(i, flags, vars.Scalar(name), value)
}
