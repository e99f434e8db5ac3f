// Released under an MIT license. See LICENSE.

// Package vars provides ember's variable tables. A table maps names to
// scalar or array variables. Variables in one table may be linked to
// variables in another (as with the global command).
package vars

import (
	"fmt"
	"sort"
	"strings"
)

// Name identifies a scalar variable or an element of an array variable.
type Name struct {
	Base    string
	Index   string
	Element bool
}

// Parse splits s into a variable name and, if s has the form "a(b)", an
// array index.
func Parse(s string) Name {
	if n := len(s); n > 1 && s[n-1] == ')' {
		if open := strings.IndexByte(s, '('); open > 0 {
			return Name{Base: s[:open], Index: s[open+1 : n-1], Element: true}
		}
	}

	return Name{Base: s}
}

// Scalar creates a Name for the scalar variable s.
func Scalar(s string) Name {
	return Name{Base: s}
}

func (n Name) String() string {
	if n.Element {
		return n.Base + "(" + n.Index + ")"
	}

	return n.Base
}

type variable struct {
	array   map[string]string
	defined bool
	link    *variable
	scalar  string
}

func (v *variable) target() *variable {
	for v.link != nil {
		v = v.link
	}

	return v
}

// T (vars) is a table of variables.
type T struct {
	vars map[string]*variable
}

type vars = T

// New creates an empty variable table.
func New() *T {
	return &T{vars: map[string]*variable{}}
}

// Exists returns true if n names a defined variable or array element.
func (t *vars) Exists(n Name) bool {
	v := t.lookup(n.Base)
	if v == nil {
		return false
	}

	if !n.Element {
		return true
	}

	if v.array == nil {
		return false
	}

	_, ok := v.array[n.Index]

	return ok
}

// Get returns the value of the variable or array element n.
func (t *vars) Get(n Name) (string, error) {
	v := t.lookup(n.Base)
	if v == nil {
		return "", cant("read", n, "no such variable")
	}

	if n.Element {
		if v.array == nil {
			return "", cant("read", n, "variable isn't array")
		}

		s, ok := v.array[n.Index]
		if !ok {
			return "", cant("read", n, "no such element in array")
		}

		return s, nil
	}

	if v.array != nil {
		return "", cant("read", n, "variable is array")
	}

	return v.scalar, nil
}

// IsArray returns true if the variable named base is an array.
func (t *vars) IsArray(base string) bool {
	v := t.lookup(base)

	return v != nil && v.array != nil
}

// Keys returns the sorted indices of the array variable named base.
func (t *vars) Keys(base string) []string {
	v := t.lookup(base)
	if v == nil || v.array == nil {
		return nil
	}

	keys := make([]string, 0, len(v.array))
	for k := range v.array {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Link makes the variable named local in t an alias for the variable named
// remote in other. The remote variable need not exist yet.
func (t *vars) Link(local string, other *T, remote string) error {
	if v, ok := t.vars[local]; ok && v.link == nil && v.defined {
		return fmt.Errorf("variable \"%s\" already exists", local)
	}

	r, ok := other.vars[remote]
	if !ok {
		r = &variable{}
		other.vars[remote] = r
	}

	if t == other && local == remote {
		return nil
	}

	t.vars[local] = &variable{link: r, defined: true}

	return nil
}

// Names returns the sorted names of all defined variables in t.
func (t *vars) Names() []string {
	names := make([]string, 0, len(t.vars))

	for k, v := range t.vars {
		if v.target().defined {
			names = append(names, k)
		}
	}

	sort.Strings(names)

	return names
}

// Set sets the variable or array element n to value, or appends value to
// its current value when appendValue is true. It returns the new value.
func (t *vars) Set(n Name, value string, appendValue bool) (string, error) {
	v, ok := t.vars[n.Base]
	if !ok {
		v = &variable{}
		t.vars[n.Base] = v
	}

	v = v.target()

	if n.Element {
		if v.defined && v.array == nil {
			return "", cant("set", n, "variable isn't array")
		}

		if v.array == nil {
			v.array = map[string]string{}
		}

		if appendValue {
			value = v.array[n.Index] + value
		}

		v.array[n.Index] = value
		v.defined = true

		return value, nil
	}

	if v.array != nil {
		return "", cant("set", n, "variable is array")
	}

	if appendValue && v.defined {
		value = v.scalar + value
	}

	v.scalar = value
	v.defined = true

	return value, nil
}

// Unset removes the variable or array element n.
func (t *vars) Unset(n Name) error {
	v := t.lookup(n.Base)
	if v == nil {
		return cant("unset", n, "no such variable")
	}

	if n.Element {
		if _, ok := v.array[n.Index]; !ok {
			return cant("unset", n, "no such element in array")
		}

		delete(v.array, n.Index)

		return nil
	}

	*v = variable{}

	if l, ok := t.vars[n.Base]; ok && l.link == nil {
		delete(t.vars, n.Base)
	}

	return nil
}

func (t *vars) lookup(base string) *variable {
	v, ok := t.vars[base]
	if !ok {
		return nil
	}

	v = v.target()
	if !v.defined {
		return nil
	}

	return v
}

func cant(op string, n Name, why string) error {
	return fmt.Errorf("can't %s \"%s\": %s", op, n, why)
}
