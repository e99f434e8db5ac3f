// Released under an MIT license. See LICENSE.

package interp

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/michaelmacinnis/adapted"
)

// Resolver maps a command name to an entity. When no entity is found,
// ambiguous reports whether the name matched more than one candidate.
type Resolver interface {
	Resolve(i *T, name string, args []string, flags EngineFlags) (ambiguous bool, e Entity, err error)
}

// Registry is the default Resolver. It holds the commands, hidden commands,
// math functions and operators of one interpreter.
type Registry struct {
	*sync.RWMutex

	commands  map[string]Entity
	functions map[string]Entity
	hidden    map[string]Entity
	operators map[string]Entity
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		RWMutex:   &sync.RWMutex{},
		commands:  map[string]Entity{},
		functions: map[string]Entity{},
		hidden:    map[string]Entity{},
		operators: map[string]Entity{},
	}
}

// Add adds or replaces e. Functions and operators live in their own
// namespaces.
func (r *Registry) Add(e Entity) {
	r.Lock()
	defer r.Unlock()

	id := e.Identity()

	switch e.Kind() {
	case Function:
		r.functions[id.Name] = e
	case Operator:
		r.operators[id.Name] = e
	default:
		if id.Hidden() {
			r.hidden[id.Name] = e
		} else {
			r.commands[id.Name] = e
		}
	}
}

// Command returns the visible command name, or nil.
func (r *Registry) Command(name string) Entity {
	r.RLock()
	defer r.RUnlock()

	return r.commands[name]
}

// Commands returns the sorted names of visible commands matching pattern.
// An empty pattern matches everything.
func (r *Registry) Commands(pattern string) []string {
	r.RLock()
	defer r.RUnlock()

	return matching(r.commands, pattern, nil)
}

// Expose makes the hidden command name visible.
func (r *Registry) Expose(name string) error {
	r.Lock()
	defer r.Unlock()

	e, ok := r.hidden[name]
	if !ok {
		return fmt.Errorf("unknown hidden command \"%s\"", name)
	}

	if _, ok := r.commands[name]; ok {
		return fmt.Errorf("exposed command \"%s\" already exists", name)
	}

	delete(r.hidden, name)
	e.Identity().SetHidden(false)
	r.commands[name] = e

	return nil
}

// Function returns the math function name, or nil.
func (r *Registry) Function(name string) Entity {
	r.RLock()
	defer r.RUnlock()

	return r.functions[name]
}

// Hidden returns the sorted names of hidden commands.
func (r *Registry) Hidden() []string {
	r.RLock()
	defer r.RUnlock()

	return matching(r.hidden, "", nil)
}

// Hide makes the command name hidden.
func (r *Registry) Hide(name string) error {
	r.Lock()
	defer r.Unlock()

	e, ok := r.commands[name]
	if !ok {
		return fmt.Errorf("unknown command \"%s\"", name)
	}

	if _, ok := r.hidden[name]; ok {
		return fmt.Errorf("hidden command \"%s\" already exists", name)
	}

	delete(r.commands, name)
	e.Identity().SetHidden(true)
	r.hidden[name] = e

	return nil
}

// HideUnsafe hides every visible command without the Safe flag.
func (r *Registry) HideUnsafe() {
	r.Lock()
	defer r.Unlock()

	for name, e := range r.commands {
		if id := e.Identity(); !id.Safe {
			if _, ok := r.hidden[name]; ok {
				continue
			}

			delete(r.commands, name)
			id.SetHidden(true)
			r.hidden[name] = e
		}
	}
}

// Operator returns the operator name, or nil.
func (r *Registry) Operator(name string) Entity {
	r.RLock()
	defer r.RUnlock()

	return r.operators[name]
}

// Procedures returns the sorted names of visible procedures matching
// pattern.
func (r *Registry) Procedures(pattern string) []string {
	r.RLock()
	defer r.RUnlock()

	return matching(r.commands, pattern, func(e Entity) bool {
		return e.Kind() == Procedure
	})
}

// Remove deletes the visible command name.
func (r *Registry) Remove(name string) bool {
	r.Lock()
	defer r.Unlock()

	_, ok := r.commands[name]
	delete(r.commands, name)

	return ok
}

// Rename renames the visible command old to new. An empty new name deletes
// the command.
func (r *Registry) Rename(old, new string) error {
	r.Lock()
	defer r.Unlock()

	e, ok := r.commands[old]
	if !ok {
		verb := "rename"
		if new == "" {
			verb = "delete"
		}

		return fmt.Errorf(
			"can't %s \"%s\": command doesn't exist", verb, old,
		)
	}

	if new == "" {
		delete(r.commands, old)

		return nil
	}

	if _, ok := r.commands[new]; ok {
		return fmt.Errorf(
			"can't rename to \"%s\": command already exists", new,
		)
	}

	delete(r.commands, old)
	e.Identity().Name = new
	r.commands[new] = e

	return nil
}

// Resolve finds the entity for name. Hidden commands are found when the
// InvokeHidden flag is set or when no visible command has the name; the
// dispatcher decides whether they may run. With UsePrefix, a unique prefix
// of a visible command name selects it.
func (r *Registry) Resolve(i *T, name string, args []string, flags EngineFlags) (bool, Entity, error) {
	r.RLock()
	defer r.RUnlock()

	if flags&InvokeHidden != 0 {
		if e, ok := r.hidden[name]; ok {
			return false, e, nil
		}
	}

	if e, ok := r.commands[name]; ok {
		return false, e, nil
	}

	if e, ok := r.hidden[name]; ok {
		return false, e, nil
	}

	if flags&UsePrefix != 0 && name != "" {
		var candidates []string

		for k := range r.commands {
			if strings.HasPrefix(k, name) {
				candidates = append(candidates, k)
			}
		}

		switch len(candidates) {
		case 0:
		case 1:
			return false, r.commands[candidates[0]], nil
		default:
			sort.Strings(candidates)

			return true, nil, fmt.Errorf(
				"ambiguous command name \"%s\": %s",
				name, strings.Join(candidates, " "),
			)
		}
	}

	return false, nil, fmt.Errorf("invalid command name \"%s\"", name)
}

func matching(m map[string]Entity, pattern string, keep func(Entity) bool) []string {
	names := make([]string, 0, len(m))

	for k, e := range m {
		if keep != nil && !keep(e) {
			continue
		}

		if pattern != "" {
			if ok, err := adapted.Match(pattern, k); err != nil || !ok {
				continue
			}
		}

		names = append(names, k)
	}

	sort.Strings(names)

	return names
}
