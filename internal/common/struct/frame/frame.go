// Released under an MIT license. See LICENSE.

// Package frame provides ember's call stack frame type.
package frame

import (
	"github.com/emberlang/ember/internal/common/struct/loc"
	"github.com/emberlang/ember/internal/engine/vars"
)

// Kind is the kind of scope a frame represents.
type Kind int

// Frame kinds.
const (
	Global Kind = iota + 1
	Procedure
	Scope
	External
	Engine
)

func (k Kind) String() string {
	switch k {
	case Global:
		return "global"
	case Procedure:
		return "proc"
	case Scope:
		return "scope"
	case External:
		return "source"
	case Engine:
		return "engine"
	}

	return "unknown"
}

// T (frame) is stack frame or activation record.
type T struct {
	Args []string // The words of the invocation that created the frame.

	kind     Kind
	level    int
	name     string
	previous *frame
	source   loc.T
	vars     *vars.T
}

type frame = T

// New creates a new frame of kind k named name with the previous frame p.
// Procedure and Global frames own a variable table. Other frames share the
// table of the closest frame that has one.
func New(k Kind, name string, v *vars.T, p *frame) *frame {
	f := &frame{kind: k, name: name, vars: v}

	if p != nil {
		f.previous = p
		f.source = p.source

		switch k {
		case Global:
		case Procedure:
			f.level = p.level + 1
		default:
			f.level = p.level
		}

		if f.vars == nil {
			f.vars = p.vars
		}
	}

	return f
}

// Kind returns the frame's kind.
func (f *frame) Kind() Kind {
	return f.kind
}

// Level returns the procedure nesting level of the frame. The global frame
// is level 0.
func (f *frame) Level() int {
	return f.level
}

// Loc returns the location of the command the frame is executing.
func (f *frame) Loc() *loc.T {
	return &f.source
}

// Name returns the frame's name.
func (f *frame) Name() string {
	return f.name
}

// Previous returns the previous frame.
func (f *frame) Previous() *frame {
	return f.previous
}

// Procedure returns the closest frame at procedure level l, or nil.
func (f *frame) Procedure(l int) *frame {
	for ; f != nil; f = f.previous {
		if f.level == l && (f.kind == Procedure || f.kind == Global) {
			return f
		}
	}

	return nil
}

// Update sets the current lexical location.
func (f *frame) Update(source *loc.T) {
	f.source = *source
}

// Vars returns the frame's variable table.
func (f *frame) Vars() *vars.T {
	return f.vars
}
