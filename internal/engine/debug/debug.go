// Released under an MIT license. See LICENSE.

// Package debug provides breakpoints for ember's entity dispatcher.
package debug

import (
	"sync"

	"github.com/emberlang/ember/internal/engine/result"
	"github.com/michaelmacinnis/adapted"
)

// Type is a set of breakpoint kinds.
type Type uint16

// Breakpoint kinds.
const (
	BeforeCommand Type = 1 << iota
	AfterCommand
	BeforeSubCommand
	AfterSubCommand
	BeforeProcedure
	AfterProcedure
	BeforeFunction
	AfterFunction
	BeforeOperator
	AfterOperator

	None Type = 0
	All  Type = AfterOperator<<1 - 1
)

// Hook is called when a breakpoint is hit. It returns the result that the
// dispatcher should use in place of r.
type Hook func(bp Type, name string, args []string, r result.T) result.T

// T (debug) holds the enabled breakpoints.
type T struct {
	*sync.Mutex

	enabled  Type
	hook     Hook
	hits     int
	patterns []string
}

type debug = T

// New creates a breakpoint table that calls h when a breakpoint is hit.
func New(h Hook) *T {
	return &T{Mutex: &sync.Mutex{}, hook: h}
}

// CanHitBreakpoints returns true if any breakpoint in bp is enabled.
func (d *debug) CanHitBreakpoints(bp Type) bool {
	d.Lock()
	defer d.Unlock()

	return d.enabled&bp != 0 && d.hook != nil
}

// CheckBreakpoints calls the hook if a breakpoint in bp is enabled for the
// command name.
func (d *debug) CheckBreakpoints(bp Type, name string, args []string, r result.T) result.T {
	d.Lock()

	if d.enabled&bp == 0 || d.hook == nil || !d.matches(name) {
		d.Unlock()

		return r
	}

	d.hits++
	h := d.hook

	d.Unlock()

	return h(bp, name, args, r)
}

// Disable turns off the breakpoints in bp.
func (d *debug) Disable(bp Type) {
	d.Lock()
	defer d.Unlock()

	d.enabled &^= bp
}

// Enable turns on the breakpoints in bp. When patterns are given, only
// commands whose names match one of the glob patterns hit the breakpoints.
func (d *debug) Enable(bp Type, patterns ...string) {
	d.Lock()
	defer d.Unlock()

	d.enabled |= bp
	d.patterns = append(d.patterns, patterns...)
}

// Hits returns the number of breakpoints hit.
func (d *debug) Hits() int {
	d.Lock()
	defer d.Unlock()

	return d.hits
}

func (d *debug) matches(name string) bool {
	if len(d.patterns) == 0 {
		return true
	}

	for _, p := range d.patterns {
		ok, err := adapted.Match(p, name)
		if err == nil && ok {
			return true
		}
	}

	return false
}
