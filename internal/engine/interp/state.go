// Released under an MIT license. See LICENSE.

package interp

import (
	"github.com/emberlang/ember/internal/engine/result"
)

// C U H
// 0 0 0 Evaluation may proceed.
// 1 0 X The next readiness check fails once and clears C.
// X 1 X Every readiness check fails until U is reset. Catch cannot stop it.
// X X 1 Every readiness check fails until H is reset.

// The type event is work queued for the next readiness check.
type event struct {
	name string
	run  func(i *T)
}

// Canceled returns the pending cancel and unwind flags without clearing
// them.
func (i *interp) Canceled() (cancel, unwind bool) {
	i.Lock()
	defer i.Unlock()

	return i.cancel, i.unwind
}

// CancelEvaluate requests that the evaluation in progress stop at its next
// readiness check. When unwind is set the request persists until
// ResetCancel is called.
//
// C U -> C U
// X X    1 unwind
func (i *interp) CancelEvaluate(unwind bool, message string) {
	i.Lock()
	defer i.Unlock()

	i.cancel = true
	i.cancelMessage = message
	i.unwind = i.unwind || unwind

	i.logger.Debug("cancel requested", "unwind", unwind)
}

// Exit requests that every evaluation on every level stop successfully.
func (i *interp) Exit(code int) {
	i.Lock()
	defer i.Unlock()

	i.exitCode = code
	i.exited = true
}

// Exited returns true and the exit code if exit has been requested.
func (i *interp) Exited() (bool, int) {
	i.Lock()
	defer i.Unlock()

	return i.exited, i.exitCode
}

// Halted returns true if evaluation is halted.
func (i *interp) Halted() bool {
	i.Lock()
	defer i.Unlock()

	return i.halt
}

// HaltEvaluate blocks all evaluation until ResetHalt is called.
//
// H -> H
// X    1
func (i *interp) HaltEvaluate(message string) {
	i.Lock()
	defer i.Unlock()

	i.halt = true
	i.haltMessage = message

	i.logger.Debug("halt requested")
}

// QueueEvent queues fn to run on the next thread to pass a readiness check.
func (i *interp) QueueEvent(name string, fn func(i *T)) {
	i.Lock()
	defer i.Unlock()

	i.events = append(i.events, event{name: name, run: fn})
}

// Ready checks whether evaluation may proceed. A pending cancel is cleared
// when observed. When the check passes, queued events are serviced.
//
// C U H -> C U H
// X X 1    X X 1 fails "eval halted"
// X 1 0    0 1 0 fails "eval unwound"
// 1 0 0    0 0 0 fails "eval canceled"
// 0 0 0    0 0 0 services events.
func (i *interp) Ready() result.T {
	if i.disposed.Load() {
		return unusable()
	}

	i.Lock()

	r := i.state()

	service := r.Code == result.Ok && len(i.events) > 0 &&
		!i.servicing && i.eventFlags&ServiceEvents != 0

	var events []event
	if service {
		events = i.events
		i.events = nil
		i.servicing = true
	}

	i.Unlock()

	if r.Code != result.Ok {
		return r
	}

	if service {
		i.service(events)
	}

	if i.disposed.Load() {
		return unusable()
	}

	return result.T{}
}

// ResetCancel clears the cancel and unwind flags. Unless force is set, a
// cancel request that has not yet been observed is left pending when
// evaluation is in progress. It returns true if anything was reset.
//
// C U -> C U
// 1 X    0 0 when force or idle
// 0 1    0 0.
func (i *interp) ResetCancel(force bool) bool {
	i.Lock()
	defer i.Unlock()

	reset := i.unwind

	if i.cancel && (force || i.busy.Load() == 0) {
		reset = true
		i.cancel = false
	}

	i.unwind = false
	i.cancelMessage = ""

	if reset {
		i.logger.Debug("cancel reset", "force", force)
	}

	return reset
}

// ResetHalt clears the halt flag. It is refused with ErrBusy while an
// evaluation is in progress unless force is set.
//
// H -> H
// 1    0 when force or idle.
func (i *interp) ResetHalt(force bool) error {
	i.Lock()
	defer i.Unlock()

	if !force && i.busy.Load() > 0 {
		return ErrBusy
	}

	i.halt = false
	i.haltMessage = ""

	i.logger.Debug("halt reset", "force", force)

	return nil
}

// Unwinding returns true if an unwind is pending. Commands that catch errors
// must let errors through while unwinding.
func (i *interp) Unwinding() bool {
	i.Lock()
	defer i.Unlock()

	return i.unwind
}

func (i *interp) service(events []event) {
	defer func() {
		i.Lock()
		i.servicing = false
		i.Unlock()
	}()

	for _, e := range events {
		i.logger.Debug("servicing event", "event", e.name)
		e.run(i)
	}
}

// state returns an Error result if the halt, unwind or cancel flags are set.
// The caller must hold the lock.
func (i *interp) state() result.T {
	switch {
	case i.halt:
		return stopped(i.haltMessage, ErrHalted, "TCL CANCEL HALT")
	case i.unwind:
		return stopped(i.cancelMessage, ErrUnwound, "TCL CANCEL UNWIND")
	case i.cancel:
		i.cancel = false

		return stopped(i.cancelMessage, ErrCanceled, "TCL CANCEL EVAL")
	}

	return result.T{}
}

func stopped(message string, err error, code string) result.T {
	if message == "" {
		message = err.Error()
	}

	return result.T{
		Code:      result.Error,
		Value:     message,
		Cause:     err,
		ErrorCode: code,
	}
}
