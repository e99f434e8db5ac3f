// Released under an MIT license. See LICENSE.

// Package result provides the completion codes and values produced by
// evaluating ember code.
package result

import (
	"errors"
	"fmt"
	"strconv"
)

// Code is a completion code. Values above Continue are custom codes.
type Code int

// Completion codes.
const (
	Ok Code = iota
	Error
	Return
	Break
	Continue
)

// ParseCode converts a code name or integer into a Code.
func ParseCode(s string) (Code, error) {
	switch s {
	case "ok":
		return Ok, nil
	case "error":
		return Error, nil
	case "return":
		return Return, nil
	case "break":
		return Break, nil
	case "continue":
		return Continue, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return Ok, fmt.Errorf(
			`bad completion code "%s": must be ok, error, return, break, continue, or an integer`, s,
		)
	}

	return Code(n), nil
}

// String returns the Tcl name for c or its integer value for custom codes.
func (c Code) String() string {
	switch c {
	case Ok:
		return "ok"
	case Error:
		return "error"
	case Return:
		return "return"
	case Break:
		return "break"
	case Continue:
		return "continue"
	}

	return strconv.Itoa(int(c))
}

// T (result) is the outcome of evaluating a script, substituting a string or
// executing a single entity.
type T struct {
	Code  Code
	Value string

	// Cause is the Go error, if any, that produced an Error result.
	Cause error

	// The remaining fields are only meaningful for Error results. ErrorCode
	// and ErrorInfo are snapshotted when the outermost evaluation returns.
	ErrorLine int
	ErrorCode string
	ErrorInfo string

	// Denied is set when a policy refused to let the command run. Callers
	// must not retry through another resolution path.
	Denied bool
}

type result = T

// New creates a result with code c and value v.
func New(c Code, v string) T {
	return T{Code: c, Value: v}
}

// Value creates an Ok result with the value v.
func Value(v string) T {
	return T{Value: v}
}

// Errorf creates an Error result with a formatted message.
func Errorf(format string, args ...interface{}) T {
	return T{Code: Error, Value: fmt.Sprintf(format, args...)}
}

// FromError creates an Error result from err. A nil err is an empty Ok.
func FromError(err error) T {
	if err == nil {
		return T{}
	}

	var e *ScriptError
	if errors.As(err, &e) {
		return T{
			Code:      e.Code,
			Value:     e.Message,
			Cause:     e.Cause,
			ErrorLine: e.Line,
			ErrorCode: e.ErrorCode,
			ErrorInfo: e.ErrorInfo,
		}
	}

	return T{Code: Error, Value: err.Error(), Cause: err}
}

// Err converts a non-Ok result into an error. Ok results return nil.
func (r result) Err() error {
	if r.Code == Ok {
		return nil
	}

	return &ScriptError{
		Code:      r.Code,
		Message:   r.Value,
		Line:      r.ErrorLine,
		ErrorCode: r.ErrorCode,
		ErrorInfo: r.ErrorInfo,
		Cause:     r.Cause,
	}
}

// Failed returns true if r is an Error result.
func (r result) Failed() bool {
	return r.Code == Error
}

// ScriptError is the Go error form of a non-Ok result.
type ScriptError struct {
	Code      Code
	Message   string
	Line      int
	ErrorCode string
	ErrorInfo string
	Cause     error
}

func (e *ScriptError) Error() string {
	if e.Code == Error {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ScriptError) Unwrap() error {
	return e.Cause
}
