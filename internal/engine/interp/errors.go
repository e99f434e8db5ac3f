// Released under an MIT license. See LICENSE.

package interp

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"unicode/utf8"

	"github.com/emberlang/ember/internal/common/struct/loc"
	"github.com/emberlang/ember/internal/common/type/list"
	"github.com/emberlang/ember/internal/engine/result"
)

// Sentinel errors carried as the Cause of Error results.
var (
	ErrBusy          = errors.New("interpreter is busy")
	ErrCanceled      = errors.New("eval canceled")
	ErrHalted        = errors.New("eval halted")
	ErrOutOfMemory   = errors.New("out of memory")
	ErrStackOverflow = errors.New("stack overflow")
	ErrUnusable      = errors.New("interpreter is unusable")
	ErrUnwound       = errors.New("eval unwound")
)

const (
	// Longest command text quoted in an errorInfo trace line.
	maxCommandLength = 150

	// Once a stack overflow is detected, trace lines are dropped after this
	// many frames while deeper than this many levels.
	overflowFrames = 5
	overflowLevels = 5
)

// The type errorState tracks errorInfo and errorCode while an error
// unwinds, and the options set by the most recent return command.
type errorState struct {
	alreadyLogged   bool
	errorCodeSet    bool
	errorInProgress bool
	stackOverflow   bool
	truncated       bool

	errorCode   string
	errorFrames int
	errorInfo   string
	errorLine   int

	returnCode      result.Code
	returnErrorCode string
	returnErrorInfo string
}

// ErrorLine returns the 1-based line, counting from startLine, of offset in
// the script text[start:].
func ErrorLine(text string, start, offset, startLine int) int {
	if start < 0 {
		start = 0
	}

	if start > len(text) {
		start = len(text)
	}

	return loc.Line(text[start:], offset-start, startLine)
}

// AddErrorInformation appends line to errorInfo. The first call while an
// error unwinds seeds errorInfo with the error message in r and errorCode
// with r.ErrorCode (or NONE) unless it has already been set.
func (i *interp) AddErrorInformation(r result.T, line string) {
	i.addErrorInformation(r, func(bool) string {
		return line
	})
}

// ErrorCode returns the current errorCode.
func (i *interp) ErrorCode() string {
	i.Lock()
	defer i.Unlock()

	return i.errorCode
}

// ErrorInfo returns the current errorInfo.
func (i *interp) ErrorInfo() string {
	i.Lock()
	defer i.Unlock()

	return i.errorInfo
}

// ErrorLineNumber returns the line of the command that most recently failed.
func (i *interp) ErrorLineNumber() int {
	i.Lock()
	defer i.Unlock()

	return i.errorLine
}

// ResetResult clears the flags that guard errorInfo and errorCode.
func (i *interp) ResetResult() {
	i.Lock()
	defer i.Unlock()

	i.alreadyLogged = false
	i.errorCodeSet = false
	i.errorInProgress = false
}

// SetAlreadyLogged marks the current error as already having a trace line
// for the command that raised it.
func (i *interp) SetAlreadyLogged() {
	i.Lock()
	defer i.Unlock()

	i.alreadyLogged = true
}

// SetErrorCode sets errorCode for the error being raised.
func (i *interp) SetErrorCode(code string) {
	i.Lock()
	i.errorCode = code
	i.errorCodeSet = true
	i.Unlock()

	i.setGlobal("errorCode", code, false)
}

// SetExceptionErrorCode sets errorCode to "EXCEPTION <type> <method>" for
// the root cause of err. It does nothing if errorCode is already set.
func (i *interp) SetExceptionErrorCode(err error, method string) bool {
	if err == nil {
		return false
	}

	root := err
	for u := errors.Unwrap(root); u != nil; u = errors.Unwrap(root) {
		root = u
	}

	code := list.Merge("EXCEPTION", fmt.Sprintf("%T", root), method)

	i.Lock()

	if i.errorCodeSet {
		i.Unlock()

		return false
	}

	i.errorCode = code
	i.errorCodeSet = true

	i.Unlock()

	i.setGlobal("errorCode", code, false)

	return true
}

// SetReturnOptions records the options of a return command. They are
// applied when the enclosing procedure, file or script returns.
func (i *interp) SetReturnOptions(code result.Code, errorInfo, errorCode string) {
	i.Lock()
	defer i.Unlock()

	i.returnCode = code
	i.returnErrorCode = errorCode
	i.returnErrorInfo = errorInfo
}

func (i *interp) addErrorInformation(r result.T, trace func(inProgress bool) string) {
	i.Lock()

	seed := !i.errorInProgress
	if seed {
		i.errorInProgress = true
		i.errorInfo = r.Value
	}

	code := ""
	if seed && !i.errorCodeSet {
		code = r.ErrorCode
		if code == "" {
			code = "NONE"
		}

		i.errorCode = code
		i.errorCodeSet = true
	}

	line := trace(!seed)

	skip := false

	if i.stackOverflow && i.errorFrames > overflowFrames && i.levels > overflowLevels {
		if i.truncated {
			skip = true
		} else {
			i.truncated = true
			line = fmt.Sprintf("\n    ...\n    (stack overflow line %d)", i.errorLine)
		}
	}

	if !skip {
		i.errorFrames++
		i.errorInfo += line
	}

	i.Unlock()

	switch {
	case seed && skip:
		i.setGlobal("errorInfo", r.Value, false)
	case seed:
		i.setGlobal("errorInfo", r.Value+line, false)
	case !skip:
		i.setGlobal("errorInfo", line, true)
	}

	if code != "" {
		i.setGlobal("errorCode", code, false)
	}
}

// critical converts a recovered stack overflow or out-of-memory panic into
// an Error result. It returns false for any other value.
func (i *interp) critical(v any) (result.T, bool) {
	err, ok := v.(error)
	if !ok {
		return result.T{}, false
	}

	switch {
	case errors.Is(err, ErrStackOverflow):
		i.Lock()
		i.stackOverflow = true
		i.Unlock()

		return result.T{
			Code:      result.Error,
			Value:     ErrStackOverflow.Error(),
			Cause:     err,
			ErrorCode: "CORE STACK OVERFLOW",
		}, true

	case errors.Is(err, ErrOutOfMemory), strings.Contains(err.Error(), "out of memory"):
		runtime.GC()
		debug.FreeOSMemory()

		i.logger.Warn("out of memory", "error", err)

		return result.T{
			Code:      result.Error,
			Value:     ErrOutOfMemory.Error(),
			Cause:     err,
			ErrorCode: "CORE OUT OF MEMORY",
		}, true
	}

	return result.T{}, false
}

// logCommandInfo adds the trace line for the failed command at offset start
// in text unless the command already added its own.
func (i *interp) logCommandInfo(r result.T, text string, start int, command string, startLine int) {
	i.Lock()

	logged := i.alreadyLogged
	i.alreadyLogged = false

	if !logged {
		i.errorLine = ErrorLine(text, 0, start, startLine)
	}

	i.Unlock()

	if logged {
		return
	}

	ellipsis := ""
	if utf8.RuneCountInString(command) > maxCommandLength {
		command = string([]rune(command)[:maxCommandLength])
		ellipsis = "..."
	}

	i.addErrorInformation(r, func(inProgress bool) string {
		if inProgress {
			return "\n    invoked from within\n\"" + command + ellipsis + "\""
		}

		return "\n    while executing\n\"" + command + ellipsis + "\""
	})
}

// snapshot copies the error state onto an Error result and resets the
// per-unwind counters. It is called when the outermost evaluation returns.
func (i *interp) snapshot(r *result.T) {
	i.Lock()
	defer i.Unlock()

	if r.Code == result.Error {
		r.ErrorLine = i.errorLine

		r.ErrorCode = "NONE"
		if i.errorCodeSet {
			r.ErrorCode = i.errorCode
		}

		r.ErrorInfo = r.Value
		if i.errorInProgress {
			r.ErrorInfo = i.errorInfo
		}
	}

	i.errorFrames = 0
	i.stackOverflow = false
	i.truncated = false
}

func (i *interp) tooDeep() result.T {
	i.Lock()
	i.stackOverflow = true
	i.Unlock()

	return result.T{
		Code:      result.Error,
		Value:     "too many nested evaluations (infinite loop?)",
		Cause:     ErrStackOverflow,
		ErrorCode: "TCL LIMIT STACK",
	}
}

func (i *interp) updateReturnInfo(r result.T) result.T {
	i.Lock()

	code := i.returnCode
	ecode := i.returnErrorCode
	info := i.returnErrorInfo

	i.returnCode = result.Ok
	i.returnErrorCode = ""
	i.returnErrorInfo = ""

	if code == result.Error {
		if ecode == "" {
			ecode = "NONE"
		}

		i.errorCode = ecode
		i.errorCodeSet = true

		if info != "" {
			i.errorInfo = info
			i.errorInProgress = true
		}
	}

	i.Unlock()

	if code == result.Error {
		i.setGlobal("errorCode", ecode, false)

		if info != "" {
			i.setGlobal("errorInfo", info, false)
		}
	}

	return result.T{Code: code, Value: r.Value}
}

func unusable() result.T {
	return result.T{
		Code:  result.Error,
		Value: ErrUnusable.Error(),
		Cause: ErrUnusable,
	}
}
