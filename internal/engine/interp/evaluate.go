// Released under an MIT license. See LICENSE.

package interp

import (
	"fmt"
	"io"
	"os"

	"github.com/emberlang/ember/internal/common/struct/frame"
	"github.com/emberlang/ember/internal/common/struct/token"
	"github.com/emberlang/ember/internal/common/type/list"
	"github.com/emberlang/ember/internal/engine/result"
	"github.com/emberlang/ember/internal/reader/parser"
)

// EvaluateFile evaluates the contents of the file name in a new External
// call frame.
func (i *interp) EvaluateFile(name string, flags EngineFlags) result.T {
	b, err := os.ReadFile(name)
	if err != nil {
		return result.T{
			Code:  result.Error,
			Value: fmt.Sprintf("couldn't read file \"%s\": %v", name, err),
			Cause: err,
		}
	}

	return i.external(name, string(b), flags)
}

// EvaluateScript evaluates the commands in text[start:start+length]. The
// region begins on line startLine of the source name. The flags are widened
// with the interpreter's engine flags.
func (i *interp) EvaluateScript(name string, startLine int, text string, start, length int, flags EngineFlags) result.T {
	if i.disposed.Load() {
		return unusable()
	}

	flags |= i.engineFlags

	outermost, r := i.enter()
	defer i.leave(outermost)

	if r.Code != result.Ok {
		return r
	}

	if flags&NoEvaluate != 0 {
		return result.Errorf("script evaluation is disabled")
	}

	if flags&NoResetResult == 0 {
		i.ResetResult()
	}

	if flags&EvaluateGlobal != 0 {
		defer i.PushFrame(frame.Global, "", i.globals)()
	}

	start, end := bounds(text, start, length)

	r = i.evaluate(name, startLine, text[start:end], flags)

	if i.disposed.Load() {
		return unusable()
	}

	if outermost {
		if r.Code == result.Return {
			r = i.updateReturnInfo(r)
		}

		i.snapshot(&r)
	}

	if flags&ResetReturnCode != 0 {
		i.SetReturnOptions(result.Ok, "", "")
	}

	return r
}

// EvaluateStream evaluates everything read from r in a new External call
// frame.
func (i *interp) EvaluateStream(name string, r io.Reader, flags EngineFlags) result.T {
	b, err := io.ReadAll(r)
	if err != nil {
		return result.FromError(fmt.Errorf("reading %s: %w", name, err))
	}

	return i.external(name, string(b), flags)
}

// Invoke resolves args[0] and executes the entity found. When nothing is
// found the unknown command, if any, is invoked with the original words.
func (i *interp) Invoke(args []string, flags EngineFlags) result.T {
	if len(args) == 0 {
		return result.T{}
	}

	flags |= i.engineFlags

	ambiguous, e, err := i.resolver.Resolve(i, args[0], args, flags)
	if err == nil && e != nil {
		if !e.Identity().Hidden() || flags&InvokeHidden != 0 {
			return i.Execute(args[0], e, e.Identity().ClientData, args, flags)
		}
	}

	if err == nil {
		err = fmt.Errorf("invalid command name \"%s\"", args[0])
	}

	if ambiguous || i.unknown || flags&NoUnknown != 0 {
		return result.FromError(err)
	}

	_, u, uerr := i.resolver.Resolve(i, "unknown", nil, flags&^(InvokeHidden|UsePrefix))
	if uerr != nil || u == nil || u.Identity().Hidden() {
		return result.FromError(err)
	}

	i.logger.Debug("unknown command fallback", "command", args[0])

	i.unknown = true
	defer func() {
		i.unknown = false
	}()

	words := append([]string{"unknown"}, args...)

	return i.Execute("unknown", u, u.Identity().ClientData, words, flags)
}

// InvokeHidden resolves and executes args[0], which may be a hidden command.
func (i *interp) InvokeHidden(args []string, flags EngineFlags) result.T {
	return i.Invoke(args, flags|InvokeHidden|NoUnknown)
}

func bounds(text string, start, length int) (int, int) {
	if start < 0 {
		start = 0
	}

	if start > len(text) {
		start = len(text)
	}

	end := start + length
	if length < 0 || end > len(text) {
		end = len(text)
	}

	return start, end
}

// command builds the words of the command most recently parsed by p and
// invokes it.
func (i *interp) command(p *parser.T, flags EngineFlags) result.T {
	args, r := i.words(p)
	if r.Code != result.Ok {
		return r
	}

	if len(args) == 0 {
		return result.T{}
	}

	return i.Invoke(args, flags&^(EvaluateGlobal|BracketTerminator|NoResetResult))
}

// enter starts a nested evaluation. It returns true if this is the thread's
// outermost evaluation and an Error result if the level limit is exceeded.
func (i *interp) enter() (bool, result.T) {
	i.levels++

	outermost := i.levels == 1
	if outermost && i.busy.Add(1) == 1 {
		i.Lock()
		i.cancel = false
		i.Unlock()
	}

	if i.levels > i.maxLevels {
		return outermost, i.tooDeep()
	}

	return outermost, result.T{}
}

// evaluate runs the commands in text one at a time.
func (i *interp) evaluate(name string, line int, text string, flags EngineFlags) result.T {
	bracket := flags&BracketTerminator != 0

	p := parser.New(name, line, text)

	var r result.T

	for pos := 0; pos < len(text); {
		if ready := i.Ready(); ready.Code != result.Ok {
			return ready
		}

		if err := p.ParseCommand(pos, len(text)-pos, bracket); err != nil {
			r = result.FromError(err)

			_, end := bounds(text, p.Term, 1)
			i.logCommandInfo(r, text, p.CommandStart, text[p.CommandStart:end], line)

			return r
		}

		if p.Words > 0 {
			at := p.Source.Advance(text, p.CommandStart)
			i.frame.Update(&at)

			r = i.command(p, flags)
			if r.Code != result.Ok {
				if r.Code == result.Error && !i.disposed.Load() {
					i.logCommandInfo(r, text, p.CommandStart, p.Command(), line)
				}

				return r
			}

			if exited, _ := i.Exited(); exited {
				return r
			}
		}

		if bracket && p.Term < len(text) && text[p.Term] == ']' {
			return r
		}

		pos = p.CommandStart + p.CommandSize
	}

	if bracket {
		return result.Errorf("missing close-bracket")
	}

	return r
}

func (i *interp) external(name, text string, flags EngineFlags) result.T {
	if i.disposed.Load() {
		return unusable()
	}

	flags |= i.engineFlags

	outermost := i.levels == 0

	if flags&EvaluateGlobal != 0 {
		defer i.PushFrame(frame.Global, "", i.globals)()
	}

	defer i.PushFrame(frame.External, name, nil)()

	r := i.EvaluateScript(name, 1, text, 0, len(text), flags&^EvaluateGlobal)
	if i.disposed.Load() {
		return unusable()
	}

	if r.Code == result.Return {
		r = i.updateReturnInfo(r)
	}

	if r.Code == result.Error {
		i.AddErrorInformation(r, fmt.Sprintf(
			"\n    (file \"%s\" line %d)", name, i.ErrorLineNumber(),
		))

		if outermost {
			i.snapshot(&r)
		}
	}

	return r
}

func (i *interp) leave(outermost bool) {
	i.levels--

	if outermost {
		i.busy.Add(-1)
	}
}

// words substitutes the words of the command most recently parsed by p.
// Expanded words contribute one argument per list element.
func (i *interp) words(p *parser.T) (args []string, r result.T) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}

		c, ok := i.critical(v)
		if !ok {
			panic(v)
		}

		args, r = nil, c
	}()

	args = make([]string, 0, p.Words)

	for k := 0; k < len(p.Tokens); {
		t := &p.Tokens[k]

		w := i.EvaluateTokens(p, k+1, t.Components, SubstAll)
		if w.Code != result.Ok {
			return nil, w
		}

		if t.Class == token.ExpandWord {
			l, err := list.Split(w.Value)
			if err != nil {
				return nil, result.FromError(err)
			}

			args = append(args, l...)
		} else {
			args = append(args, w.Value)
		}

		k += 1 + t.Components
	}

	return args, result.T{}
}
