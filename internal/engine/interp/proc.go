// Released under an MIT license. See LICENSE.

package interp

import (
	"fmt"
	"strings"

	"github.com/emberlang/ember/internal/common/struct/frame"
	"github.com/emberlang/ember/internal/common/type/list"
	"github.com/emberlang/ember/internal/engine/result"
	"github.com/emberlang/ember/internal/engine/vars"
)

type param struct {
	name     string
	fallback string
	optional bool
}

// Proc is a procedure defined in script.
type Proc struct {
	body   string
	id     Identity
	params []param
}

// NewProc creates a procedure from a Tcl argument list and body.
func NewProc(name, params, body string) (*Proc, error) {
	specs, err := list.Split(params)
	if err != nil {
		return nil, err
	}

	p := &Proc{body: body}
	p.id.Name = name
	p.id.Safe = true

	for _, spec := range specs {
		fields, err := list.Split(spec)
		if err != nil {
			return nil, err
		}

		switch len(fields) {
		case 0:
			return nil, fmt.Errorf(
				"procedure \"%s\" has argument with no name", name,
			)
		case 1:
			p.params = append(p.params, param{name: fields[0]})
		case 2:
			p.params = append(p.params, param{
				name: fields[0], fallback: fields[1], optional: true,
			})
		default:
			return nil, fmt.Errorf(
				"too many fields in argument specifier \"%s\"", spec,
			)
		}
	}

	return p, nil
}

// Body returns the procedure's body.
func (p *Proc) Body() string {
	return p.body
}

// Default returns the default value of the parameter name.
func (p *Proc) Default(name string) (string, bool) {
	for _, prm := range p.params {
		if prm.name == name {
			return prm.fallback, prm.optional
		}
	}

	return "", false
}

// Execute binds args to the procedure's parameters in a new Procedure call
// frame and evaluates the body.
func (p *Proc) Execute(i *T, _ any, args []string) result.T {
	table := vars.New()

	if r := p.bind(table, args); r.Code != result.Ok {
		return r
	}

	name := p.id.Name

	defer i.PushFrame(frame.Procedure, name, table)()

	i.Frame().Args = args

	r := i.EvaluateScript(name, 1, p.body, 0, len(p.body), 0)
	if i.disposed.Load() {
		return unusable()
	}

	switch r.Code {
	case result.Return:
		r = i.updateReturnInfo(r)
	case result.Break, result.Continue:
		r = result.Errorf("invoked \"%s\" outside of a loop", r.Code)
	}

	if r.Code == result.Error {
		i.AddErrorInformation(r, fmt.Sprintf(
			"\n    (procedure \"%s\" line %d)", name, i.ErrorLineNumber(),
		))
	}

	return r
}

// Identity returns the procedure's identity.
func (p *Proc) Identity() *Identity {
	return &p.id
}

// Kind returns Procedure.
func (p *Proc) Kind() Kind {
	return Procedure
}

// Params returns the names of the procedure's parameters.
func (p *Proc) Params() []string {
	names := make([]string, len(p.params))
	for k, prm := range p.params {
		names[k] = prm.name
	}

	return names
}

func (p *Proc) bind(table *vars.T, args []string) result.T {
	actual := args[1:]
	last := len(p.params) - 1

	for k, prm := range p.params {
		var value string

		switch {
		case k == last && prm.name == "args":
			if k < len(actual) {
				value = list.Merge(actual[k:]...)
			}

			actual = actual[:min(k, len(actual))]

		case k < len(actual):
			value = actual[k]

		case prm.optional:
			value = prm.fallback

		default:
			return p.usage(args[0])
		}

		if _, err := table.Set(vars.Scalar(prm.name), value, false); err != nil {
			return result.FromError(err)
		}
	}

	if len(actual) > len(p.params) {
		return p.usage(args[0])
	}

	return result.T{}
}

func (p *Proc) entity() {}

func (p *Proc) usage(name string) result.T {
	words := []string{name}

	for k, prm := range p.params {
		switch {
		case k == len(p.params)-1 && prm.name == "args":
			words = append(words, "?arg ...?")
		case prm.optional:
			words = append(words, "?"+prm.name+"?")
		default:
			words = append(words, prm.name)
		}
	}

	return result.Errorf(
		"wrong # args: should be \"%s\"", strings.Join(words, " "),
	)
}
