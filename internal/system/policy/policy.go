// Released under an MIT license. See LICENSE.

// Package policy decides whether hidden commands may be invoked. Rules are
// read from YAML and match command names with glob patterns.
package policy

import (
	"fmt"
	"os"

	"github.com/michaelmacinnis/adapted"
	"gopkg.in/yaml.v3"
)

// Decision is the outcome of a policy check.
type Decision int

// Decisions.
const (
	Undecided Decision = iota
	Approved
	Denied
)

func (d Decision) String() string {
	switch d {
	case Approved:
		return "approved"
	case Denied:
		return "denied"
	}

	return "undecided"
}

// Rules is the YAML form of a policy.
//
//	allow: ["string", "info"]
//	deny: ["exit"]
//	message: "not permitted here"
type Rules struct {
	Allow   []string `yaml:"allow"`
	Deny    []string `yaml:"deny"`
	Message string   `yaml:"message"`
}

// T (policy) is a set of rules.
type T struct {
	rules Rules
}

type policy = T

// Load reads the policy in the YAML file path.
func Load(path string) (*T, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy: %w", err)
	}

	p, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return p, nil
}

// New creates a policy from rules.
func New(rules Rules) *T {
	return &T{rules: rules}
}

// Parse creates a policy from YAML.
func Parse(b []byte) (*T, error) {
	var rules Rules

	if err := yaml.Unmarshal(b, &rules); err != nil {
		return nil, fmt.Errorf("parsing policy: %w", err)
	}

	for _, p := range append(rules.Allow, rules.Deny...) {
		if _, err := adapted.Match(p, ""); err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
	}

	return New(rules), nil
}

// CheckCommand decides if the command name may be invoked with args. A
// denial may come with a message.
func (p *policy) CheckCommand(name string, args []string) (Decision, string) {
	if p == nil {
		return Approved, ""
	}

	if matches(p.rules.Deny, name) {
		return Denied, p.message(name)
	}

	if len(p.rules.Allow) == 0 || matches(p.rules.Allow, name) {
		return Approved, ""
	}

	return Denied, p.message(name)
}

func (p *policy) message(name string) string {
	if p.rules.Message != "" {
		return p.rules.Message
	}

	return fmt.Sprintf("permission denied for command \"%s\"", name)
}

func matches(patterns []string, name string) bool {
	for _, p := range patterns {
		ok, err := adapted.Match(p, name)
		if err == nil && ok {
			return true
		}
	}

	return false
}
