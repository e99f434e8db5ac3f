// Released under an MIT license. See LICENSE.

// Package options parses ember's command-line.
package options

import (
	"os"

	"github.com/docopt/docopt-go"
	"github.com/mattn/go-isatty"
)

//nolint:gochecknoglobals
var (
	args        []string
	command     string
	config      string
	debug       bool
	global      bool
	interactive bool
	policy      string
	script      string
	stdin       bool
	usage       = `ember

Usage:
  ember [-dg] [--config=FILE] [--policy=FILE] SCRIPT [ARGUMENTS...]
  ember [-dg] [--config=FILE] [--policy=FILE] -c COMMAND [NAME [ARGUMENTS...]]
  ember [-dg] [--config=FILE] [--policy=FILE] [-s [ARGUMENTS...]]
  ember -h
  ember -v

Arguments:
  ARGUMENTS  Published as argv.
  SCRIPT     Path to ember script. Also used as the value of argv0.
  NAME       Override argv0. Otherwise, argv0 is the name used to invoke ember.

Options:
  -c, --command=COMMAND  Evaluate the specified command.
  -d, --debug            Log at the debug level.
  -g, --global           Evaluate every script at the global level.
  -s, --stdin            Read commands from stdin.
  --config=FILE          Read settings from FILE.
  --policy=FILE          Read the hidden command policy from FILE.
  -h, --help             Display this help.
  -v, --version          Print ember version.

If ember's stdin is a TTY, and ember was invoked with no script or command,
commands are read interactively. Otherwise, they are read from stdin.
`
	version = "0.1"
)

// Args returns argv0 followed by the arguments published as argv.
func Args() []string {
	return args
}

// Command returns the command given with -c, if any.
func Command() string {
	return command
}

// Config returns the settings file given with --config, if any.
func Config() string {
	return config
}

// Debug returns true if debug logging was requested.
func Debug() bool {
	return debug
}

// Global returns true if scripts should be evaluated at the global level.
func Global() bool {
	return global
}

// Interactive returns true if commands should be read from a terminal.
func Interactive() bool {
	return interactive
}

// Parse parses os.Args. Help and version requests exit.
func Parse() {
	opts, err := docopt.ParseArgs(usage, os.Args[1:], version)
	if err != nil {
		// Error in the usage doc. This should never happen.
		panic(err.Error())
	}

	parse(opts, os.Args[0], isatty.IsTerminal(os.Stdin.Fd()))
}

// Policy returns the policy file given with --policy, if any.
func Policy() string {
	return policy
}

// Script returns the path of the script to evaluate, if any.
func Script() string {
	return script
}

// Stdin returns true if commands should be read, non-interactively, from stdin.
func Stdin() bool {
	return stdin
}

func parse(opts docopt.Opts, self string, terminal bool) {
	script = ""
	interactive = false
	stdin = false

	command, _ = opts.String("--command")
	config, _ = opts.String("--config")
	policy, _ = opts.String("--policy")
	debug, _ = opts.Bool("--debug")
	global, _ = opts.Bool("--global")

	name, _ := opts.String("NAME")
	if name == "" {
		name = self
	}

	path, _ := opts.String("SCRIPT")
	if path != "" {
		name = path
		script = path
	} else if command == "" {
		if terminal {
			interactive = true
		} else {
			stdin = true
		}
	}

	args, _ = opts["ARGUMENTS"].([]string)
	args = append([]string{name}, args...)
}
