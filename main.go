// Released under an MIT license. See LICENSE.

/*
Ember is an embeddable command language in the Tcl tradition. Every value is
a string and every statement is a command:

	set greeting hello
	proc greet {name} {
	    return "$::greeting, $name"
	}
	puts [greet world]

Invoked with a script, ember evaluates it. Invoked with -c, it evaluates the
command given. Otherwise it reads commands from stdin, interactively when
stdin is a terminal.

Ember is released under an MIT-style license.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/emberlang/ember/internal/engine"
	"github.com/emberlang/ember/internal/engine/result"
	"github.com/emberlang/ember/internal/system/options"
	"github.com/emberlang/ember/internal/system/process"
	"github.com/emberlang/ember/internal/system/settings"
	"github.com/emberlang/ember/internal/ui"
)

func main() {
	os.Exit(run())
}

func configure() (*settings.T, error) {
	s := settings.Default()

	if path := options.Config(); path != "" {
		var err error

		s, err = settings.Load(path)
		if err != nil {
			return nil, err
		}
	}

	if path := options.Policy(); path != "" {
		s.Policy.File = path
	}

	if options.Global() {
		s.Engine.EvaluateGlobal = true
	}

	return s, nil
}

func report(err error) {
	var se *result.ScriptError
	if errors.As(err, &se) && se.ErrorInfo != "" {
		fmt.Fprintln(os.Stderr, se.ErrorInfo)

		return
	}

	fmt.Fprintln(os.Stderr, err)
}

func run() int {
	options.Parse()

	s, err := configure()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		return 1
	}

	level := s.Level()
	if options.Debug() {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	e, err := engine.New(s, engine.Options{
		Args:   options.Args(),
		Logger: logger,
		Stderr: os.Stderr,
		Stdout: os.Stdout,
	})
	if err != nil {
		report(err)

		return 1
	}

	defer e.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	process.Watch(ctx, e.Interp(), logger)

	var value string

	switch {
	case options.Script() != "":
		_, err = e.Source(options.Script())
	case options.Command() != "":
		value, err = e.Evaluate(options.Command())
	case options.Interactive():
		o := ui.Options{Logger: logger, Stderr: os.Stderr, Stdout: os.Stdout}
		if !s.History.Disabled {
			o.History = s.History.File
		}

		err = ui.Run(e, o)
	default:
		_, err = e.Stream("stdin", os.Stdin)
	}

	if exited, code := e.Exited(); exited {
		return code
	}

	if err != nil {
		report(err)

		return 1
	}

	if value != "" {
		fmt.Println(value)
	}

	return 0
}
