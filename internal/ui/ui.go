// Released under an MIT license. See LICENSE.

// Package ui provides an interactive command-line interface for ember.
package ui

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/emberlang/ember/internal/reader"
	"github.com/emberlang/ember/internal/system/cache"
	"github.com/emberlang/ember/internal/system/history"
	"github.com/peterh/liner"
)

// Engine is the interface for things that evaluate the commands read.
type Engine interface {
	Commands(prefix string) []string
	Evaluate(text string) (string, error)
	Exited() (bool, int)
	Halted() bool
	Reset()
	Variables(prefix string) []string
}

// Options configure the interface.
type Options struct {
	// History is the history file. Empty disables history.
	History string

	Logger *slog.Logger
	Stderr io.Writer
	Stdout io.Writer
}

// Run reads commands from the terminal and sends them to the Engine until
// end of input, exit or a halt.
func Run(e Engine, o Options) error {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}

	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}

	cli := liner.NewLiner()
	defer cli.Close()

	cli.SetCtrlCAborts(true)
	cli.SetTabCompletionStyle(liner.TabPrints)
	cli.SetWordCompleter(func(line string, pos int) (string, []string, string) {
		// The position is counted in runes.
		return complete(e, line, len(string([]rune(line)[:pos])))
	})

	if o.History != "" {
		if err := history.Load(o.History, cli.ReadHistory); err != nil {
			o.Logger.Warn("loading history", "file", o.History, "error", err)
		}

		defer func() {
			if err := history.Save(o.History, cli.WriteHistory); err != nil {
				o.Logger.Warn("saving history", "file", o.History, "error", err)
			}
		}()
	}

	r := reader.New("stdin")

	for {
		prompt := "% "
		if r.Pending() {
			prompt = "> "
		}

		line, err := cli.Prompt(prompt)

		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			r.Reset()

			continue
		case errors.Is(err, io.EOF):
			fmt.Fprintln(o.Stdout)

			return nil
		case err != nil:
			return err
		}

		text, ok := r.Scan(line)
		if !ok {
			continue
		}

		if s := strings.TrimSpace(text); s != "" {
			cli.AppendHistory(s)
		}

		value, err := e.Evaluate(text)
		if err != nil {
			fmt.Fprintln(o.Stderr, err)
		} else if value != "" {
			fmt.Fprintln(o.Stdout, value)
		}

		if exited, _ := e.Exited(); exited || e.Halted() {
			return nil
		}

		// Clear any interrupt that arrived too late to stop the evaluation.
		e.Reset()
	}
}

// complete completes the word ending at pos. The first word of a command is
// completed as a command name, a word starting with $ as a variable name and
// anything else as a file name.
func complete(e Engine, line string, pos int) (string, []string, string) {
	head, tail := line[:pos], line[pos:]

	start := strings.LastIndexAny(head, " \t;[{\"") + 1
	word := head[start:]
	head = head[:start]

	var c []string

	switch {
	case strings.HasPrefix(word, "$"):
		for _, name := range e.Variables(word[1:]) {
			c = append(c, "$"+name)
		}
	case commandPosition(head):
		for _, name := range e.Commands(word) {
			c = append(c, name+" ")
		}
	default:
		c = cache.Complete(word)
	}

	return head, c, tail
}

func commandPosition(head string) bool {
	s := strings.TrimRight(head, " \t")

	return s == "" || strings.HasSuffix(s, ";") || strings.HasSuffix(s, "[")
}
