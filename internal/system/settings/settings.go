// Released under an MIT license. See LICENSE.

// Package settings loads ember's TOML settings file.
package settings

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// T (settings) holds every configurable value.
type T struct {
	Async   Async   `toml:"async"`
	Engine  Engine  `toml:"engine"`
	History History `toml:"history"`
	Policy  Policy  `toml:"policy"`
}

type settings = T

// Async configures asynchronous evaluation.
type Async struct {
	Workers int `toml:"workers"`
}

// Engine configures the interpreter.
type Engine struct {
	EvaluateGlobal  bool   `toml:"evaluate_global"`
	LogLevel        string `toml:"log_level"`
	MaxLevels       int    `toml:"max_levels"`
	MaxResultLength int    `toml:"max_result_length"`
	NoFunctions     bool   `toml:"no_functions"`
	Safe            bool   `toml:"safe"`
	UsePrefix       bool   `toml:"use_prefix"`
}

// History configures the interactive history file.
type History struct {
	Disabled bool   `toml:"disabled"`
	File     string `toml:"file"`
}

// Policy names the YAML file with the rules for hidden commands.
type Policy struct {
	File string `toml:"file"`
}

// Default returns the settings used when there is no settings file.
func Default() *T {
	s := &T{}
	s.defaults()

	return s
}

// Load reads the settings file path. Environment variables in path and in
// file names are expanded.
func Load(path string) (*T, error) {
	path = os.ExpandEnv(path)

	s := &T{}
	if _, err := toml.DecodeFile(path, s); err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	s.defaults()

	return s, nil
}

// Parse decodes settings from TOML text.
func Parse(text string) (*T, error) {
	s := &T{}
	if _, err := toml.Decode(text, s); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}

	s.defaults()

	return s, nil
}

// Level returns the log level named by the engine settings.
func (s *settings) Level() slog.Level {
	switch strings.ToLower(s.Engine.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	return slog.LevelInfo
}

func (s *settings) defaults() {
	if s.History.File == "" {
		if home, err := os.UserHomeDir(); err == nil {
			s.History.File = filepath.Join(home, ".ember_history")
		}
	}

	s.History.File = os.ExpandEnv(s.History.File)
	s.Policy.File = os.ExpandEnv(s.Policy.File)
}
