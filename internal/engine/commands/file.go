// Released under an MIT license. See LICENSE.

package commands

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/emberlang/ember/internal/common/type/list"
	"github.com/emberlang/ember/internal/common/validate"
	"github.com/emberlang/ember/internal/engine/interp"
	"github.com/emberlang/ember/internal/engine/result"
	"github.com/michaelmacinnis/adapted"
)

// glob returns the file names matching each pattern. Relative patterns are
// matched against the directory given with -directory, if any, and the
// names returned are relative to it.
func glob(_ *interp.T, _ any, args []string) result.T {
	v := args[1:]

	complain := true
	dir := ""

options:
	for len(v) > 0 && strings.HasPrefix(v[0], "-") {
		switch v[0] {
		case "--":
			v = v[1:]

			break options
		case "-directory":
			if len(v) < 2 {
				return result.Errorf("missing argument to \"-directory\"")
			}

			dir = v[1]
			v = v[1:]
		case "-nocomplain":
			complain = false
		default:
			return result.Errorf(
				"bad option \"%s\": must be -directory, -nocomplain, or --", v[0],
			)
		}

		v = v[1:]
	}

	if len(v) == 0 {
		panic(validate.WrongArgs(args[0], "?switches? pattern ?pattern ...?"))
	}

	var names []string

	for _, pattern := range v {
		m, err := expand(dir, pattern)
		if err != nil {
			return result.FromError(err)
		}

		names = append(names, m...)
	}

	if len(names) == 0 && complain {
		return result.Errorf(
			"no files matched glob pattern%s \"%s\"",
			plural(len(v)), strings.Join(v, " "),
		)
	}

	sort.Strings(names)

	return result.Value(list.Merge(names...))
}

func expand(dir, pattern string) ([]string, error) {
	if strings.HasPrefix(pattern, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}

		pattern = home + pattern[1:]
	}

	path := pattern
	if dir != "" && !filepath.IsAbs(pattern) {
		path = dir + string(os.PathSeparator) + pattern
	}

	if !strings.ContainsAny(path, "*?[") {
		if _, err := os.Lstat(path); err != nil {
			return nil, nil
		}

		return []string{pattern}, nil
	}

	m, err := adapted.Glob(path)
	if err != nil {
		return nil, err
	}

	if dir == "" || filepath.IsAbs(pattern) {
		return m, nil
	}

	base := filepath.Clean(dir)

	for k, name := range m {
		if rel, err := filepath.Rel(base, name); err == nil {
			m[k] = rel
		}
	}

	return m, nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}

	return "s"
}
