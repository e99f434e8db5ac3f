// Released under an MIT license. See LICENSE.

// Package cache remembers directory listings for file name completion.
// Listings are refreshed in the background each time they are served.
package cache

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Complete returns the paths starting with prefix. Directories end with a
// path separator.
func Complete(prefix string) []string {
	dirname, basename := filepath.Split(prefix)

	var c []string

	for _, name := range Entries(dirname) {
		if strings.HasPrefix(name, basename) {
			c = append(c, dirname+name)
		}
	}

	return c
}

// Entries returns the cached listing of dirname. The first request for a
// directory reads it.
func Entries(dirname string) []string {
	resultq := make(chan []string)

	requestq <- func() {
		e, ok := entries[key(dirname)]
		if !ok {
			e = read(dirname)
			entries[key(dirname)] = e
		}

		resultq <- e
		close(resultq)
	}

	e := <-resultq

	go Refresh(dirname)

	return e
}

// Invalidate forgets the listing of dirname.
func Invalidate(dirname string) {
	done := make(chan struct{})

	requestq <- func() {
		delete(entries, key(dirname))
		close(done)
	}

	<-done
}

// Refresh rereads the listing of dirname.
func Refresh(dirname string) {
	done := make(chan struct{})

	requestq <- func() {
		entries[key(dirname)] = read(dirname)
		close(done)
	}

	<-done
}

//nolint:gochecknoglobals
var (
	entries       = map[string][]string{}
	pathSeparator = string(os.PathSeparator)
	requestq      chan func()
)

func init() {
	requestq = make(chan func(), 1)

	go service()
}

func key(dirname string) string {
	if dirname == "" {
		return "."
	}

	return filepath.Clean(expand(dirname))
}

func expand(dirname string) string {
	if !strings.HasPrefix(dirname, "~") {
		return dirname
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return dirname
	}

	return home + dirname[1:]
}

func read(dirname string) []string {
	d, err := os.ReadDir(key(dirname))
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(d))

	for _, e := range d {
		name := e.Name()
		if e.IsDir() {
			name += pathSeparator
		}

		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func service() {
	for {
		(<-requestq)()
	}
}
