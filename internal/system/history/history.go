// Released under an MIT license. See LICENSE.

// Package history loads and saves the interactive command history.
package history

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Load passes the history file path to read. A missing file is not an error.
func Load(path string, read func(r io.Reader) (int, error)) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}

	defer f.Close()

	_, err = read(f)

	return err
}

// Save writes the history to path using write.
func Save(path string, write func(w io.Writer) (int, error)) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}

	_, err = write(f)
	if err != nil {
		_ = f.Close()

		return err
	}

	return f.Close()
}
