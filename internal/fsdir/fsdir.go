// Package fsdir confines file reads and writes to a single serving
// directory. Names containing a parent-directory segment are rejected before
// the filesystem is touched.
package fsdir

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrInvalidName reports a name that tries to escape the serving root.
	ErrInvalidName = errors.New("invalid file name")
	// ErrNotFound reports a name that resolves to nothing readable.
	ErrNotFound = errors.New("file not found")
	// ErrNoDirectory reports that no serving directory was configured.
	ErrNoDirectory = errors.New("no serving directory configured")
)

type Dir struct {
	root string
}

func New(root string) *Dir {
	return &Dir{root: root}
}

// Open returns a reader over the named file plus its size in bytes. The
// caller owns the reader and must close it.
func (d *Dir) Open(name string) (io.ReadCloser, int64, error) {
	path, err := d.resolve(name)
	if err != nil {
		return nil, 0, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		f.Close()
		return nil, 0, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	return f, info.Size(), nil
}

// Save writes body verbatim to the named file, creating it if absent and
// truncating it if present.
func (d *Dir) Save(name string, body io.Reader) error {
	path, err := d.resolve(name)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return f.Close()
}

// resolve validates name and anchors it under the serving root. The
// traversal check runs first so a hostile name is rejected even when no
// directory is configured.
func (d *Dir) resolve(name string) (string, error) {
	for _, segment := range strings.Split(name, "/") {
		if segment == ".." {
			return "", fmt.Errorf("%w: %s", ErrInvalidName, name)
		}
	}
	if d == nil || d.root == "" {
		return "", ErrNoDirectory
	}
	return filepath.Join(d.root, filepath.FromSlash(name)), nil
}
