package fsdir

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "report.txt"), []byte("hello"), 0o644))
	d := New(root)

	f, size, err := d.Open("report.txt")
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, int64(5), size)

	content, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestOpenMissing(t *testing.T) {
	d := New(t.TempDir())
	_, _, err := d.Open("nope.txt")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOpenDirectoryIsNotFound(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))
	d := New(root)

	_, _, err := d.Open("sub")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSaveRoundTrip(t *testing.T) {
	d := New(t.TempDir())

	require.NoError(t, d.Save("new.txt", bytes.NewReader([]byte("abc"))))

	f, size, err := d.Open("new.txt")
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, int64(3), size)
	content, _ := io.ReadAll(f)
	assert.Equal(t, "abc", string(content))

	// Overwrite truncates
	require.NoError(t, d.Save("new.txt", bytes.NewReader([]byte("x"))))
	_, size, err = d.Open("new.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(1), size)
}

func TestTraversalRejected(t *testing.T) {
	d := New(t.TempDir())

	for _, name := range []string{
		"../secret.txt",
		"..",
		"a/../../secret.txt",
		"a/b/../../../etc/passwd",
	} {
		_, _, err := d.Open(name)
		assert.ErrorIs(t, err, ErrInvalidName, "open %q", name)

		err = d.Save(name, bytes.NewReader(nil))
		assert.ErrorIs(t, err, ErrInvalidName, "save %q", name)
	}

	// Dots inside a segment are a legal file name
	require.NoError(t, d.Save("archive..tar", bytes.NewReader([]byte("ok"))))
}

func TestNoDirectoryConfigured(t *testing.T) {
	var d *Dir

	_, _, err := d.Open("report.txt")
	require.ErrorIs(t, err, ErrNoDirectory)

	err = d.Save("new.txt", bytes.NewReader([]byte("abc")))
	require.ErrorIs(t, err, ErrNoDirectory)

	// Traversal still rejected first
	_, _, err = d.Open("../secret.txt")
	require.ErrorIs(t, err, ErrInvalidName)
}
