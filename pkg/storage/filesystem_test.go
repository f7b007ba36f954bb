package storage

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	name := UniqueName("Final Report (v2).PDF", now)

	assert.Regexp(t, regexp.MustCompile(`^Final_Report__v2-1700000000123-\d{9}\.pdf$`), name)
	assert.NotEqual(t, name, UniqueName("Final Report (v2).PDF", now.Add(time.Millisecond)))
	assert.True(t, strings.HasPrefix(UniqueName("../.pdf", now), "document-"))
}

func TestSaveOpenDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	path, size, err := store.SaveStream("report.pdf", strings.NewReader("hello"), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)
	assert.True(t, filepath.IsAbs(path))
	assert.FileExists(t, path)

	f, err := store.Open(path)
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, "hello", string(data))

	require.NoError(t, store.Delete(path))
	assert.NoFileExists(t, path)
	require.NoError(t, store.Delete(path), "deleting a missing file is not an error")

	_, err = store.Open(path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestSaveStreamRejectsOversize(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, _, err = store.SaveStream("big.zip", strings.NewReader("0123456789"), 4)
	require.ErrorIs(t, err, ErrSizeExceeded)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveStreamRefusesOverwrite(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.SaveStream("a.pdf", strings.NewReader("x"), 0)
	require.NoError(t, err)
	_, _, err = store.SaveStream("a.pdf", strings.NewReader("y"), 0)
	require.Error(t, err)
}

func TestPathsOutsideBaseAreRejected(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "uploads")
	store, err := NewLocalStorage(base)
	require.NoError(t, err)

	secret := filepath.Join(root, "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("keep"), 0o600))

	for _, path := range []string{secret, "../secret.txt", filepath.Join(base, "..", "secret.txt"), base, "."} {
		_, err := store.Open(path)
		assert.ErrorIs(t, err, ErrOutsideBase, path)
		assert.ErrorIs(t, store.Delete(path), ErrOutsideBase, path)
	}
	assert.FileExists(t, secret)

	saved, _, err := store.SaveStream("../../escape.pdf", strings.NewReader("x"), 0)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "escape.pdf"), saved)

	f, err := store.Open("escape.pdf")
	require.NoError(t, err)
	require.NoError(t, f.Close())
}
