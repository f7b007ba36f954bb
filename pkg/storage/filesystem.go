package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrSizeExceeded is returned when a stream is longer than the allowed limit.
	ErrSizeExceeded = errors.New("file exceeds size limit")
	// ErrOutsideBase is returned for paths that resolve outside the uploads directory.
	ErrOutsideBase = errors.New("path outside uploads directory")
)

// LocalStorage persists uploaded documents on disk under a base directory.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve uploads directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &LocalStorage{baseDir: abs}, nil
}

// UniqueName derives a collision resistant storage name that still shows the original base name:
// <sanitized base>-<unix millis>-<9 random digits><ext>.
func UniqueName(original string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	base = sanitize(base)
	if base == "" {
		base = "document"
	}
	return fmt.Sprintf("%s-%d-%09d%s", base, now.UnixMilli(), rand.Intn(1_000_000_000), ext)
}

// SaveStream copies r into a new file named filename and returns its absolute path and size.
// A limit above zero caps the number of bytes accepted; partial files are removed on failure.
func (s *LocalStorage) SaveStream(filename string, r io.Reader, limit int64) (string, int64, error) {
	path, err := s.resolve(filepath.Base(filename))
	if err != nil {
		return "", 0, err
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("create document file: %w", err)
	}

	src := r
	if limit > 0 {
		src = io.LimitReader(r, limit+1)
	}
	written, err := io.Copy(file, src)
	closeErr := file.Close()
	switch {
	case err != nil:
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("write document stream: %w", err)
	case closeErr != nil:
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("close document file: %w", closeErr)
	case limit > 0 && written > limit:
		_ = os.Remove(path)
		return "", 0, ErrSizeExceeded
	}
	return path, written, nil
}

// Open returns a read-only handle for the stored file.
// A missing file yields an error matching fs.ErrNotExist.
func (s *LocalStorage) Open(path string) (*os.File, error) {
	resolved, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(resolved)
	if err != nil {
		return nil, fmt.Errorf("open document file: %w", err)
	}
	return file, nil
}

// Delete removes a stored file if present.
func (s *LocalStorage) Delete(path string) error {
	resolved, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(resolved); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete document file: %w", err)
	}
	return nil
}

// resolve maps a storage name or a stored absolute path to a cleaned path under baseDir.
func (s *LocalStorage) resolve(name string) (string, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.baseDir, path)
	}
	path = filepath.Clean(path)

	rel, err := filepath.Rel(s.baseDir, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideBase, name)
	}
	return path, nil
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "._")
}
