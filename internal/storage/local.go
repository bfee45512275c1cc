package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore implements TempStore using a directory on local disk.
// Each request's multipart files are spilled here until they have been
// pushed to the object store.
type LocalStore struct {
	tempDir string
}

// NewLocalStore creates a new LocalStore rooted at tempDir.
// If tempDir is empty, a directory under os.TempDir() is used.
// The directory is created if it doesn't exist.
func NewLocalStore(tempDir string) (*LocalStore, error) {
	if tempDir == "" {
		tempDir = filepath.Join(os.TempDir(), "serviceonboard")
	}

	if err := os.MkdirAll(tempDir, 0750); err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}

	return &LocalStore{tempDir: tempDir}, nil
}

// TempDir returns the temporary directory path.
func (s *LocalStore) TempDir() string {
	return s.tempDir
}

// SaveTemp writes data to a new temporary file and returns its path.
// The name is sanitized and used as a base for the filename with a
// unique suffix, preserving the original extension.
func (s *LocalStore) SaveTemp(ctx context.Context, name string, data io.Reader) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	base := sanitizeName(name)
	f, err := os.CreateTemp(s.tempDir, base+"_*"+filepath.Ext(name))
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	fileName := f.Name()
	if _, err := io.Copy(f, data); err != nil {
		_ = f.Close()
		_ = os.Remove(fileName)
		return "", fmt.Errorf("write temp file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(fileName)
		return "", fmt.Errorf("close temp file: %w", err)
	}

	return fileName, nil
}

// Remove deletes a single temporary file. A missing file is a no-op.
func (s *LocalStore) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove temp file %s: %w", path, err)
	}
	return nil
}

// Cleanup removes the given temporary files. It continues cleanup even
// if some files fail to delete, returning the first error encountered.
func (s *LocalStore) Cleanup(ctx context.Context, paths []string) error {
	var firstErr error
	for _, p := range paths {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if err := s.Remove(p); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// sanitizeName strips path separators and the extension from an uploaded
// filename so it is safe to use inside a temp file pattern.
func sanitizeName(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.Map(func(r rune) rune {
		switch r {
		case '*', '?', '/', '\\':
			return '_'
		}
		return r
	}, base)
	if base == "" || base == "." {
		base = "upload"
	}
	return base
}
