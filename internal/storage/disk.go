package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DiskObjectStore implements ObjectStore using a local directory.
// It exists so the server can run without S3 credentials in development;
// objects are copied under dir and addressed relative to baseURL, which
// the server exposes as a static file route.
type DiskObjectStore struct {
	dir     string
	baseURL string
}

// NewDiskObjectStore creates a DiskObjectStore rooted at dir.
// The directory is created if it doesn't exist.
func NewDiskObjectStore(dir, baseURL string) (*DiskObjectStore, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create media directory: %w", err)
	}
	return &DiskObjectStore{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Dir returns the directory objects are written to.
func (s *DiskObjectStore) Dir() string {
	return s.dir
}

// Put copies the object under the store's directory and returns its URL.
func (s *DiskObjectStore) Put(ctx context.Context, key string, data io.Reader, _ string) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	dst := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0750); err != nil {
		return "", fmt.Errorf("create object directory: %w", err)
	}

	f, err := os.Create(dst) // #nosec G304 - key is generated by the upload orchestrator
	if err != nil {
		return "", fmt.Errorf("create object file: %w", err)
	}

	if _, err := io.Copy(f, data); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("write object file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("close object file: %w", err)
	}

	return s.baseURL + "/" + key, nil
}
