// Package storage provides temporary file handling for multipart uploads
// and the object store adapters that hold service center images durably.
// TempStore and ObjectStore are the ports; LocalStore, S3Store and
// DiskObjectStore are the implementations.
package storage

import (
	"context"
	"io"
)

// TempStore manages request-scoped temporary files. Files written through
// SaveTemp belong to exactly one request and must be removed before that
// request finishes, whether or not the upload succeeded.
type TempStore interface {
	// SaveTemp writes data to a new temporary file and returns its path.
	// The name parameter is used as a hint for the filename.
	SaveTemp(ctx context.Context, name string, data io.Reader) (path string, err error)

	// Remove deletes a single temporary file. Removing a file that is
	// already gone is a no-op, so Remove may be called more than once
	// for the same path.
	Remove(path string) error

	// Cleanup removes the given temporary files, continuing past
	// individual failures and returning the first error encountered.
	Cleanup(ctx context.Context, paths []string) error
}

// ObjectStore uploads file contents to durable storage and returns a
// public URL for each object.
type ObjectStore interface {
	// Put stores the object under key and returns its public URL.
	Put(ctx context.Context, key string, data io.Reader, contentType string) (url string, err error)
}
