// Package upload provides the image upload orchestrator. It pushes each
// request's temporary files to the object store in parallel and guarantees
// every temporary file is deleted exactly once, whether or not its upload
// succeeded.
package upload

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Sakshamebdev873/ServiceOnboard/internal/storage"
)

// DefaultFolder is the object key prefix for service center images.
const DefaultFolder = "service-centers"

// File describes one received upload: where the middleware spilled it,
// its original filename and its size in bytes.
type File struct {
	Path string
	Name string
	Size int64
}

// Orchestrator uploads a request's files to the object store.
type Orchestrator struct {
	store  storage.ObjectStore
	temp   storage.TempStore
	logger *slog.Logger
	folder string
}

// Option is a function that configures an Orchestrator.
type Option func(*Orchestrator)

// WithFolder sets the object key prefix for uploaded images.
func WithFolder(folder string) Option {
	return func(o *Orchestrator) {
		o.folder = folder
	}
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(store storage.ObjectStore, temp storage.TempStore, logger *slog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Orchestrator{
		store:  store,
		temp:   temp,
		logger: logger,
		folder: DefaultFolder,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Upload pushes every file to the object store and returns one URL per
// input file, in input order. An empty input returns an empty slice
// without touching remote storage.
//
// Uploads run in parallel. If any single upload fails the whole call
// fails with that error; siblings that already reached the store are not
// deleted remotely. Every local temp file is removed after its own
// attempt resolves, success or failure.
func (o *Orchestrator) Upload(ctx context.Context, files []File) ([]string, error) {
	if len(files) == 0 {
		return []string{}, nil
	}

	urls := make([]string, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			// The temp file is gone after this attempt no matter what.
			defer func() {
				if err := o.temp.Remove(f.Path); err != nil {
					o.logger.Warn("temp file cleanup failed",
						slog.String("path", f.Path),
						slog.String("error", err.Error()),
					)
				}
			}()

			url, err := o.uploadOne(ctx, f)
			if err != nil {
				o.logger.Error("image upload failed",
					slog.String("file", f.Name),
					slog.String("error", err.Error()),
				)
				return fmt.Errorf("upload %s: %w", f.Name, err)
			}

			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Succeeded siblings stay in the bucket; flag them for reaping.
		o.logger.Warn("upload batch aborted, completed objects left in store",
			slog.Int("files", len(files)),
		)
		return nil, err
	}

	return urls, nil
}

// uploadOne streams a single temp file to the object store.
func (o *Orchestrator) uploadOne(ctx context.Context, f File) (string, error) {
	src, err := os.Open(f.Path) // #nosec G304 - path was written by our own temp store
	if err != nil {
		return "", fmt.Errorf("open temp file: %w", err)
	}
	defer func() { _ = src.Close() }()

	ext := filepath.Ext(f.Name)
	key := fmt.Sprintf("%s/%s%s", o.folder, uuid.NewString(), ext)

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := o.store.Put(ctx, key, src, contentType)
	if err != nil {
		return "", err
	}

	o.logger.Info("image uploaded",
		slog.String("file", f.Name),
		slog.String("key", key),
		slog.Int64("size", f.Size),
	)

	return url, nil
}
