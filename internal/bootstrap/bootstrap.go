// Package bootstrap provides dependency initialization for the service
// center API.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/Sakshamebdev873/ServiceOnboard/internal/center"
	"github.com/Sakshamebdev873/ServiceOnboard/internal/config"
	"github.com/Sakshamebdev873/ServiceOnboard/internal/storage"
	"github.com/Sakshamebdev873/ServiceOnboard/internal/upload"
)

// Dependencies holds all initialized dependencies for the HTTP server.
type Dependencies struct {
	CenterService *center.Service
	Uploader      *upload.Orchestrator
	TempStore     storage.TempStore
	Repo          *center.SQLiteRepository
	// MediaDir is non-empty when the disk object store fallback is
	// active and its directory should be served over HTTP.
	MediaDir string
}

// Close releases held resources.
func (d *Dependencies) Close() error {
	if d.Repo != nil {
		return d.Repo.Close()
	}
	return nil
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	temp, err := storage.NewLocalStore(cfg.TempDir)
	if err != nil {
		return nil, fmt.Errorf("create temp store: %w", err)
	}

	objects, mediaDir, err := initObjectStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	repo, err := center.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	logger.Info("database ready",
		slog.String("path", cfg.DatabasePath),
	)

	uploader := upload.NewOrchestrator(objects, temp, logger)
	svc := center.NewService(repo, logger)

	return &Dependencies{
		CenterService: svc,
		Uploader:      uploader,
		TempStore:     temp,
		Repo:          repo,
		MediaDir:      mediaDir,
	}, nil
}

// initObjectStore creates the object store backend based on configuration.
func initObjectStore(cfg *config.Config, logger *slog.Logger) (storage.ObjectStore, string, error) {
	if cfg.S3Enabled() {
		s3Store, err := storage.NewS3Store(storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			return nil, "", fmt.Errorf("create S3 store: %w", err)
		}
		logger.Info("S3 object store configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return s3Store, "", nil
	}

	diskStore, err := storage.NewDiskObjectStore(cfg.MediaDir, cfg.MediaBaseURL)
	if err != nil {
		return nil, "", fmt.Errorf("create disk object store: %w", err)
	}
	logger.Info("disk object store configured",
		slog.String("media_dir", cfg.MediaDir),
		slog.String("media_base_url", cfg.MediaBaseURL),
	)
	return diskStore, cfg.MediaDir, nil
}
