package center

import (
	"context"
	"fmt"
	"log/slog"
)

// CreateInput contains the field data for a new service center.
// Values are taken as-is: field validation happens on the client, and the
// endpoint normalizes categories and image URLs before calling Create.
type CreateInput struct {
	CenterName string
	Phone      string
	Email      string
	City       string
	State      string
	ZipCode    string
	Country    string
	Latitude   string
	Longitude  string
	Categories []string
	ImageURLs  []string
}

// Service writes and reads service center records.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Create persists one service center record. An absent or empty country
// is normalized to DefaultCountry; everything else passes through
// unchanged.
func (s *Service) Create(ctx context.Context, input CreateInput) (*ServiceCenter, error) {
	country := input.Country
	if country == "" {
		country = DefaultCountry
	}

	c := &ServiceCenter{
		CenterName: input.CenterName,
		Phone:      input.Phone,
		Email:      input.Email,
		City:       input.City,
		State:      input.State,
		ZipCode:    input.ZipCode,
		Country:    country,
		Latitude:   input.Latitude,
		Longitude:  input.Longitude,
		Categories: input.Categories,
		ImagePaths: input.ImageURLs,
	}

	stored, err := s.repo.Create(ctx, c)
	if err != nil {
		s.logger.Error("failed to save service center",
			slog.String("center_name", input.CenterName),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("create service center: %w", err)
	}

	s.logger.Info("service center onboarded",
		slog.Int64("id", stored.ID),
		slog.String("center_name", stored.CenterName),
		slog.Int("images", len(stored.ImagePaths)),
	)

	return stored, nil
}

// List returns all service centers, newest first.
func (s *Service) List(ctx context.Context) ([]*ServiceCenter, error) {
	centers, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list service centers: %w", err)
	}
	return centers, nil
}
