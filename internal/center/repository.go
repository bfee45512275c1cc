package center

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a service center cannot be found by ID.
var ErrNotFound = errors.New("service center not found")

// Repository defines the interface for service center persistence.
// It acts as a port in the hexagonal architecture pattern.
type Repository interface {
	// Create persists a new service center, assigning its ID and
	// CreatedAt. The stored record is returned.
	Create(ctx context.Context, c *ServiceCenter) (*ServiceCenter, error)

	// FindByID retrieves a service center by its identifier.
	// Returns ErrNotFound if it does not exist.
	FindByID(ctx context.Context, id int64) (*ServiceCenter, error)

	// List returns all service centers, newest first.
	List(ctx context.Context) ([]*ServiceCenter, error)
}
