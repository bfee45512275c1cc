package center

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Compile-time check that MemoryRepository implements Repository.
var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository is an in-memory implementation of Repository.
// It uses a map with RWMutex for thread-safe access.
// Suitable for development and testing; swap for persistent storage in production.
type MemoryRepository struct {
	mu      sync.RWMutex
	centers map[int64]*ServiceCenter
	nextID  int64
}

// NewMemoryRepository creates a new in-memory service center repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		centers: make(map[int64]*ServiceCenter),
		nextID:  1,
	}
}

// Create persists a service center, assigning ID and CreatedAt.
// Stores a clone to avoid external mutations.
func (r *MemoryRepository) Create(_ context.Context, c *ServiceCenter) (*ServiceCenter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := c.Clone()
	stored.ID = r.nextID
	r.nextID++
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	r.centers[stored.ID] = stored
	return stored.Clone(), nil
}

// FindByID retrieves a service center by its ID.
// Returns a clone to prevent external mutations.
func (r *MemoryRepository) FindByID(_ context.Context, id int64) (*ServiceCenter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.centers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c.Clone(), nil
}

// List returns all service centers ordered by creation time, newest
// first. Returns clones to prevent external mutations.
func (r *MemoryRepository) List(_ context.Context) ([]*ServiceCenter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*ServiceCenter, 0, len(r.centers))
	for _, c := range r.centers {
		result = append(result, c.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}
