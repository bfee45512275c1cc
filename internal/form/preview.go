package form

import (
	"fmt"
	"sync"
)

// PreviewStore creates and releases preview handles for selected images.
// A handle stands in for whatever resource the UI layer allocates to show
// the image; releasing a handle frees that resource.
type PreviewStore interface {
	// Create allocates a preview handle for the named image.
	Create(name string) (handle string)
	// Release frees the preview handle. Releasing an unknown handle is
	// a no-op.
	Release(handle string)
}

// MemoryPreviewStore is an in-memory PreviewStore that tracks which
// handles are still live.
type MemoryPreviewStore struct {
	mu   sync.Mutex
	next int
	live map[string]bool
}

// NewMemoryPreviewStore creates a new MemoryPreviewStore.
func NewMemoryPreviewStore() *MemoryPreviewStore {
	return &MemoryPreviewStore{live: make(map[string]bool)}
}

// Create allocates a preview handle for the named image.
func (s *MemoryPreviewStore) Create(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	handle := fmt.Sprintf("preview://%d/%s", s.next, name)
	s.live[handle] = true
	return handle
}

// Release frees the preview handle.
func (s *MemoryPreviewStore) Release(handle string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, handle)
}

// LiveCount returns the number of handles not yet released.
func (s *MemoryPreviewStore) LiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}
