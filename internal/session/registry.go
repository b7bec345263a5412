package session

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/mealmate/internal/domain"
)

// Registry keeps in-flight workflows addressable by ID between requests.
// Safe for concurrent access.
type Registry[T any] struct {
	mu    sync.RWMutex
	items map[uuid.UUID]T
	kind  string
	log   *slog.Logger
}

// NewRegistry creates an empty registry. kind names the stored items in logs.
func NewRegistry[T any](kind string, log *slog.Logger) *Registry[T] {
	return &Registry[T]{
		items: make(map[uuid.UUID]T),
		kind:  kind,
		log:   log,
	}
}

// Put stores item under id. Overwrites if it already exists.
func (r *Registry[T]) Put(id uuid.UUID, item T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[id] = item
	r.log.Debug("registered "+r.kind, "id", id, "open", len(r.items))
}

// Get retrieves an item by ID.
func (r *Registry[T]) Get(id uuid.UUID) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("session.Registry.Get: %s %s: %w", r.kind, id, domain.ErrNotFound)
	}
	return item, nil
}

// Take removes and returns an item by ID.
func (r *Registry[T]) Take(id uuid.UUID) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("session.Registry.Take: %s %s: %w", r.kind, id, domain.ErrNotFound)
	}
	delete(r.items, id)
	r.log.Debug("released "+r.kind, "id", id, "open", len(r.items))
	return item, nil
}

// Drain removes and returns every stored item.
func (r *Registry[T]) Drain() []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]T, 0, len(r.items))
	for id, item := range r.items {
		out = append(out, item)
		delete(r.items, id)
	}
	return out
}

// Len returns the number of stored items.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
