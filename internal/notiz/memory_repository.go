package notiz

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository for
// tests and local development.
type InMemoryRepository struct {
	mu      sync.RWMutex
	notizen map[string]*Notiz
}

// NewInMemoryRepository creates a new in-memory note repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{notizen: make(map[string]*Notiz)}
}

// Get retrieves a note by ID.
func (r *InMemoryRepository) Get(ctx context.Context, id string) (*Notiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notizen[id]
	if !ok {
		return nil, ErrNotizNotFound
	}
	copied := *n
	return &copied, nil
}

// List retrieves all notes, newest first.
func (r *InMemoryRepository) List(ctx context.Context) ([]*Notiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notizen := make([]*Notiz, 0, len(r.notizen))
	for _, n := range r.notizen {
		copied := *n
		notizen = append(notizen, &copied)
	}
	sort.Slice(notizen, func(i, j int) bool {
		return notizen[i].CreatedAt.After(notizen[j].CreatedAt)
	})
	return notizen, nil
}

// Create persists a new note.
func (r *InMemoryRepository) Create(ctx context.Context, n *Notiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *n
	r.notizen[n.ID] = &copied
	return nil
}

// Update persists changed note fields.
func (r *InMemoryRepository) Update(ctx context.Context, n *Notiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notizen[n.ID]; !ok {
		return ErrNotizNotFound
	}
	copied := *n
	r.notizen[n.ID] = &copied
	return nil
}

// Delete removes a note.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notizen[id]; !ok {
		return ErrNotizNotFound
	}
	delete(r.notizen, id)
	return nil
}

var _ Repository = (*InMemoryRepository)(nil)
