package protokoll

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository for
// tests and local development.
type InMemoryRepository struct {
	mu        sync.RWMutex
	eintraege map[string]*Eintrag
}

// NewInMemoryRepository creates a new in-memory changelog repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{eintraege: make(map[string]*Eintrag)}
}

// Get retrieves an entry by ID.
func (r *InMemoryRepository) Get(ctx context.Context, id string) (*Eintrag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.eintraege[id]
	if !ok {
		return nil, ErrEintragNotFound
	}
	copied := *e
	return &copied, nil
}

// List retrieves all entries, newest first.
func (r *InMemoryRepository) List(ctx context.Context) ([]*Eintrag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	eintraege := make([]*Eintrag, 0, len(r.eintraege))
	for _, e := range r.eintraege {
		copied := *e
		eintraege = append(eintraege, &copied)
	}
	sort.Slice(eintraege, func(i, j int) bool {
		return eintraege[i].CreatedAt.After(eintraege[j].CreatedAt)
	})
	return eintraege, nil
}

// Create persists a new entry.
func (r *InMemoryRepository) Create(ctx context.Context, e *Eintrag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *e
	r.eintraege[e.ID] = &copied
	return nil
}

// Update persists changed entry fields.
func (r *InMemoryRepository) Update(ctx context.Context, e *Eintrag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.eintraege[e.ID]; !ok {
		return ErrEintragNotFound
	}
	copied := *e
	r.eintraege[e.ID] = &copied
	return nil
}

// Delete removes an entry.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.eintraege[id]; !ok {
		return ErrEintragNotFound
	}
	delete(r.eintraege, id)
	return nil
}

var _ Repository = (*InMemoryRepository)(nil)
