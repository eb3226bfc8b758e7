package vorgang

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu        sync.RWMutex
	vorgaenge map[string]*Vorgang
	uploads   map[string]*Upload
}

// NewInMemoryRepository creates a new in-memory case repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		vorgaenge: make(map[string]*Vorgang),
		uploads:   make(map[string]*Upload),
	}
}

// Get retrieves a case by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Vorgang, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.vorgaenge[id]
	if !ok {
		return nil, ErrVorgangNotFound
	}
	cpy := *v
	return &cpy, nil
}

// List retrieves cases ordered by creation date descending.
func (r *InMemoryRepository) List(_ context.Context, opts ListOptions) ([]*Vorgang, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var vorgaenge []*Vorgang
	for _, v := range r.vorgaenge {
		if opts.Status != nil && v.Status != *opts.Status {
			continue
		}
		if opts.Mandant != "" && !strings.EqualFold(v.Empfaenger, opts.Mandant) {
			continue
		}
		cpy := *v
		vorgaenge = append(vorgaenge, &cpy)
	}

	sort.Slice(vorgaenge, func(i, j int) bool {
		return vorgaenge[i].CreatedAt.After(vorgaenge[j].CreatedAt)
	})
	return vorgaenge, nil
}

// Create persists a new case.
func (r *InMemoryRepository) Create(_ context.Context, v *Vorgang) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *v
	r.vorgaenge[v.ID] = &cpy
	return nil
}

// Update persists changed case fields.
func (r *InMemoryRepository) Update(_ context.Context, v *Vorgang) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.vorgaenge[v.ID]
	if !ok {
		return ErrVorgangNotFound
	}

	cpy := *v
	cpy.Dokumente = existing.Dokumente
	r.vorgaenge[v.ID] = &cpy
	return nil
}

// Delete removes a case and, like the SQL cascade, its uploads.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.vorgaenge[id]; !ok {
		return ErrVorgangNotFound
	}
	delete(r.vorgaenge, id)

	for uploadID, up := range r.uploads {
		if up.VorgangID == id {
			delete(r.uploads, uploadID)
		}
	}
	return nil
}

// ListUploads retrieves all uploads of a case, newest first.
func (r *InMemoryRepository) ListUploads(_ context.Context, vorgangID string) ([]*Upload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var uploads []*Upload
	for _, up := range r.uploads {
		if up.VorgangID == vorgangID {
			cpy := *up
			uploads = append(uploads, &cpy)
		}
	}
	sort.Slice(uploads, func(i, j int) bool {
		return uploads[i].UploadedAt.After(uploads[j].UploadedAt)
	})
	return uploads, nil
}

// AttachUpload inserts the upload, sets the document slot and applies
// the status advance as one atomic step under the lock.
func (r *InMemoryRepository) AttachUpload(_ context.Context, up *Upload, newStatus *Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vorgaenge[up.VorgangID]
	if !ok {
		return ErrVorgangNotFound
	}

	cpy := *up
	r.uploads[up.ID] = &cpy

	id := up.ID
	v.Dokumente.Set(up.Kind, &id)
	if newStatus != nil {
		v.Status = *newStatus
	}
	v.UpdatedAt = up.UploadedAt
	return nil
}

// ListExpiredUploads retrieves uploads past their retention window.
func (r *InMemoryRepository) ListExpiredUploads(_ context.Context, before time.Time) ([]*Upload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var uploads []*Upload
	for _, up := range r.uploads {
		if up.DeleteAfter != nil && up.DeleteAfter.Before(before) {
			cpy := *up
			uploads = append(uploads, &cpy)
		}
	}
	return uploads, nil
}

// RemoveUpload deletes an upload and clears document slots pointing at it.
func (r *InMemoryRepository) RemoveUpload(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	up, ok := r.uploads[id]
	if !ok {
		return ErrUploadNotFound
	}

	if v, ok := r.vorgaenge[up.VorgangID]; ok {
		if slot := v.Dokumente.Get(up.Kind); slot != nil && *slot == id {
			v.Dokumente.Set(up.Kind, nil)
		}
	}
	delete(r.uploads, id)
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
