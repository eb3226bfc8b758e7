package vorgang

import (
	"context"
	"time"
)

// ListOptions contains filters for listing cases.
type ListOptions struct {
	// Status filters by exact status when non-nil.
	Status *Status

	// Mandant filters by recipient name, case-insensitively. Display
	// grouping for the front-end, not an access boundary.
	Mandant string
}

// Repository defines persistence for cases and their uploads.
type Repository interface {
	// Get retrieves a case by ID, including its document slots.
	// Returns ErrVorgangNotFound if no such case exists.
	Get(ctx context.Context, id string) (*Vorgang, error)

	// List retrieves cases ordered by creation date descending.
	List(ctx context.Context, opts ListOptions) ([]*Vorgang, error)

	// Create persists a new case.
	Create(ctx context.Context, v *Vorgang) error

	// Update persists changed case fields.
	// Returns ErrVorgangNotFound if no such case exists.
	Update(ctx context.Context, v *Vorgang) error

	// Delete removes a case. Associated uploads are removed by the
	// store's cascade.
	Delete(ctx context.Context, id string) error

	// ListUploads retrieves all uploads of a case, newest first.
	ListUploads(ctx context.Context, vorgangID string) ([]*Upload, error)

	// AttachUpload atomically inserts the upload row, points the
	// case's document slot for the upload's kind at it, and applies
	// the status advance when newStatus is non-nil. Either all three
	// writes commit or none of them do.
	AttachUpload(ctx context.Context, up *Upload, newStatus *Status) error

	// ListExpiredUploads retrieves uploads whose DeleteAfter lies
	// before the given instant.
	ListExpiredUploads(ctx context.Context, before time.Time) ([]*Upload, error)

	// RemoveUpload deletes an upload row and clears any document slot
	// referencing it.
	RemoveUpload(ctx context.Context, id string) error
}
