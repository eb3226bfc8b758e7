package notiz

import (
	"context"
	"errors"
	"time"
)

// ErrNotizNotFound is returned when a note does not exist.
var ErrNotizNotFound = errors.New("notiz not found")

// Notiz is a free-text note shown on the dashboard.
type Notiz struct {
	ID           string
	Titel        string
	Beschreibung string
	CreatedAt    time.Time
}

// Repository defines persistence for notes.
type Repository interface {
	// Get retrieves a note by ID. Returns ErrNotizNotFound if no such
	// note exists.
	Get(ctx context.Context, id string) (*Notiz, error)

	// List retrieves all notes, newest first.
	List(ctx context.Context) ([]*Notiz, error)

	// Create persists a new note.
	Create(ctx context.Context, n *Notiz) error

	// Update persists changed note fields.
	Update(ctx context.Context, n *Notiz) error

	// Delete removes a note.
	Delete(ctx context.Context, id string) error
}
