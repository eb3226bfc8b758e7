package protokoll

import (
	"context"
	"errors"
	"time"
)

// ErrEintragNotFound is returned when a changelog entry does not exist.
var ErrEintragNotFound = errors.New("protokoll entry not found")

// Eintrag is one entry of the application changelog.
type Eintrag struct {
	ID           string
	Version      string
	Beschreibung string
	CreatedAt    time.Time
}

// Repository defines persistence for changelog entries.
type Repository interface {
	// Get retrieves an entry by ID. Returns ErrEintragNotFound if no
	// such entry exists.
	Get(ctx context.Context, id string) (*Eintrag, error)

	// List retrieves all entries, newest first.
	List(ctx context.Context) ([]*Eintrag, error)

	// Create persists a new entry.
	Create(ctx context.Context, e *Eintrag) error

	// Update persists changed entry fields.
	Update(ctx context.Context, e *Eintrag) error

	// Delete removes an entry.
	Delete(ctx context.Context, id string) error
}
