package notiz

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL note repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves a note by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Notiz, error) {
	query := `SELECT id, titel, beschreibung, created_at FROM notizen WHERE id = $1`

	var n Notiz
	err := r.pool.QueryRow(ctx, query, id).Scan(&n.ID, &n.Titel, &n.Beschreibung, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotizNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// List retrieves all notes, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*Notiz, error) {
	query := `SELECT id, titel, beschreibung, created_at FROM notizen ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notizen []*Notiz
	for rows.Next() {
		var n Notiz
		if err := rows.Scan(&n.ID, &n.Titel, &n.Beschreibung, &n.CreatedAt); err != nil {
			return nil, err
		}
		notizen = append(notizen, &n)
	}
	return notizen, rows.Err()
}

// Create persists a new note.
func (r *PostgresRepository) Create(ctx context.Context, n *Notiz) error {
	query := `INSERT INTO notizen (id, titel, beschreibung, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, query, n.ID, n.Titel, n.Beschreibung, n.CreatedAt)
	return err
}

// Update persists changed note fields.
func (r *PostgresRepository) Update(ctx context.Context, n *Notiz) error {
	query := `UPDATE notizen SET titel = $2, beschreibung = $3 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, n.ID, n.Titel, n.Beschreibung)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotizNotFound
	}
	return nil
}

// Delete removes a note.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notizen WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotizNotFound
	}
	return nil
}

var _ Repository = (*PostgresRepository)(nil)
