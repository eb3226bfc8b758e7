package protokoll

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

// NewPostgresRepository creates a new PostgreSQL changelog repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves an entry by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Eintrag, error) {
	query := `SELECT id, version, beschreibung, created_at FROM protokoll WHERE id = $1`

	var e Eintrag
	err := r.pool.QueryRow(ctx, query, id).Scan(&e.ID, &e.Version, &e.Beschreibung, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEintragNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List retrieves all entries, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*Eintrag, error) {
	query := `SELECT id, version, beschreibung, created_at FROM protokoll ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var eintraege []*Eintrag
	for rows.Next() {
		var e Eintrag
		if err := rows.Scan(&e.ID, &e.Version, &e.Beschreibung, &e.CreatedAt); err != nil {
			return nil, err
		}
		eintraege = append(eintraege, &e)
	}
	return eintraege, rows.Err()
}

// Create persists a new entry.
func (r *PostgresRepository) Create(ctx context.Context, e *Eintrag) error {
	query := `INSERT INTO protokoll (id, version, beschreibung, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, query, e.ID, e.Version, e.Beschreibung, e.CreatedAt)
	return err
}

// Update persists changed entry fields.
func (r *PostgresRepository) Update(ctx context.Context, e *Eintrag) error {
	query := `UPDATE protokoll SET version = $2, beschreibung = $3 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, e.ID, e.Version, e.Beschreibung)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEintragNotFound
	}
	return nil
}

// Delete removes an entry.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM protokoll WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEintragNotFound
	}
	return nil
}

var _ Repository = (*PostgresRepository)(nil)
