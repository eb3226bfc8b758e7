package vorgang

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/exportdesk/exportdesk/pkg/filename"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL case repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const vorgangColumns = `
	id, empfaenger, land, mrn, status, notizen, formdata,
	doc_atlas, doc_rechnung, doc_abd, doc_agv,
	created_at, updated_at
`

// slotColumns maps document kinds to their slot column. Keys are the
// closed Kind enum, never request input.
var slotColumns = map[filename.Kind]string{
	filename.KindAtlas:    "doc_atlas",
	filename.KindRechnung: "doc_rechnung",
	filename.KindABD:      "doc_abd",
	filename.KindAGV:      "doc_agv",
}

// Get retrieves a case by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Vorgang, error) {
	query := `SELECT ` + vorgangColumns + ` FROM vorgaenge WHERE id = $1`
	return scanVorgang(r.pool.QueryRow(ctx, query, id))
}

// List retrieves cases ordered by creation date descending.
func (r *PostgresRepository) List(ctx context.Context, opts ListOptions) ([]*Vorgang, error) {
	query := `SELECT ` + vorgangColumns + ` FROM vorgaenge`
	var args []interface{}

	clause := func(cond string, arg interface{}) {
		args = append(args, arg)
		if len(args) == 1 {
			query += " WHERE "
		} else {
			query += " AND "
		}
		query += fmt.Sprintf(cond, len(args))
	}

	if opts.Status != nil {
		clause("status = $%d", string(*opts.Status))
	}
	if opts.Mandant != "" {
		clause("LOWER(empfaenger) = LOWER($%d)", opts.Mandant)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vorgaenge []*Vorgang
	for rows.Next() {
		v, err := scanVorgang(rows)
		if err != nil {
			return nil, err
		}
		vorgaenge = append(vorgaenge, v)
	}
	return vorgaenge, rows.Err()
}

// scanVorgang scans one case row.
func scanVorgang(row pgx.Row) (*Vorgang, error) {
	var v Vorgang
	var raw []byte

	err := row.Scan(
		&v.ID,
		&v.Empfaenger,
		&v.Land,
		&v.MRN,
		&v.Status,
		&v.Notizen,
		&raw,
		&v.Dokumente.Atlas,
		&v.Dokumente.Rechnung,
		&v.Dokumente.ABD,
		&v.Dokumente.AGV,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVorgangNotFound
		}
		return nil, err
	}

	v.FormData, err = DecodeFormData(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create persists a new case.
func (r *PostgresRepository) Create(ctx context.Context, v *Vorgang) error {
	raw, err := v.FormData.Encode()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO vorgaenge (
			id, empfaenger, land, mrn, status, notizen, formdata,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.pool.Exec(ctx, query,
		v.ID,
		v.Empfaenger,
		v.Land,
		v.MRN,
		v.Status,
		v.Notizen,
		raw,
		v.CreatedAt,
		v.UpdatedAt,
	)
	return err
}

// Update persists changed case fields. Document slots are only written
// through AttachUpload and RemoveUpload.
func (r *PostgresRepository) Update(ctx context.Context, v *Vorgang) error {
	raw, err := v.FormData.Encode()
	if err != nil {
		return err
	}

	query := `
		UPDATE vorgaenge SET
			empfaenger = $2,
			land = $3,
			mrn = $4,
			status = $5,
			notizen = $6,
			formdata = $7,
			updated_at = $8
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		v.ID,
		v.Empfaenger,
		v.Land,
		v.MRN,
		v.Status,
		v.Notizen,
		raw,
		v.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrVorgangNotFound
	}
	return nil
}

// Delete removes a case. Upload rows go with it via ON DELETE CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM vorgaenge WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrVorgangNotFound
	}
	return nil
}

const uploadColumns = `
	id, vorgang_id, kind, filename, url, size_bytes, delete_after, uploaded_at
`

// ListUploads retrieves all uploads of a case, newest first.
func (r *PostgresRepository) ListUploads(ctx context.Context, vorgangID string) ([]*Upload, error) {
	query := `SELECT ` + uploadColumns + ` FROM uploads WHERE vorgang_id = $1 ORDER BY uploaded_at DESC`
	return r.queryUploads(ctx, query, vorgangID)
}

// ListExpiredUploads retrieves uploads past their retention window.
func (r *PostgresRepository) ListExpiredUploads(ctx context.Context, before time.Time) ([]*Upload, error) {
	query := `SELECT ` + uploadColumns + ` FROM uploads WHERE delete_after IS NOT NULL AND delete_after < $1`
	return r.queryUploads(ctx, query, before)
}

func (r *PostgresRepository) queryUploads(ctx context.Context, query string, args ...interface{}) ([]*Upload, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uploads []*Upload
	for rows.Next() {
		var up Upload
		err := rows.Scan(
			&up.ID,
			&up.VorgangID,
			&up.Kind,
			&up.Filename,
			&up.URL,
			&up.Size,
			&up.DeleteAfter,
			&up.UploadedAt,
		)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, &up)
	}
	return uploads, rows.Err()
}

// AttachUpload inserts the upload row, sets the case's document slot
// and applies the status advance in one transaction, so a failure on
// any statement leaves no partial state behind.
func (r *PostgresRepository) AttachUpload(ctx context.Context, up *Upload, newStatus *Status) error {
	slot, ok := slotColumns[up.Kind]
	if !ok {
		return fmt.Errorf("unknown document kind %q", up.Kind)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO uploads (`+uploadColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		up.ID,
		up.VorgangID,
		up.Kind,
		up.Filename,
		up.URL,
		up.Size,
		up.DeleteAfter,
		up.UploadedAt,
	)
	if err != nil {
		return err
	}

	query := `UPDATE vorgaenge SET ` + slot + ` = $2, updated_at = $3`
	args := []interface{}{up.VorgangID, up.ID, up.UploadedAt}
	if newStatus != nil {
		query += `, status = $4`
		args = append(args, *newStatus)
	}
	query += ` WHERE id = $1`

	result, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrVorgangNotFound
	}

	return tx.Commit(ctx)
}

// RemoveUpload deletes an upload row and clears any document slot
// still pointing at it.
func (r *PostgresRepository) RemoveUpload(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		UPDATE vorgaenge SET
			doc_atlas = NULLIF(doc_atlas, $1),
			doc_rechnung = NULLIF(doc_rechnung, $1),
			doc_abd = NULLIF(doc_abd, $1),
			doc_agv = NULLIF(doc_agv, $1)
		WHERE doc_atlas = $1 OR doc_rechnung = $1 OR doc_abd = $1 OR doc_agv = $1
	`, id)
	if err != nil {
		return err
	}

	result, err := tx.Exec(ctx, `DELETE FROM uploads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrUploadNotFound
	}

	return tx.Commit(ctx)
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
