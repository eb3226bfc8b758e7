package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements creates the application tables. Run at process
// start; there is no migrations system, columns are only ever added.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS vorgaenge (
		id           TEXT PRIMARY KEY,
		empfaenger   TEXT NOT NULL,
		land         TEXT NOT NULL DEFAULT '',
		mrn          TEXT,
		status       TEXT NOT NULL,
		notizen      TEXT NOT NULL DEFAULT '',
		formdata     JSONB,
		doc_atlas    TEXT,
		doc_rechnung TEXT,
		doc_abd      TEXT,
		doc_agv      TEXT,
		created_at   TIMESTAMPTZ NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS uploads (
		id           TEXT PRIMARY KEY,
		vorgang_id   TEXT NOT NULL REFERENCES vorgaenge(id) ON DELETE CASCADE,
		kind         TEXT NOT NULL,
		filename     TEXT NOT NULL,
		url          TEXT NOT NULL,
		size_bytes   BIGINT NOT NULL DEFAULT 0,
		delete_after TIMESTAMPTZ,
		uploaded_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS uploads_vorgang_id_idx ON uploads (vorgang_id)`,
	`CREATE INDEX IF NOT EXISTS uploads_delete_after_idx ON uploads (delete_after) WHERE delete_after IS NOT NULL`,
	`CREATE TABLE IF NOT EXISTS notizen (
		id           TEXT PRIMARY KEY,
		titel        TEXT NOT NULL,
		beschreibung TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS protokoll (
		id           TEXT PRIMARY KEY,
		version      TEXT NOT NULL,
		beschreibung TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL
	)`,
}

// EnsureSchema creates any missing tables and indexes.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
