package worker

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exportdesk/exportdesk/internal/storage"
	"github.com/exportdesk/exportdesk/internal/vorgang"
	"github.com/exportdesk/exportdesk/pkg/filename"
)

func newTestJob(t *testing.T) (*RetentionJob, *vorgang.InMemoryRepository, storage.Store) {
	t.Helper()

	repo := vorgang.NewInMemoryRepository()
	store := storage.NewLocalStore(t.TempDir(), "/uploads")
	job := NewRetentionJob(RetentionJobConfig{
		Config: DefaultRetentionConfig(),
		Repo:   repo,
		Store:  store,
		Logger: zerolog.New(io.Discard),
	})
	return job, repo, store
}

func seedUpload(t *testing.T, repo *vorgang.InMemoryRepository, store storage.Store, id string, deleteAfter *time.Time) {
	t.Helper()
	ctx := context.Background()

	vorgangID := "vg_" + id
	require.NoError(t, repo.Create(ctx, &vorgang.Vorgang{
		ID:         vorgangID,
		Empfaenger: "Acme Ltd",
		Status:     vorgang.StatusAngelegt,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}))

	name := "AGV_Acme-Ltd.pdf"
	url, err := store.Save(ctx, vorgangID, name, bytes.NewReader([]byte("%PDF-1.7")))
	require.NoError(t, err)

	require.NoError(t, repo.AttachUpload(ctx, &vorgang.Upload{
		ID:          "up_" + id,
		VorgangID:   vorgangID,
		Kind:        filename.KindAGV,
		Filename:    name,
		URL:         url,
		Size:        8,
		UploadedAt:  time.Now(),
		DeleteAfter: deleteAfter,
	}, nil))
}

func TestSweep_RemovesExpiredUploads(t *testing.T) {
	job, repo, store := newTestJob(t)
	ctx := context.Background()

	expired := time.Now().Add(-time.Hour)
	seedUpload(t, repo, store, "expired", &expired)

	fresh := time.Now().Add(90 * 24 * time.Hour)
	seedUpload(t, repo, store, "fresh", &fresh)

	seedUpload(t, repo, store, "unlimited", nil)

	result, err := job.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Expired)
	assert.Equal(t, 1, result.Removed)
	assert.Equal(t, 0, result.Failed)

	// The expired row is gone and its document slot cleared.
	uploads, err := repo.ListUploads(ctx, "vg_expired")
	require.NoError(t, err)
	assert.Empty(t, uploads)

	v, err := repo.Get(ctx, "vg_expired")
	require.NoError(t, err)
	assert.Nil(t, v.Dokumente.AGV)

	// The other cases keep their uploads.
	uploads, err = repo.ListUploads(ctx, "vg_fresh")
	require.NoError(t, err)
	assert.Len(t, uploads, 1)

	uploads, err = repo.ListUploads(ctx, "vg_unlimited")
	require.NoError(t, err)
	assert.Len(t, uploads, 1)
}

func TestSweep_NothingExpired(t *testing.T) {
	job, repo, store := newTestJob(t)

	fresh := time.Now().Add(time.Hour)
	seedUpload(t, repo, store, "fresh", &fresh)

	result, err := job.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Expired)
	assert.Equal(t, 0, result.Removed)
}

func TestSweep_RespectsBatchSize(t *testing.T) {
	repo := vorgang.NewInMemoryRepository()
	store := storage.NewLocalStore(t.TempDir(), "/uploads")
	job := NewRetentionJob(RetentionJobConfig{
		Config: RetentionConfig{
			Interval:  time.Hour,
			Timeout:   time.Minute,
			BatchSize: 2,
		},
		Repo:   repo,
		Store:  store,
		Logger: zerolog.New(io.Discard),
	})

	expired := time.Now().Add(-time.Hour)
	seedUpload(t, repo, store, "a", &expired)
	seedUpload(t, repo, store, "b", &expired)
	seedUpload(t, repo, store, "c", &expired)

	result, err := job.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Removed)

	// Second sweep picks up the rest.
	result, err = job.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Removed)
}

func TestSweep_UpdatesMetrics(t *testing.T) {
	job, repo, store := newTestJob(t)

	expired := time.Now().Add(-time.Hour)
	seedUpload(t, repo, store, "expired", &expired)

	_, err := job.Sweep(context.Background())
	require.NoError(t, err)

	m := job.GetMetrics()
	assert.Equal(t, int64(1), m.TotalSweeps)
	assert.Equal(t, int64(1), m.RemovedUploads)
	assert.False(t, m.LastSweepAt.IsZero())

	snapshot := job.MetricsSnapshot()
	assert.Equal(t, int64(1), snapshot["removed_uploads"])
}

func TestRetentionConfigFromEnv(t *testing.T) {
	t.Setenv("RETENTION_INTERVAL_MINUTES", "30")
	t.Setenv("RETENTION_BATCH_SIZE", "10")

	cfg := RetentionConfigFromEnv()
	assert.Equal(t, 30*time.Minute, cfg.Interval)
	assert.Equal(t, 10, cfg.BatchSize)
}

func TestRetentionConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("RETENTION_INTERVAL_MINUTES", "")
	t.Setenv("RETENTION_BATCH_SIZE", "not-a-number")

	cfg := RetentionConfigFromEnv()
	assert.Equal(t, time.Hour, cfg.Interval)
	assert.Equal(t, 100, cfg.BatchSize)
}
