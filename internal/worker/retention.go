package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/exportdesk/exportdesk/internal/storage"
	"github.com/exportdesk/exportdesk/internal/vorgang"
)

// RetentionJob removes exit confirmations whose retention window has
// passed. Uploads carry a delete_after timestamp when they are stored;
// each sweep picks up the expired ones, deletes the stored file and
// then the database row.
type RetentionJob struct {
	config RetentionConfig
	repo   vorgang.Repository
	store  storage.Store
	logger zerolog.Logger

	metrics *RetentionMetrics
}

// RetentionMetrics tracks retention job statistics.
type RetentionMetrics struct {
	mu sync.RWMutex

	TotalSweeps    int64
	RemovedUploads int64
	FailedRemovals int64

	LastSweepAt       time.Time
	LastSweepDuration time.Duration
}

// RetentionJobConfig holds configuration for creating a RetentionJob.
type RetentionJobConfig struct {
	Config RetentionConfig
	Repo   vorgang.Repository
	Store  storage.Store
	Logger zerolog.Logger
}

// NewRetentionJob creates a new retention job processor.
func NewRetentionJob(cfg RetentionJobConfig) *RetentionJob {
	config := cfg.Config
	if config.Interval <= 0 {
		config = DefaultRetentionConfig()
	}

	return &RetentionJob{
		config:  config,
		repo:    cfg.Repo,
		store:   cfg.Store,
		logger:  cfg.Logger,
		metrics: &RetentionMetrics{},
	}
}

// SweepResult contains the result of one retention sweep.
type SweepResult struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Expired   int
	Removed   int
	Failed    int
}

// Sweep removes all uploads expired at the time of the call, up to the
// configured batch size. Storage deletion happens before the row
// delete so a crash between the two leaves a row pointing at a missing
// file rather than an orphaned file; the next sweep retries the row.
func (j *RetentionJob) Sweep(ctx context.Context) (*SweepResult, error) {
	startTime := time.Now()
	result := &SweepResult{StartTime: startTime}

	sweepCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	expired, err := j.repo.ListExpiredUploads(sweepCtx, startTime)
	if err != nil {
		return nil, err
	}
	if len(expired) > j.config.BatchSize {
		expired = expired[:j.config.BatchSize]
	}
	result.Expired = len(expired)

	for _, up := range expired {
		if err := sweepCtx.Err(); err != nil {
			break
		}

		if err := j.removeUpload(sweepCtx, up); err != nil {
			result.Failed++
			j.logger.Error().
				Err(err).
				Str("upload_id", up.ID).
				Str("vorgang_id", up.VorgangID).
				Msg("failed to remove expired upload")
			continue
		}

		result.Removed++
		j.logger.Info().
			Str("upload_id", up.ID).
			Str("vorgang_id", up.VorgangID).
			Str("filename", up.Filename).
			Msg("removed expired upload")
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)
	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("expired", result.Expired).
		Int("removed", result.Removed).
		Int("failed", result.Failed).
		Msg("retention sweep completed")

	return result, nil
}

func (j *RetentionJob) removeUpload(ctx context.Context, up *vorgang.Upload) error {
	if err := j.store.Delete(ctx, up.VorgangID, up.Filename); err != nil {
		return err
	}
	return j.repo.RemoveUpload(ctx, up.ID)
}

// Run sweeps on the configured interval until the context is canceled.
func (j *RetentionJob) Run(ctx context.Context) {
	ticker := time.NewTicker(j.config.Interval)
	defer ticker.Stop()

	j.logger.Info().
		Dur("interval", j.config.Interval).
		Int("batch_size", j.config.BatchSize).
		Msg("retention job started")

	for {
		select {
		case <-ctx.Done():
			j.logger.Info().Msg("retention job stopped")
			return
		case <-ticker.C:
			if _, err := j.Sweep(ctx); err != nil {
				j.logger.Error().Err(err).Msg("retention sweep failed")
			}
		}
	}
}

func (j *RetentionJob) updateMetrics(result *SweepResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalSweeps++
	j.metrics.RemovedUploads += int64(result.Removed)
	j.metrics.FailedRemovals += int64(result.Failed)
	j.metrics.LastSweepAt = result.EndTime
	j.metrics.LastSweepDuration = result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *RetentionJob) GetMetrics() RetentionMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return RetentionMetrics{
		TotalSweeps:       j.metrics.TotalSweeps,
		RemovedUploads:    j.metrics.RemovedUploads,
		FailedRemovals:    j.metrics.FailedRemovals,
		LastSweepAt:       j.metrics.LastSweepAt,
		LastSweepDuration: j.metrics.LastSweepDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *RetentionJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_sweeps":        m.TotalSweeps,
		"removed_uploads":     m.RemovedUploads,
		"failed_removals":     m.FailedRemovals,
		"last_sweep_at":       m.LastSweepAt,
		"last_sweep_duration": m.LastSweepDuration.String(),
	}
}
