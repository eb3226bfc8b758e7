// Package worker provides background job processing for exportdesk.
package worker

import (
	"os"
	"strconv"
	"time"
)

// RetentionConfig holds configuration for the upload retention job.
type RetentionConfig struct {
	// Interval between sweeps.
	// Default: 1 hour
	Interval time.Duration

	// Timeout for a single sweep.
	// Default: 5 minutes
	Timeout time.Duration

	// BatchSize caps how many expired uploads one sweep removes.
	// Default: 100
	BatchSize int
}

// DefaultRetentionConfig returns the default retention configuration.
func DefaultRetentionConfig() RetentionConfig {
	return RetentionConfig{
		Interval:  time.Hour,
		Timeout:   5 * time.Minute,
		BatchSize: 100,
	}
}

// RetentionConfigFromEnv reads the retention configuration from
// RETENTION_INTERVAL_MINUTES and RETENTION_BATCH_SIZE, falling back to
// the defaults for unset or unparsable values.
func RetentionConfigFromEnv() RetentionConfig {
	cfg := DefaultRetentionConfig()

	if v := os.Getenv("RETENTION_INTERVAL_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes > 0 {
			cfg.Interval = time.Duration(minutes) * time.Minute
		}
	}

	if v := os.Getenv("RETENTION_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BatchSize = n
		}
	}

	return cfg
}
