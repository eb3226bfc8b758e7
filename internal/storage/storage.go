// Package storage persists uploaded document files either on local
// disk or in an S3-compatible bucket, selected by configuration.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

// Mode selects the storage backend.
type Mode string

const (
	// ModeLocal writes files under a local directory tree.
	ModeLocal Mode = "local"
	// ModeS3 uploads files to an S3-compatible bucket.
	ModeS3 Mode = "s3"
)

// Store persists document files keyed by case ID and filename.
type Store interface {
	// Save writes the file and returns its public URL.
	Save(ctx context.Context, vorgangID, name string, body io.Reader) (string, error)

	// Delete removes a stored file. Deleting a missing file is not an
	// error.
	Delete(ctx context.Context, vorgangID, name string) error
}

// Config holds storage configuration.
type Config struct {
	Mode Mode

	// LocalDir is the root directory for local mode.
	LocalDir string

	// PublicBasePath is the URL path uploads are served under in
	// local mode.
	PublicBasePath string

	// S3 configures the bucket for s3 mode.
	S3 S3Config
}

// S3Config holds credentials and addressing for an S3-compatible
// service (Wasabi in production).
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// ConfigFromEnv creates a Config from environment variables.
func ConfigFromEnv() Config {
	return Config{
		Mode:           Mode(getEnvOrDefault("STORAGE_MODE", string(ModeLocal))),
		LocalDir:       getEnvOrDefault("UPLOAD_DIR", "uploads"),
		PublicBasePath: getEnvOrDefault("UPLOAD_BASE_PATH", "/uploads"),
		S3: S3Config{
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			Region:    os.Getenv("S3_REGION"),
			Bucket:    os.Getenv("S3_BUCKET"),
			AccessKey: os.Getenv("S3_ACCESS_KEY_ID"),
			SecretKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		},
	}
}

// New creates the store selected by cfg.Mode.
func New(cfg Config) (Store, error) {
	switch cfg.Mode {
	case ModeLocal:
		return NewLocalStore(cfg.LocalDir, cfg.PublicBasePath), nil
	case ModeS3:
		return NewS3Store(cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage mode %q", cfg.Mode)
	}
}

// ContentTypeFor derives the MIME type from a filename extension.
func ContentTypeFor(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
