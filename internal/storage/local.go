package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes files under a per-case directory on local disk.
// Files are served by the API's static upload route.
type LocalStore struct {
	root     string
	basePath string
}

// NewLocalStore creates a local disk store rooted at dir. basePath is
// the URL path prefix returned for stored files.
func NewLocalStore(dir, basePath string) *LocalStore {
	return &LocalStore{
		root:     dir,
		basePath: strings.TrimSuffix(basePath, "/"),
	}
}

// Save writes the file to {root}/{vorgangID}/{name}.
func (s *LocalStore) Save(_ context.Context, vorgangID, name string, body io.Reader) (string, error) {
	dir := filepath.Join(s.root, vorgangID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	target := filepath.Join(dir, filepath.Base(name))
	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}

	return s.basePath + "/" + vorgangID + "/" + filepath.Base(name), nil
}

// Delete removes a stored file and, when it was the last one, the
// case directory.
func (s *LocalStore) Delete(_ context.Context, vorgangID, name string) error {
	target := filepath.Join(s.root, vorgangID, filepath.Base(name))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	// Best effort: drop the directory if it is now empty.
	_ = os.Remove(filepath.Join(s.root, vorgangID))
	return nil
}

// Root returns the directory the store writes under, for static serving.
func (s *LocalStore) Root() string {
	return s.root
}

// Ensure LocalStore implements Store interface.
var _ Store = (*LocalStore)(nil)
