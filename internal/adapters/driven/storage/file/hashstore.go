package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/ytengage/internal/core/domain"
	"github.com/custodia-labs/ytengage/internal/core/ports/driven"
)

// Ensure HashStore implements the interface.
var _ driven.HashStore = (*HashStore)(nil)

// HashStore keeps the last extracted archive hash in a plain-text file.
type HashStore struct {
	path string
}

// NewHashStore creates a hash store backed by the file at path.
// The file is created on first Save.
func NewHashStore(path string) *HashStore {
	return &HashStore{path: path}
}

// Get returns the stored hash, or domain.ErrNotFound when the file does not
// exist or holds nothing.
func (s *HashStore) Get() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading hash file: %w", err)
	}

	hash := strings.TrimSpace(string(data))
	if hash == "" {
		return "", domain.ErrNotFound
	}
	return hash, nil
}

// Save replaces the stored hash.
func (s *HashStore) Save(hash string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating hash directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(hash), 0o644); err != nil {
		return fmt.Errorf("writing hash file: %w", err)
	}
	return nil
}

// Path returns the hash file path.
func (s *HashStore) Path() string {
	return s.path
}
