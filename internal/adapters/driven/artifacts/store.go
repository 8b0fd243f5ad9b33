// Package artifacts writes exported block images to a directory on disk.
package artifacts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/paperlens/internal/core/ports/driven"
)

// ErrInvalidName is returned for names that do not denote a file.
var ErrInvalidName = errors.New("invalid artifact name")

var _ driven.ArtifactStore = (*Store)(nil)

// Store saves artifacts under a directory.
type Store struct {
	mu  sync.RWMutex
	dir string
}

// DefaultDir returns ~/.paperlens/artifacts.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".paperlens", "artifacts"), nil
}

// NewStore creates a store writing into dir. An empty dir means DefaultDir.
func NewStore(dir string) (*Store, error) {
	s := &Store{}
	if err := s.SetDir(dir); err != nil {
		return nil, err
	}
	return s, nil
}

// SetDir changes the output directory. An empty dir means DefaultDir.
func (s *Store) SetDir(dir string) error {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return err
		}
		dir = d
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dir = dir
	return nil
}

// Dir returns the output directory.
func (s *Store) Dir() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dir
}

// SaveImage writes png as name inside the output directory. The file is
// written to a temporary name first and renamed into place.
func (s *Store) SaveImage(name string, png []byte) (string, error) {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) || strings.HasPrefix(base, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	dir := s.Dir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("creating artifacts directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*")
	if err != nil {
		return "", fmt.Errorf("creating artifact: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(png); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("writing artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("writing artifact: %w", err)
	}

	path := filepath.Join(dir, base)
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("saving artifact: %w", err)
	}
	return path, nil
}
