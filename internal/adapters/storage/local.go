package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"clienthub/internal/domain"
)

// LocalStore keeps avatar bytes on the local filesystem under a base
// directory. Keys are generated UUID filenames, never reused.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create avatar dir: %w", err)
	}

	absDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve avatar dir: %w", err)
	}

	return &LocalStore{baseDir: absDir}, nil
}

func (s *LocalStore) path(key string) (string, error) {
	clean := filepath.Clean(key)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(os.PathSeparator)) || filepath.IsAbs(clean) {
		return "", fmt.Errorf("%w: invalid asset key %q", domain.ErrImageProcessing, key)
	}
	return filepath.Join(s.baseDir, clean), nil
}

// Put writes data durably under key. The write goes through a temp file and
// a rename so a crash never leaves a half-written asset behind.
func (s *LocalStore) Put(ctx context.Context, key string, data []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.baseDir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", domain.ErrImageProcessing, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: write asset: %v", domain.ErrImageProcessing, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: close asset: %v", domain.ErrImageProcessing, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: rename asset: %v", domain.ErrImageProcessing, err)
	}

	return nil
}

// Delete removes the asset under key. A missing key is not an error, so
// compensation deletes stay idempotent.
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete asset %s: %w", key, err)
	}

	return nil
}

// Exists reports whether an asset is present under key.
func (s *LocalStore) Exists(key string) (bool, error) {
	path, err := s.path(key)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat asset %s: %w", key, err)
	}

	return true, nil
}
