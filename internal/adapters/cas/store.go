// Package cas implements storage for generation stamps.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/typesync/internal/core/domain"
	"go.trai.ch/typesync/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BuildInfoStore = (*Store)(nil)

// Store implements ports.BuildInfoStore using a file-per-output strategy.
type Store struct{}

// NewStore creates a new BuildInfoStore.
func NewStore() *Store {
	return &Store{}
}

// Get retrieves the stamp recorded for output.
func (s *Store) Get(outDir, output string) (*domain.BuildInfo, error) {
	filename := s.filename(outDir, output)
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "path", filename)
	}

	var info domain.BuildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "path", filename)
	}

	return &info, nil
}

// Put stores the stamp.
func (s *Store) Put(outDir string, info domain.BuildInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	filename := s.filename(outDir, info.Output)
	if err := os.MkdirAll(filepath.Dir(filename), domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	if err := os.WriteFile(filename, data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	return nil
}

// Clear removes every stamp under outDir.
func (s *Store) Clear(outDir string) error {
	if err := os.RemoveAll(domain.StorePath(outDir)); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to clear stamps"), "path", domain.StorePath(outDir))
	}
	return nil
}

func (s *Store) filename(outDir, output string) string {
	hash := sha256.Sum256([]byte(output))
	return filepath.Join(domain.StorePath(outDir), hex.EncodeToString(hash[:])+".json")
}
