package fs

import (
	"encoding/json"
	"errors"
	iofs "io/fs"
	"os"

	"go.trai.ch/typesync/internal/core/domain"
	"go.trai.ch/typesync/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceCache = (*SourceCache)(nil)

// SourceCache implements ports.SourceCache on the local file system.
type SourceCache struct{}

// NewSourceCache creates a new SourceCache.
func NewSourceCache() *SourceCache {
	return &SourceCache{}
}

// Probe reports what is at root. An unreadable or corrupt seal counts as no seal.
func (c *SourceCache) Probe(root string, meta domain.RepositoryMetadata) (domain.CacheState, *domain.Seal, error) {
	if _, err := os.Stat(root); err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return domain.CacheMissing, nil, nil
		}
		return "", nil, zerr.With(zerr.Wrap(err, "failed to stat cache root"), "root", root)
	}

	//nolint:gosec // Path is constructed from the configured cache root
	data, err := os.ReadFile(domain.SealPath(root))
	if err != nil {
		return domain.CachePresent, nil, nil
	}

	var seal domain.Seal
	if err := json.Unmarshal(data, &seal); err != nil {
		return domain.CachePresent, nil, nil
	}

	if !seal.Matches(meta) {
		return domain.CacheStale, &seal, nil
	}
	return domain.CacheSealed, &seal, nil
}

// Seal writes the completion marker into root.
func (c *SourceCache) Seal(root string, seal domain.Seal) error {
	data, err := json.MarshalIndent(seal, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal seal")
	}

	path := domain.SealPath(root)
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write seal"), "path", path)
	}
	return nil
}

// Reset removes root.
func (c *SourceCache) Reset(root string) error {
	if err := os.RemoveAll(root); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove cache root"), "root", root)
	}
	return nil
}
