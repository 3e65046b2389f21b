package ports

import "go.trai.ch/typesync/internal/core/domain"

// SourceCache inspects and maintains the cache root the archive is extracted into.
//
//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type SourceCache interface {
	// Probe reports the state of root for meta. The seal is nil unless one was found.
	Probe(root string, meta domain.RepositoryMetadata) (domain.CacheState, *domain.Seal, error)

	// Seal records that root holds a complete extraction.
	Seal(root string, seal domain.Seal) error

	// Reset removes root and everything below it.
	Reset(root string) error
}
