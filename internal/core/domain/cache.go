package domain

import "time"

// CacheState describes what a probe found at the cache root.
type CacheState string

const (
	// CacheMissing means the cache root does not exist.
	CacheMissing CacheState = "missing"
	// CachePresent means the cache root exists without a seal.
	// A failed extraction leaves the root in this state.
	CachePresent CacheState = "present"
	// CacheSealed means the seal matches the requested metadata.
	CacheSealed CacheState = "sealed"
	// CacheStale means the seal names another repository or version.
	CacheStale CacheState = "stale"
)

// Exists reports whether the cache root is on disk, whatever its content.
func (s CacheState) Exists() bool {
	return s != CacheMissing
}

// Seal is the completion marker written after a successful extraction.
type Seal struct {
	Identifier    string    `json:"identifier"`
	Version       string    `json:"version"`
	ArchiveDigest string    `json:"archive_digest"`
	Entries       int       `json:"entries"`
	Timestamp     time.Time `json:"timestamp,omitzero"`
}

// Matches reports whether the seal was written for meta.
func (s *Seal) Matches(meta RepositoryMetadata) bool {
	return s != nil && s.Identifier == meta.Identifier && s.Version == meta.Version
}

// ExtractStats counts what an extraction did.
type ExtractStats struct {
	// Written is the number of entries materialized under the root.
	Written int
	// Skipped is the number of entries dropped by the prefix filter or unsupported type.
	Skipped int
}
