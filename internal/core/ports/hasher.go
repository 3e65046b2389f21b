package ports

import "go.trai.ch/typesync/internal/core/domain"

// Hasher defines the interface for computing hashes.
//
//go:generate mockgen -destination=mocks/mock_hasher.go -package=mocks -source=hasher.go
type Hasher interface {
	// ComputeInputHash computes the hash of everything a generation depends on.
	ComputeInputHash(fp domain.Fingerprint) (string, error)

	// ComputeFileHash computes the content hash of a single file.
	ComputeFileHash(path string) (string, error)

	// HashBytes computes the hash of an in-memory buffer.
	HashBytes(data []byte) string
}
