package ports

import "go.trai.ch/typesync/internal/core/domain"

// BuildInfoStore defines the interface for storing and retrieving generation stamps.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type BuildInfoStore interface {
	// Get retrieves the stamp recorded for an output path.
	// Returns nil, nil if not found.
	Get(outDir, output string) (*domain.BuildInfo, error)

	// Put stores the stamp.
	Put(outDir string, info domain.BuildInfo) error

	// Clear removes every stamp under outDir.
	Clear(outDir string) error
}
