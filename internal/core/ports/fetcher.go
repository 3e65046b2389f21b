package ports

import (
	"context"

	"go.trai.ch/typesync/internal/core/domain"
)

// SourceFetcher downloads the tagged source archive of a repository.
//
//go:generate mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type SourceFetcher interface {
	// Fetch returns the complete compressed archive body.
	// A non-2xx answer is an error carrying the status code.
	Fetch(ctx context.Context, meta domain.RepositoryMetadata) ([]byte, error)
}
