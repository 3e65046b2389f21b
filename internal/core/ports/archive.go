package ports

import (
	"context"
	"io"

	"go.trai.ch/typesync/internal/core/domain"
)

// ArchiveExtractor unpacks a gzip-compressed tar stream.
//
//go:generate mockgen -source=archive.go -destination=mocks/mock_archive.go -package=mocks
type ArchiveExtractor interface {
	// Extract writes every entry found under prefix/ into root with the prefix removed.
	// Entries outside the prefix are skipped. Entries written before a failure stay on disk.
	Extract(ctx context.Context, r io.Reader, prefix, root string) (domain.ExtractStats, error)
}
