package fetch

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/typesync/internal/core/ports"
)

// NodeID is the unique identifier for the source fetcher Graft node.
const NodeID graft.ID = "adapter.fetch"

func init() {
	graft.Register(graft.Node[ports.SourceFetcher]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.SourceFetcher, error) {
			return NewFetcher(), nil
		},
	})
}
