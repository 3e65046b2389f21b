package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/typesync/internal/core/ports"
)

const (
	// HasherNodeID is the unique identifier for the hasher Graft node.
	HasherNodeID graft.ID = "adapter.fs.hasher"
	// CacheNodeID is the unique identifier for the source cache Graft node.
	CacheNodeID graft.ID = "adapter.fs.cache"
)

func init() {
	graft.Register(graft.Node[ports.Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Hasher, error) {
			return NewHasher(), nil
		},
	})

	graft.Register(graft.Node[ports.SourceCache]{
		ID:        CacheNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.SourceCache, error) {
			return NewSourceCache(), nil
		},
	})
}
