package pipeline

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/typesync/internal/adapters/archive"            //nolint:depguard // Wired in engine wiring
	"go.trai.ch/typesync/internal/adapters/cas"                //nolint:depguard // Wired in engine wiring
	"go.trai.ch/typesync/internal/adapters/fetch"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/typesync/internal/adapters/fs"                 //nolint:depguard // Wired in engine wiring
	"go.trai.ch/typesync/internal/adapters/generator"          //nolint:depguard // Wired in engine wiring
	"go.trai.ch/typesync/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/typesync/internal/adapters/output"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/typesync/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/typesync/internal/core/ports"
)

// NodeID is the unique identifier for the pipeline Graft node.
const NodeID graft.ID = "engine.pipeline"

func init() {
	graft.Register(graft.Node[*Pipeline]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fetch.NodeID,
			archive.NodeID,
			fs.CacheNodeID,
			generator.ProvisionerNodeID,
			generator.RunnerNodeID,
			output.NodeID,
			cas.NodeID,
			fs.HasherNodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: runPipelineNode,
	})
}

func runPipelineNode(ctx context.Context) (*Pipeline, error) {
	fetcher, err := graft.Dep[ports.SourceFetcher](ctx)
	if err != nil {
		return nil, err
	}

	extractor, err := graft.Dep[ports.ArchiveExtractor](ctx)
	if err != nil {
		return nil, err
	}

	cache, err := graft.Dep[ports.SourceCache](ctx)
	if err != nil {
		return nil, err
	}

	provisioner, err := graft.Dep[ports.GeneratorProvisioner](ctx)
	if err != nil {
		return nil, err
	}

	runner, err := graft.Dep[ports.GenerationRunner](ctx)
	if err != nil {
		return nil, err
	}

	writer, err := graft.Dep[ports.OutputWriter](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.BuildInfoStore](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(fetcher, extractor, cache, provisioner, runner, writer, store, hasher, telemetry, log), nil
}
