package generator

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/typesync/internal/adapters/logger"
	"go.trai.ch/typesync/internal/adapters/shell"
	"go.trai.ch/typesync/internal/core/ports"
)

const (
	// ProvisionerNodeID is the unique identifier for the provisioner Graft node.
	ProvisionerNodeID graft.ID = "adapter.generator.provisioner"
	// RunnerNodeID is the unique identifier for the runner Graft node.
	RunnerNodeID graft.ID = "adapter.generator.runner"
)

func init() {
	graft.Register(graft.Node[ports.GeneratorProvisioner]{
		ID:        ProvisionerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.GeneratorProvisioner, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewProvisioner(executor, log), nil
		},
	})

	graft.Register(graft.Node[ports.GenerationRunner]{
		ID:        RunnerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.GenerationRunner, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return NewRunner(executor), nil
		},
	})
}
