package ports

import (
	"context"

	"go.trai.ch/typesync/internal/core/domain"
)

// GeneratorProvisioner makes sure the generator executable exists.
//
//go:generate mockgen -source=generator.go -destination=mocks/mock_generator.go -package=mocks
type GeneratorProvisioner interface {
	// Ensure returns nil once cfg.GeneratorPath is an existing file, building it if the policy allows.
	Ensure(ctx context.Context, cfg *domain.Config) error
}

// GenerationRunner runs the generator over the declaration files.
type GenerationRunner interface {
	// List returns the declaration files of dir in the order Run passes them.
	List(dir string) ([]string, error)

	// Run passes files to binary in a single invocation, in the given order.
	// The invocation's stdout is the generated source.
	Run(ctx context.Context, files []string, binary string) (*domain.GenerationInvocation, error)
}
