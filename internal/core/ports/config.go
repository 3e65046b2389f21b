package ports

import "go.trai.ch/typesync/internal/core/domain"

// ResolveRequest carries the caller-side inputs of configuration resolution.
// Empty strings and nil pointers mean "not given on the command line".
type ResolveRequest struct {
	// WorkDir is where the manifest search starts.
	WorkDir string
	// ManifestPath skips the search when set.
	ManifestPath string
	// EnvFile is a dotenv file read after the process environment.
	EnvFile string
	// OutDir takes priority over every other output directory source.
	OutDir string
	// AutoBuild overrides the manifest and environment provisioning policy.
	AutoBuild *bool
	// StrictCache overrides the manifest cache policy.
	StrictCache *bool
}

// ConfigResolver turns the manifest and the environment into an immutable configuration.
//
//go:generate mockgen -source=config.go -destination=mocks/mock_config.go -package=mocks
type ConfigResolver interface {
	// Resolve reads the manifest and the override variables once and returns the run configuration.
	Resolve(req ResolveRequest) (*domain.Config, error)
}
