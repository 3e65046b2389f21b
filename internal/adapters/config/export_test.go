// export_test.go exposes internals for black-box tests.
package config

import "go.trai.ch/typesync/internal/core/ports"

// NewResolverWithEnv creates a Resolver that reads variables from env instead of the process.
func NewResolverWithEnv(logger ports.Logger, env map[string]string) *Resolver {
	return &Resolver{
		Logger: logger,
		lookupEnv: func(name string) (string, bool) {
			v, ok := env[name]
			return v, ok
		},
	}
}
