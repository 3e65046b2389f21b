// Package generator provisions and runs the external code generator.
package generator

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"strings"

	"go.trai.ch/typesync/internal/adapters/shell"
	"go.trai.ch/typesync/internal/core/domain"
	"go.trai.ch/typesync/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.GeneratorProvisioner = (*Provisioner)(nil)

// Provisioner implements ports.GeneratorProvisioner.
type Provisioner struct {
	executor ports.Executor
	logger   ports.Logger
	environ  func() []string
}

// NewProvisioner creates a Provisioner that builds through executor.
func NewProvisioner(executor ports.Executor, logger ports.Logger) *Provisioner {
	return &Provisioner{executor: executor, logger: logger, environ: os.Environ}
}

// Ensure returns once the generator binary exists. A missing binary is an error
// unless the configuration enables auto-build, in which case it is built first.
func (p *Provisioner) Ensure(ctx context.Context, cfg *domain.Config) error {
	exists, err := isFile(cfg.GeneratorPath)
	if err != nil {
		return domain.Fail(domain.ErrProvision, err)
	}
	if exists {
		return nil
	}

	if !cfg.Provision.AutoBuild {
		msg := fmt.Sprintf(
			"generator not found at %s; build it with `%s` in %s, set %s to an existing binary, or enable auto-build",
			cfg.GeneratorPath,
			strings.Join(buildCommand(cfg), " "),
			cfg.Provision.BuildDir,
			domain.EnvGeneratorPath,
		)
		return domain.Fail(domain.ErrProvision, zerr.With(zerr.New(msg), "path", cfg.GeneratorPath))
	}

	return p.build(ctx, cfg)
}

func (p *Provisioner) build(ctx context.Context, cfg *domain.Config) error {
	cmdline := buildCommand(cfg)
	if len(cmdline) == 0 {
		return domain.Fail(domain.ErrProvision, zerr.New("empty build command"))
	}

	toolchain := cmdline[0]
	if !strings.ContainsRune(toolchain, os.PathSeparator) {
		resolved, err := shell.LookPath(toolchain, p.environ())
		if err != nil {
			return domain.Fail(domain.ErrProvision, zerr.With(domain.ErrToolchainNotFound, "toolchain", toolchain))
		}
		toolchain = resolved
	}

	if p.logger != nil {
		p.logger.Info("building generator " + cfg.GeneratorPath)
	}

	result, err := p.executor.Run(ctx, domain.Command{
		Path: toolchain,
		Args: cmdline[1:],
		Dir:  cfg.Provision.BuildDir,
	})
	if err != nil {
		return domain.Fail(domain.ErrProvision, zerr.Wrap(err, "failed to start generator build"))
	}
	if !result.Success() {
		buildErr := zerr.New(withStderr("generator build failed", result))
		buildErr = zerr.With(buildErr, "exit_code", result.ExitCode)
		return domain.Fail(domain.ErrProvision, zerr.With(buildErr, "stderr", string(result.Stderr)))
	}

	exists, err := isFile(cfg.GeneratorPath)
	if err != nil {
		return domain.Fail(domain.ErrProvision, err)
	}
	if !exists {
		return domain.Fail(domain.ErrProvision,
			zerr.With(zerr.New("build succeeded but produced no generator binary"), "path", cfg.GeneratorPath))
	}
	return nil
}

// buildCommand returns the configured build command with the binary path substituted.
func buildCommand(cfg *domain.Config) []string {
	base := cfg.Provision.BuildCommand
	if len(base) == 0 {
		base = domain.DefaultBuildCommand()
	}
	out := make([]string, len(base))
	for i, arg := range base {
		out[i] = strings.ReplaceAll(arg, domain.OutputPlaceholder, cfg.GeneratorPath)
	}
	return out
}

func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return !info.IsDir(), nil
	}
	if errors.Is(err, iofs.ErrNotExist) {
		return false, nil
	}
	return false, zerr.With(zerr.Wrap(err, "failed to stat generator"), "path", path)
}

// withStderr appends the trimmed stderr of result to msg.
func withStderr(msg string, result *domain.ProcessResult) string {
	detail := strings.TrimSpace(string(result.Stderr))
	if detail == "" {
		return fmt.Sprintf("%s with status %d", msg, result.ExitCode)
	}
	return fmt.Sprintf("%s with status %d: %s", msg, result.ExitCode, detail)
}
