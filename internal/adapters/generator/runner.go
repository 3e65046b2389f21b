package generator

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/typesync/internal/core/domain"
	"go.trai.ch/typesync/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.GenerationRunner = (*Runner)(nil)

// Runner implements ports.GenerationRunner.
type Runner struct {
	executor ports.Executor
}

// NewRunner creates a Runner that invokes the generator through executor.
func NewRunner(executor ports.Executor) *Runner {
	return &Runner{executor: executor}
}

// List returns the declaration files of dir.
func (r *Runner) List(dir string) ([]string, error) {
	return ListDeclarations(dir)
}

// Run passes files to binary in one invocation.
func (r *Runner) Run(ctx context.Context, files []string, binary string) (*domain.GenerationInvocation, error) {
	if len(files) == 0 {
		return nil, domain.Fail(domain.ErrTranspile, domain.ErrNoDeclarations)
	}

	result, err := r.executor.Run(ctx, domain.Command{Path: binary, Args: files})
	if err != nil {
		return nil, domain.Fail(domain.ErrTranspile, zerr.With(zerr.Wrap(err, "failed to launch generator"), "path", binary))
	}
	if !result.Success() {
		genErr := zerr.New(withStderr("generator exited", result))
		genErr = zerr.With(genErr, "exit_code", result.ExitCode)
		return nil, domain.Fail(domain.ErrTranspile, zerr.With(genErr, "stderr", string(result.Stderr)))
	}

	return &domain.GenerationInvocation{Files: files, Result: *result}, nil
}

// ListDeclarations returns the absolute paths of the regular entries of dir, sorted by name.
// Subdirectories and the cache seal are skipped.
func ListDeclarations(dir string) ([]string, error) {
	// os.ReadDir returns entries sorted by filename.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, domain.Fail(domain.ErrExtract,
			zerr.With(zerr.Wrap(err, "failed to list declaration directory"), "dir", dir))
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == domain.SealFileName {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}

	if len(files) == 0 {
		return nil, domain.Fail(domain.ErrTranspile, zerr.With(domain.ErrNoDeclarations, "dir", dir))
	}
	return files, nil
}
