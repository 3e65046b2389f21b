// Package shell provides a subprocess executor.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/typesync/internal/core/domain"
	"go.trai.ch/typesync/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec.
type Executor struct{}

// NewExecutor creates a new Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Run starts the command, waits for it and returns what it wrote.
// When ctx carries a vertex, stderr is also streamed to it.
func (e *Executor) Run(ctx context.Context, c domain.Command) (*domain.ProcessResult, error) {
	if c.Path == "" {
		return nil, zerr.New("empty command")
	}

	env := mergeEnvironment(os.Environ(), c.Env)

	// Resolve the executable path
	executable := c.Path
	if !strings.ContainsRune(executable, filepath.Separator) {
		if lp, err := LookPath(executable, env); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, c.Args...) //nolint:gosec // configured command
	cmd.Args[0] = c.Path
	cmd.Dir = c.Dir
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if v, ok := ports.VertexFromContext(ctx); ok {
		cmd.Stderr = io.MultiWriter(&stderr, v.Stderr())
	}

	err := cmd.Run()
	result := &domain.ProcessResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		err = errors.Join(ctxErr, err)
	}
	return nil, zerr.With(zerr.Wrap(err, "failed to run command"), "command", c.Path)
}

// mergeEnvironment appends overrides to the inherited environment, replacing existing keys.
func mergeEnvironment(sysEnv, overrides []string) []string {
	if len(overrides) == 0 {
		return sysEnv
	}

	replaced := make(map[string]struct{}, len(overrides))
	for _, entry := range overrides {
		if k, _, ok := strings.Cut(entry, "="); ok {
			replaced[k] = struct{}{}
		}
	}

	result := make([]string, 0, len(sysEnv)+len(overrides))
	for _, entry := range sysEnv {
		k, _, _ := strings.Cut(entry, "=")
		if _, ok := replaced[k]; ok {
			continue
		}
		result = append(result, entry)
	}
	return append(result, overrides...)
}

// LookPath searches for an executable in the directories named by the PATH entry of env.
func LookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
