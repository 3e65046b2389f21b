package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/typesync/internal/adapters/telemetry"
	"go.trai.ch/typesync/internal/app"
	"go.trai.ch/typesync/internal/core/domain"
	"go.trai.ch/typesync/internal/core/ports/mocks"
	"go.trai.ch/typesync/internal/engine/pipeline"
	"go.uber.org/mock/gomock"
)

func TestRun_Version(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	application := app.New(mocks.NewMockConfigResolver(ctrl), nil, nil, nil, mockLogger)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{
			App:       application,
			Logger:    mockLogger,
			Telemetry: telemetry.NewNoop(),
		}, func() {}, nil
	}

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stdout, new(bytes.Buffer), provider)
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "typesync version")
}

func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockResolver := mocks.NewMockConfigResolver(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)

	cfgErr := domain.Fail(domain.ErrEnvironment, domain.ErrMissingOutDir)
	mockResolver.EXPECT().Resolve(gomock.Any()).Return(nil, cfgErr)
	mockLogger.EXPECT().Error(cfgErr).Times(1)

	pipe := pipeline.New(nil, nil, nil, nil, nil, nil, nil, nil, telemetry.NewNoop(), mockLogger)
	application := app.New(mockResolver, pipe, nil, nil, mockLogger).WithWorkDir(t.TempDir())
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: mockLogger, Telemetry: telemetry.NewNoop()}, func() {}, nil
	}

	exitCode := run(context.Background(), []string{"generate"}, new(bytes.Buffer), new(bytes.Buffer), provider)
	assert.Equal(t, 1, exitCode)
}

// TestRun_Wired drives the registered graph against a project with a
// pre-extracted source and a stub generator, so nothing is fetched.
func TestRun_Wired(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "out")
	decls := filepath.Join(out, "gitea", "modules", "structs")
	require.NoError(t, os.MkdirAll(decls, domain.DirPerm))
	require.NoError(t, os.WriteFile(filepath.Join(decls, "hook.go"), []byte("type Hook struct{}"), domain.FilePerm))
	//nolint:gosec // test script
	require.NoError(t, os.WriteFile(filepath.Join(root, "teahook-gen"), []byte("#!/bin/sh\nprintf 'type T { x: int }'\n"), 0o755))

	manifest := `source:
  repository: go-gitea/gitea
  version: 1.21.0
  subdir: modules/structs
generator:
  name: teahook-gen
output:
  dir: out
  file: types.rs
`
	require.NoError(t, os.WriteFile(filepath.Join(root, domain.ManifestFileName), []byte(manifest), domain.FilePerm))
	t.Setenv(domain.EnvOutDir, "")
	t.Setenv(domain.EnvSourceRoot, "")
	t.Setenv(domain.EnvGeneratorPath, "")
	t.Setenv(domain.EnvAutoBuild, "")
	t.Setenv(domain.EnvBaseURL, "")
	t.Setenv("NO_COLOR", "1")

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(),
		[]string{"generate", "--json-logs", "-m", filepath.Join(root, domain.ManifestFileName)},
		new(bytes.Buffer), stderr, defaultProvider)
	require.Equal(t, 0, exitCode, stderr.String())

	content, err := os.ReadFile(filepath.Join(out, "types.rs"))
	require.NoError(t, err)
	assert.Equal(t, "type T { x: int }", string(content))
}
