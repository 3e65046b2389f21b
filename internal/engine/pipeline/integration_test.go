package pipeline_test

import (
	"archive/tar"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/typesync/internal/adapters/archive"
	"go.trai.ch/typesync/internal/adapters/cas"
	"go.trai.ch/typesync/internal/adapters/fetch"
	"go.trai.ch/typesync/internal/adapters/fs"
	"go.trai.ch/typesync/internal/adapters/generator"
	"go.trai.ch/typesync/internal/adapters/output"
	"go.trai.ch/typesync/internal/adapters/shell"
	"go.trai.ch/typesync/internal/adapters/telemetry"
	"go.trai.ch/typesync/internal/core/domain"
	"go.trai.ch/typesync/internal/core/ports/mocks"
	"go.trai.ch/typesync/internal/engine/pipeline"
	"go.uber.org/mock/gomock"
)

func sourceArchive(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	dirs := []string{"gitea-1.21.0/", "gitea-1.21.0/modules/", "gitea-1.21.0/modules/structs/"}
	for _, dir := range dirs {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: dir, Typeflag: tar.TypeDir, Mode: 0o755}))
	}
	files := map[string]string{
		"gitea-1.21.0/modules/structs/hook.go": "type Hook struct{}",
		"gitea-1.21.0/modules/structs/repo.go": "type Repo struct{}",
		"gitea-1.21.0/README.md":               "readme",
	}
	for name, body := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: name, Typeflag: tar.TypeReg, Mode: 0o644, Size: int64(len(body)),
		}))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}

	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestPipeline_Run_EndToEnd(t *testing.T) {
	body := sourceArchive(t)
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/go-gitea/gitea/archive/refs/tags/v1.21.0.tar.gz" {
			http.NotFound(w, r)
			return
		}
		hits.Add(1)
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)

	root := t.TempDir()
	out := filepath.Join(root, "out")
	gen := filepath.Join(root, "teahook-gen")
	require.NoError(t, os.WriteFile(gen, []byte("#!/bin/sh\nprintf 'type T { x: int }'\n"), 0o755)) //nolint:gosec // test script

	cfg := &domain.Config{
		Metadata: domain.RepositoryMetadata{
			Identifier: "go-gitea/gitea",
			Version:    "1.21.0",
			BaseURL:    server.URL,
		},
		ProjectRoot:   root,
		OutDir:        out,
		CacheRoot:     filepath.Join(out, "gitea"),
		SourceSubdir:  "modules/structs",
		GeneratorPath: gen,
		OutputPath:    filepath.Join(out, "types.rs"),
	}

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).Times(0)

	executor := shell.NewExecutor()
	p := pipeline.New(
		fetch.NewFetcher(),
		archive.NewExtractor(),
		fs.NewSourceCache(),
		generator.NewProvisioner(executor, logger),
		generator.NewRunner(executor),
		output.NewWriter(),
		cas.NewStore(),
		fs.NewHasher(),
		telemetry.NewNoop(),
		logger,
	)

	res, err := p.Run(context.Background(), cfg, pipeline.Options{})
	require.NoError(t, err)
	assert.True(t, res.Fetched)
	assert.Equal(t, []string{
		filepath.Join(cfg.DeclarationDir(), "hook.go"),
		filepath.Join(cfg.DeclarationDir(), "repo.go"),
	}, res.Files)

	content, err := os.ReadFile(cfg.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, "type T { x: int }", string(content))

	// Second run: sealed cache, stamp matches.
	res, err = p.Run(context.Background(), cfg, pipeline.Options{})
	require.NoError(t, err)
	assert.False(t, res.Fetched)
	assert.True(t, res.UpToDate)
	assert.Equal(t, int32(1), hits.Load())

	// Editing the output invalidates the stamp.
	require.NoError(t, os.WriteFile(cfg.OutputPath, []byte("edited"), domain.FilePerm))
	res, err = p.Run(context.Background(), cfg, pipeline.Options{})
	require.NoError(t, err)
	assert.False(t, res.UpToDate)
	content, err = os.ReadFile(cfg.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, "type T { x: int }", string(content))
}

func TestPipeline_Run_EndToEnd_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(server.Close)

	out := t.TempDir()
	cfg := &domain.Config{
		Metadata:      domain.RepositoryMetadata{Identifier: "go-gitea/gitea", Version: "9.9.9", BaseURL: server.URL},
		OutDir:        out,
		CacheRoot:     filepath.Join(out, "gitea"),
		GeneratorPath: filepath.Join(out, "gen"),
		OutputPath:    filepath.Join(out, "types.rs"),
	}

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	executor := shell.NewExecutor()
	p := pipeline.New(
		fetch.NewFetcher(), archive.NewExtractor(), fs.NewSourceCache(),
		generator.NewProvisioner(executor, logger), generator.NewRunner(executor),
		output.NewWriter(), cas.NewStore(), fs.NewHasher(), telemetry.NewNoop(), logger,
	)

	_, err := p.Run(context.Background(), cfg, pipeline.Options{})
	require.ErrorIs(t, err, domain.ErrFetch)
	code, ok := domain.Metadata(err, "status_code")
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, code)

	_, statErr := os.Stat(cfg.CacheRoot)
	assert.True(t, os.IsNotExist(statErr), "nothing is extracted after a failed fetch")
}
