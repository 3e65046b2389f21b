package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/typesync/internal/adapters/telemetry"
	tprogrock "go.trai.ch/typesync/internal/adapters/telemetry/progrock"
	"go.trai.ch/typesync/internal/core/domain"
	"go.trai.ch/typesync/internal/core/ports/mocks"
	"go.trai.ch/typesync/internal/engine/pipeline"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	fetcher     *mocks.MockSourceFetcher
	extractor   *mocks.MockArchiveExtractor
	cache       *mocks.MockSourceCache
	provisioner *mocks.MockGeneratorProvisioner
	runner      *mocks.MockGenerationRunner
	writer      *mocks.MockOutputWriter
	store       *mocks.MockBuildInfoStore
	hasher      *mocks.MockHasher
	logger      *mocks.MockLogger

	cfg      *domain.Config
	pipeline *pipeline.Pipeline
}

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		fetcher:     mocks.NewMockSourceFetcher(ctrl),
		extractor:   mocks.NewMockArchiveExtractor(ctrl),
		cache:       mocks.NewMockSourceCache(ctrl),
		provisioner: mocks.NewMockGeneratorProvisioner(ctrl),
		runner:      mocks.NewMockGenerationRunner(ctrl),
		writer:      mocks.NewMockOutputWriter(ctrl),
		store:       mocks.NewMockBuildInfoStore(ctrl),
		hasher:      mocks.NewMockHasher(ctrl),
		logger:      mocks.NewMockLogger(ctrl),
	}

	out := t.TempDir()
	f.cfg = &domain.Config{
		Metadata:      domain.RepositoryMetadata{Identifier: "go-gitea/gitea", Version: "1.21.0"},
		ProjectRoot:   out,
		OutDir:        out,
		CacheRoot:     filepath.Join(out, "gitea"),
		SourceSubdir:  "modules/structs",
		GeneratorPath: filepath.Join(out, "teahook-gen"),
		OutputPath:    filepath.Join(out, "types.rs"),
		Dependencies: domain.Dependencies{
			EnvVars: []string{domain.EnvOutDir, domain.EnvSourceRoot},
		},
	}

	f.pipeline = pipeline.New(
		f.fetcher, f.extractor, f.cache, f.provisioner, f.runner,
		f.writer, f.store, f.hasher, telemetry.NewNoop(), f.logger,
	)
	f.pipeline.SetNow(func() time.Time { return fixedNow })
	f.pipeline.SetLookupEnv(func(name string) (string, bool) {
		if name == domain.EnvOutDir {
			return out, true
		}
		return "", false
	})
	return f
}

func (f *fixture) files() []string {
	dir := f.cfg.DeclarationDir()
	return []string{filepath.Join(dir, "a.go"), filepath.Join(dir, "b.go"), filepath.Join(dir, "c.go")}
}

// expectGeneration expects a full generate and output stage producing stdout.
func (f *fixture) expectGeneration(stdout string) {
	files := f.files()
	f.provisioner.EXPECT().Ensure(gomock.Any(), f.cfg).Return(nil)
	f.runner.EXPECT().List(f.cfg.DeclarationDir()).Return(files, nil)
	f.hasher.EXPECT().ComputeInputHash(gomock.Any()).Return("input", nil)
	f.store.EXPECT().Get(f.cfg.OutDir, f.cfg.OutputPath).Return(nil, nil)
	f.runner.EXPECT().Run(gomock.Any(), files, f.cfg.GeneratorPath).Return(
		&domain.GenerationInvocation{Files: files, Result: domain.ProcessResult{Stdout: []byte(stdout)}}, nil)
	f.writer.EXPECT().Write(f.cfg.OutputPath, []byte(stdout)).Return(nil)
	f.hasher.EXPECT().HashBytes([]byte(stdout)).Return("output")
	f.store.EXPECT().Put(f.cfg.OutDir, domain.BuildInfo{
		Output:       f.cfg.OutputPath,
		InputHash:    "input",
		OutputHash:   "output",
		Dependencies: f.cfg.Dependencies,
		Timestamp:    fixedNow,
	}).Return(nil)
}

func TestPipeline_Run_MissingRootFetchesAndSeals(t *testing.T) {
	f := newFixture(t)
	archiveBytes := []byte("archive")

	gomock.InOrder(
		f.cache.EXPECT().Probe(f.cfg.CacheRoot, f.cfg.Metadata).Return(domain.CacheMissing, nil, nil),
		f.fetcher.EXPECT().Fetch(gomock.Any(), f.cfg.Metadata).Return(archiveBytes, nil),
		f.extractor.EXPECT().Extract(gomock.Any(), gomock.Any(), "gitea-1.21.0", f.cfg.CacheRoot).
			Return(domain.ExtractStats{Written: 4, Skipped: 1}, nil),
		f.hasher.EXPECT().HashBytes(archiveBytes).Return("digest"),
		f.cache.EXPECT().Seal(f.cfg.CacheRoot, domain.Seal{
			Identifier:    "go-gitea/gitea",
			Version:       "1.21.0",
			ArchiveDigest: "digest",
			Entries:       4,
			Timestamp:     fixedNow,
		}).Return(nil),
	)
	f.expectGeneration("type T { x: int }")

	res, err := f.pipeline.Run(context.Background(), f.cfg, pipeline.Options{})
	require.NoError(t, err)
	assert.True(t, res.Fetched)
	assert.Equal(t, domain.CacheMissing, res.Probed)
	assert.Equal(t, domain.ExtractStats{Written: 4, Skipped: 1}, res.Extract)
	assert.Len(t, res.Files, 3)
	assert.False(t, res.UpToDate)
}

func TestPipeline_Run_StampStageIsHidden(t *testing.T) {
	f := newFixture(t)
	f.cache.EXPECT().Probe(gomock.Any(), gomock.Any()).Return(domain.CacheSealed, &domain.Seal{}, nil)
	f.expectGeneration("type T { x: int }")

	var out bytes.Buffer
	rec := tprogrock.New(&out)
	_, err := f.pipeline.WithTelemetry(rec).Run(context.Background(), f.cfg, pipeline.Options{})
	require.NoError(t, err)
	require.NoError(t, rec.Close())

	assert.Equal(t, "~ source (cached)\n✓ generator\n✓ generate\n✓ output\n", out.String())
	assert.NotContains(t, out.String(), domain.StageStamp)
}

func TestPipeline_Run_ExistingRootNeverFetches(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Probe(f.cfg.CacheRoot, f.cfg.Metadata).Return(domain.CachePresent, nil, nil)
	f.logger.EXPECT().Warn(gomock.Any()).Times(1)
	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Times(0)
	f.extractor.EXPECT().Extract(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	f.cache.EXPECT().Reset(gomock.Any()).Times(0)
	f.expectGeneration("type T { x: int }")

	res, err := f.pipeline.Run(context.Background(), f.cfg, pipeline.Options{})
	require.NoError(t, err)
	assert.False(t, res.Fetched)
}

func TestPipeline_Run_SealedRootIsQuiet(t *testing.T) {
	f := newFixture(t)
	seal := &domain.Seal{Identifier: "go-gitea/gitea", Version: "1.21.0"}

	f.cache.EXPECT().Probe(f.cfg.CacheRoot, f.cfg.Metadata).Return(domain.CacheSealed, seal, nil)
	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Times(0)
	f.logger.EXPECT().Warn(gomock.Any()).Times(0)
	f.expectGeneration("")

	_, err := f.pipeline.Run(context.Background(), f.cfg, pipeline.Options{})
	require.NoError(t, err)
}

func TestPipeline_Run_StrictCacheRefetchesStaleRoot(t *testing.T) {
	f := newFixture(t)
	f.cfg.StrictCache = true
	stale := &domain.Seal{Identifier: "go-gitea/gitea", Version: "1.20.0"}

	gomock.InOrder(
		f.cache.EXPECT().Probe(f.cfg.CacheRoot, f.cfg.Metadata).Return(domain.CacheStale, stale, nil),
		f.cache.EXPECT().Reset(f.cfg.CacheRoot).Return(nil),
		f.fetcher.EXPECT().Fetch(gomock.Any(), f.cfg.Metadata).Return([]byte("a"), nil),
		f.extractor.EXPECT().Extract(gomock.Any(), gomock.Any(), "gitea-1.21.0", f.cfg.CacheRoot).
			Return(domain.ExtractStats{Written: 1}, nil),
		f.hasher.EXPECT().HashBytes([]byte("a")).Return("digest"),
		f.cache.EXPECT().Seal(f.cfg.CacheRoot, gomock.Any()).Return(nil),
	)
	f.expectGeneration("x")

	res, err := f.pipeline.Run(context.Background(), f.cfg, pipeline.Options{})
	require.NoError(t, err)
	assert.True(t, res.Fetched)
	assert.Equal(t, domain.CacheStale, res.Probed)
}

func TestPipeline_Run_FetchFailureStopsPipeline(t *testing.T) {
	f := newFixture(t)
	url := f.cfg.Metadata.ArchiveURL()
	fetchErr := domain.Fail(domain.ErrFetch, zerr.With(zerr.With(
		zerr.Wrap(domain.ErrUnexpectedStatus, "GET "+url+" returned 404"), "status_code", 404), "url", url))

	f.cache.EXPECT().Probe(f.cfg.CacheRoot, f.cfg.Metadata).Return(domain.CacheMissing, nil, nil)
	f.fetcher.EXPECT().Fetch(gomock.Any(), f.cfg.Metadata).Return(nil, fetchErr)
	f.extractor.EXPECT().Extract(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	f.cache.EXPECT().Seal(gomock.Any(), gomock.Any()).Times(0)
	f.provisioner.EXPECT().Ensure(gomock.Any(), gomock.Any()).Times(0)
	f.writer.EXPECT().Write(gomock.Any(), gomock.Any()).Times(0)

	_, err := f.pipeline.Run(context.Background(), f.cfg, pipeline.Options{})
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrFetch)
	code, ok := domain.Metadata(err, "status_code")
	require.True(t, ok)
	assert.Equal(t, 404, code)
}

func TestPipeline_Run_ExtractFailureDoesNotSeal(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Probe(f.cfg.CacheRoot, f.cfg.Metadata).Return(domain.CacheMissing, nil, nil)
	f.fetcher.EXPECT().Fetch(gomock.Any(), f.cfg.Metadata).Return([]byte("junk"), nil)
	f.extractor.EXPECT().Extract(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.ExtractStats{}, domain.Fail(domain.ErrExtract, errors.New("gzip: invalid header")))
	f.cache.EXPECT().Seal(gomock.Any(), gomock.Any()).Times(0)

	_, err := f.pipeline.Run(context.Background(), f.cfg, pipeline.Options{})
	require.ErrorIs(t, err, domain.ErrExtract)
}

func TestPipeline_Run_ProvisionFailureStopsPipeline(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Probe(gomock.Any(), gomock.Any()).Return(domain.CacheSealed, &domain.Seal{}, nil)
	f.provisioner.EXPECT().Ensure(gomock.Any(), f.cfg).
		Return(domain.Fail(domain.ErrProvision, errors.New("generator binary not found")))
	f.runner.EXPECT().List(gomock.Any()).Times(0)

	_, err := f.pipeline.Run(context.Background(), f.cfg, pipeline.Options{})
	require.ErrorIs(t, err, domain.ErrProvision)
}

func TestPipeline_Run_GeneratorFailureLeavesOutputUntouched(t *testing.T) {
	f := newFixture(t)
	genErr := domain.Fail(domain.ErrTranspile, zerr.New("generator exited with status 1: boom"))

	f.cache.EXPECT().Probe(gomock.Any(), gomock.Any()).Return(domain.CacheSealed, &domain.Seal{}, nil)
	f.provisioner.EXPECT().Ensure(gomock.Any(), f.cfg).Return(nil)
	f.runner.EXPECT().List(gomock.Any()).Return(f.files(), nil)
	f.hasher.EXPECT().ComputeInputHash(gomock.Any()).Return("input", nil)
	f.store.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, genErr)
	f.writer.EXPECT().Write(gomock.Any(), gomock.Any()).Times(0)
	f.store.EXPECT().Put(gomock.Any(), gomock.Any()).Times(0)

	_, err := f.pipeline.Run(context.Background(), f.cfg, pipeline.Options{})
	require.ErrorIs(t, err, domain.ErrTranspile)
	assert.Contains(t, err.Error(), "boom")
}

func TestPipeline_Run_UpToDateSkipsGenerator(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Probe(gomock.Any(), gomock.Any()).Return(domain.CacheSealed, &domain.Seal{}, nil)
	f.provisioner.EXPECT().Ensure(gomock.Any(), f.cfg).Return(nil)
	f.runner.EXPECT().List(gomock.Any()).Return(f.files(), nil)
	f.hasher.EXPECT().ComputeInputHash(gomock.Any()).Return("input", nil)
	f.store.EXPECT().Get(f.cfg.OutDir, f.cfg.OutputPath).
		Return(&domain.BuildInfo{InputHash: "input", OutputHash: "output"}, nil)
	f.hasher.EXPECT().ComputeFileHash(f.cfg.OutputPath).Return("output", nil)
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	f.writer.EXPECT().Write(gomock.Any(), gomock.Any()).Times(0)

	res, err := f.pipeline.Run(context.Background(), f.cfg, pipeline.Options{})
	require.NoError(t, err)
	assert.True(t, res.UpToDate)
}

func TestPipeline_Run_ModifiedOutputRegenerates(t *testing.T) {
	f := newFixture(t)
	files := f.files()

	f.cache.EXPECT().Probe(gomock.Any(), gomock.Any()).Return(domain.CacheSealed, &domain.Seal{}, nil)
	f.provisioner.EXPECT().Ensure(gomock.Any(), f.cfg).Return(nil)
	f.runner.EXPECT().List(gomock.Any()).Return(files, nil)
	f.hasher.EXPECT().ComputeInputHash(gomock.Any()).Return("input", nil)
	f.store.EXPECT().Get(f.cfg.OutDir, f.cfg.OutputPath).
		Return(&domain.BuildInfo{InputHash: "input", OutputHash: "output"}, nil)
	f.hasher.EXPECT().ComputeFileHash(f.cfg.OutputPath).Return("edited", nil)
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		&domain.GenerationInvocation{Files: files, Result: domain.ProcessResult{Stdout: []byte("x")}}, nil)
	f.writer.EXPECT().Write(f.cfg.OutputPath, []byte("x")).Return(nil)
	f.hasher.EXPECT().HashBytes([]byte("x")).Return("output")
	f.store.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil)

	res, err := f.pipeline.Run(context.Background(), f.cfg, pipeline.Options{})
	require.NoError(t, err)
	assert.False(t, res.UpToDate)
}

func TestPipeline_Run_ForceIgnoresStamp(t *testing.T) {
	f := newFixture(t)
	files := f.files()

	f.cache.EXPECT().Probe(gomock.Any(), gomock.Any()).Return(domain.CacheSealed, &domain.Seal{}, nil)
	f.provisioner.EXPECT().Ensure(gomock.Any(), f.cfg).Return(nil)
	f.runner.EXPECT().List(gomock.Any()).Return(files, nil)
	f.hasher.EXPECT().ComputeInputHash(gomock.Any()).Return("input", nil)
	f.store.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		&domain.GenerationInvocation{Files: files, Result: domain.ProcessResult{Stdout: []byte("x")}}, nil)
	f.writer.EXPECT().Write(f.cfg.OutputPath, []byte("x")).Return(nil)
	f.hasher.EXPECT().HashBytes([]byte("x")).Return("output")
	f.store.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil)

	_, err := f.pipeline.Run(context.Background(), f.cfg, pipeline.Options{Force: true})
	require.NoError(t, err)
}

func TestPipeline_Run_StampFailureOnlyWarns(t *testing.T) {
	f := newFixture(t)
	files := f.files()

	f.cache.EXPECT().Probe(gomock.Any(), gomock.Any()).Return(domain.CacheSealed, &domain.Seal{}, nil)
	f.provisioner.EXPECT().Ensure(gomock.Any(), f.cfg).Return(nil)
	f.runner.EXPECT().List(gomock.Any()).Return(files, nil)
	f.hasher.EXPECT().ComputeInputHash(gomock.Any()).Return("input", nil)
	f.store.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		&domain.GenerationInvocation{Files: files, Result: domain.ProcessResult{Stdout: []byte("x")}}, nil)
	f.writer.EXPECT().Write(gomock.Any(), gomock.Any()).Return(nil)
	f.hasher.EXPECT().HashBytes(gomock.Any()).Return("output")
	f.store.EXPECT().Put(gomock.Any(), gomock.Any()).Return(zerr.New(domain.ErrStoreWriteFailed.Error()))
	f.logger.EXPECT().Warn(gomock.Any()).Times(1)

	_, err := f.pipeline.Run(context.Background(), f.cfg, pipeline.Options{})
	require.NoError(t, err)
}

func TestPipeline_Run_FingerprintCoversDependencies(t *testing.T) {
	f := newFixture(t)
	seal := &domain.Seal{Identifier: "go-gitea/gitea", Version: "1.21.0", ArchiveDigest: "d"}
	files := f.files()

	f.cache.EXPECT().Probe(gomock.Any(), gomock.Any()).Return(domain.CacheSealed, seal, nil)
	f.provisioner.EXPECT().Ensure(gomock.Any(), f.cfg).Return(nil)
	f.runner.EXPECT().List(gomock.Any()).Return(files, nil)
	f.hasher.EXPECT().ComputeInputHash(gomock.Any()).DoAndReturn(func(fp domain.Fingerprint) (string, error) {
		assert.Equal(t, f.cfg.Metadata, fp.Metadata)
		assert.Equal(t, map[string]string{
			domain.EnvOutDir:     f.cfg.OutDir,
			domain.EnvSourceRoot: "",
		}, fp.Env)
		assert.Equal(t, domain.CacheSealed, fp.State)
		assert.Equal(t, seal, fp.Seal)
		assert.Equal(t, f.cfg.GeneratorPath, fp.Generator)
		assert.Equal(t, files, fp.Files)
		return "", errors.New("stat: no such file")
	})
	f.logger.EXPECT().Warn(gomock.Any()).Times(1)
	f.store.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		&domain.GenerationInvocation{Files: files, Result: domain.ProcessResult{Stdout: []byte("x")}}, nil)
	f.writer.EXPECT().Write(gomock.Any(), gomock.Any()).Return(nil)
	f.store.EXPECT().Put(gomock.Any(), gomock.Any()).Times(0)

	_, err := f.pipeline.Run(context.Background(), f.cfg, pipeline.Options{})
	require.NoError(t, err)
}
