// Package pipeline runs the generation stages in order: source, generator,
// generate and output. Each stage either short-circuits or does its work, and
// the first failure stops the run.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"go.trai.ch/typesync/internal/core/domain"
	"go.trai.ch/typesync/internal/core/ports"
	"go.trai.ch/zerr"
)

// Pipeline orchestrates one generation.
type Pipeline struct {
	fetcher     ports.SourceFetcher
	extractor   ports.ArchiveExtractor
	cache       ports.SourceCache
	provisioner ports.GeneratorProvisioner
	runner      ports.GenerationRunner
	writer      ports.OutputWriter
	store       ports.BuildInfoStore
	hasher      ports.Hasher
	telemetry   ports.Telemetry
	logger      ports.Logger

	lookupEnv func(string) (string, bool)
	now       func() time.Time
}

// New creates a new Pipeline with the given dependencies.
func New(
	fetcher ports.SourceFetcher,
	extractor ports.ArchiveExtractor,
	cache ports.SourceCache,
	provisioner ports.GeneratorProvisioner,
	runner ports.GenerationRunner,
	writer ports.OutputWriter,
	store ports.BuildInfoStore,
	hasher ports.Hasher,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Pipeline {
	return &Pipeline{
		fetcher:     fetcher,
		extractor:   extractor,
		cache:       cache,
		provisioner: provisioner,
		runner:      runner,
		writer:      writer,
		store:       store,
		hasher:      hasher,
		telemetry:   telemetry,
		logger:      logger,
		lookupEnv:   os.LookupEnv,
		now:         time.Now,
	}
}

// WithTelemetry returns a copy of p that records its stages to t.
func (p *Pipeline) WithTelemetry(t ports.Telemetry) *Pipeline {
	cp := *p
	cp.telemetry = t
	return &cp
}

// Options tune a single run.
type Options struct {
	// Force regenerates even when the stamp says the output is up to date.
	// Without it an unchanged input skips the generator and leaves the output
	// file as is, instead of overwriting it on every run.
	Force bool
}

// Result summarizes a successful run.
type Result struct {
	// Output is the generated file.
	Output string
	// Probed is the cache state found before the source stage ran.
	Probed domain.CacheState
	// Fetched reports whether the archive was downloaded and extracted.
	Fetched bool
	// Extract is set when Fetched is true.
	Extract domain.ExtractStats
	// Files are the declaration files passed to the generator.
	Files []string
	// UpToDate reports that generation was skipped.
	UpToDate bool
}

// sourceState is what the generate stage needs to know about the cache root.
type sourceState struct {
	state domain.CacheState
	seal  *domain.Seal
}

// Run executes every stage for cfg.
func (p *Pipeline) Run(ctx context.Context, cfg *domain.Config, opts Options) (*Result, error) {
	res := &Result{Output: cfg.OutputPath}

	var src sourceState
	err := p.stage(ctx, domain.StageSource, func(ctx context.Context, v ports.Vertex) (bool, error) {
		var err error
		src, err = p.ensureSource(ctx, cfg, res, v)
		return !res.Fetched, err
	})
	if err != nil {
		return nil, err
	}

	err = p.stage(ctx, domain.StageGenerator, func(ctx context.Context, _ ports.Vertex) (bool, error) {
		return false, p.provisioner.Ensure(ctx, cfg)
	})
	if err != nil {
		return nil, err
	}

	var (
		stdout    []byte
		inputHash string
	)
	err = p.stage(ctx, domain.StageGenerate, func(ctx context.Context, v ports.Vertex) (bool, error) {
		files, err := p.runner.List(cfg.DeclarationDir())
		if err != nil {
			return false, err
		}
		res.Files = files
		v.Log(domain.LogLevelInfo, fmt.Sprintf("%d declaration files", len(files)))

		inputHash = p.inputHash(cfg, src, files)
		if !opts.Force && p.upToDate(cfg, inputHash) {
			res.UpToDate = true
			return true, nil
		}

		inv, err := p.runner.Run(ctx, files, cfg.GeneratorPath)
		if err != nil {
			return false, err
		}
		stdout = inv.Result.Stdout
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	if res.UpToDate {
		return res, nil
	}

	err = p.stage(ctx, domain.StageOutput, func(_ context.Context, _ ports.Vertex) (bool, error) {
		return false, p.writer.Write(cfg.OutputPath, stdout)
	})
	if err != nil {
		return nil, err
	}

	// A stamp failure never fails the run; the output is already in place.
	_ = p.stage(ctx, domain.StageStamp, func(_ context.Context, v ports.Vertex) (bool, error) {
		p.stamp(cfg, inputHash, stdout, v)
		return false, nil
	}, ports.WithInternal())

	return res, nil
}

// stage runs fn inside a telemetry vertex named name.
func (p *Pipeline) stage(
	ctx context.Context,
	name string,
	fn func(context.Context, ports.Vertex) (bool, error),
	opts ...ports.VertexOption,
) error {
	ctx, v := p.telemetry.Record(ctx, name, opts...)
	cached, err := fn(ctx, v)
	if cached && err == nil {
		v.Cached()
	}
	v.Complete(err)
	return err
}

// ensureSource makes sure the cache root holds the extracted archive.
// An existing root is used as is unless cfg.StrictCache asks for a seal.
func (p *Pipeline) ensureSource(
	ctx context.Context,
	cfg *domain.Config,
	res *Result,
	v ports.Vertex,
) (sourceState, error) {
	state, seal, err := p.cache.Probe(cfg.CacheRoot, cfg.Metadata)
	if err != nil {
		return sourceState{}, domain.Fail(domain.ErrExtract, err)
	}
	res.Probed = state

	switch {
	case state == domain.CacheSealed:
		return sourceState{state: state, seal: seal}, nil
	case state.Exists():
		if !cfg.StrictCache {
			p.logger.Warn(unsealedWarning(cfg, state, seal))
			return sourceState{state: state, seal: seal}, nil
		}
		v.Log(domain.LogLevelWarn, fmt.Sprintf("removing %s cache root %s", state, cfg.CacheRoot))
		if err := p.cache.Reset(cfg.CacheRoot); err != nil {
			return sourceState{}, domain.Fail(domain.ErrExtract, err)
		}
	}

	v.Log(domain.LogLevelInfo, "fetching "+cfg.Metadata.ArchiveURL())
	data, err := p.fetcher.Fetch(ctx, cfg.Metadata)
	if err != nil {
		return sourceState{}, err
	}

	stats, err := p.extractor.Extract(ctx, bytes.NewReader(data), cfg.Metadata.EntryPrefix(), cfg.CacheRoot)
	if err != nil {
		return sourceState{}, err
	}
	res.Fetched = true
	res.Extract = stats
	v.Log(domain.LogLevelInfo, fmt.Sprintf("extracted %d entries, skipped %d", stats.Written, stats.Skipped))

	newSeal := domain.Seal{
		Identifier:    cfg.Metadata.Identifier,
		Version:       cfg.Metadata.Version,
		ArchiveDigest: p.hasher.HashBytes(data),
		Entries:       stats.Written,
		Timestamp:     p.now().UTC(),
	}
	if err := p.cache.Seal(cfg.CacheRoot, newSeal); err != nil {
		return sourceState{}, domain.Fail(domain.ErrExtract, err)
	}

	return sourceState{state: domain.CacheSealed, seal: &newSeal}, nil
}

func unsealedWarning(cfg *domain.Config, state domain.CacheState, seal *domain.Seal) string {
	if state == domain.CacheStale && seal != nil {
		return fmt.Sprintf(
			"cache root %s holds %s@%s, not %s; using it as is (pass --strict-cache to refetch)",
			cfg.CacheRoot, seal.Identifier, seal.Version, cfg.Metadata)
	}
	return fmt.Sprintf(
		"cache root %s exists but was not sealed by a complete extraction; using it as is (pass --strict-cache to refetch)",
		cfg.CacheRoot)
}

// inputHash returns the input hash of this generation, or "" if it cannot be
// computed. Without a hash the output is never considered up to date.
func (p *Pipeline) inputHash(cfg *domain.Config, src sourceState, files []string) string {
	env := make(map[string]string, len(cfg.Dependencies.EnvVars))
	for _, name := range cfg.Dependencies.EnvVars {
		value, _ := p.lookupEnv(name)
		env[name] = value
	}

	hash, err := p.hasher.ComputeInputHash(domain.Fingerprint{
		Metadata:  cfg.Metadata,
		Env:       env,
		Paths:     cfg.Dependencies.Paths,
		State:     src.state,
		Seal:      src.seal,
		Generator: cfg.GeneratorPath,
		Files:     files,
	})
	if err != nil {
		p.logger.Warn("cannot compute input hash, regenerating: " + err.Error())
		return ""
	}
	return hash
}

// upToDate reports whether the stamp for cfg.OutputPath records inputHash and
// the output file still has the recorded content.
func (p *Pipeline) upToDate(cfg *domain.Config, inputHash string) bool {
	if inputHash == "" {
		return false
	}

	info, err := p.store.Get(cfg.OutDir, cfg.OutputPath)
	if err != nil {
		p.logger.Warn("ignoring unreadable stamp: " + err.Error())
		return false
	}
	if info == nil || info.InputHash != inputHash {
		return false
	}

	outputHash, err := p.hasher.ComputeFileHash(cfg.OutputPath)
	if err != nil {
		return false
	}
	return info.OutputHash == outputHash
}

// stamp records a successful generation. Failures only produce a warning
// since the output itself is already in place.
func (p *Pipeline) stamp(cfg *domain.Config, inputHash string, output []byte, v ports.Vertex) {
	if inputHash == "" {
		v.Log(domain.LogLevelWarn, "no input hash, skipping stamp")
		return
	}

	err := p.store.Put(cfg.OutDir, domain.BuildInfo{
		Output:       cfg.OutputPath,
		InputHash:    inputHash,
		OutputHash:   p.hasher.HashBytes(output),
		Dependencies: cfg.Dependencies,
		Timestamp:    p.now().UTC(),
	})
	if err != nil {
		p.logger.Warn(zerr.Wrap(err, "failed to record generation stamp").Error())
	}
}
