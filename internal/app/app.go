// Package app implements the application layer for typesync.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/typesync/internal/core/domain"
	"go.trai.ch/typesync/internal/core/ports"
	"go.trai.ch/typesync/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	resolver ports.ConfigResolver
	pipeline *pipeline.Pipeline
	cache    ports.SourceCache
	store    ports.BuildInfoStore
	logger   ports.Logger
	getwd    func() (string, error)
}

// New creates a new App instance.
func New(
	resolver ports.ConfigResolver,
	pipe *pipeline.Pipeline,
	cache ports.SourceCache,
	store ports.BuildInfoStore,
	log ports.Logger,
) *App {
	return &App{
		resolver: resolver,
		pipeline: pipe,
		cache:    cache,
		store:    store,
		logger:   log,
		getwd:    os.Getwd,
	}
}

// WithTelemetry makes the App record pipeline stages to t.
func (a *App) WithTelemetry(t ports.Telemetry) *App {
	a.pipeline = a.pipeline.WithTelemetry(t)
	return a
}

// WithWorkDir fixes the directory the manifest search starts from.
func (a *App) WithWorkDir(dir string) *App {
	a.getwd = func() (string, error) { return dir, nil }
	return a
}

// ConfigOptions locate and override the project configuration.
type ConfigOptions struct {
	ManifestPath string
	EnvFile      string
	OutDir       string
}

// GenerateOptions configuration for the Generate method.
type GenerateOptions struct {
	ConfigOptions

	// AutoBuild and StrictCache override the manifest when set.
	AutoBuild   *bool
	StrictCache *bool
	Force       bool
}

// Generate resolves the configuration and runs the pipeline once.
func (a *App) Generate(ctx context.Context, opts GenerateOptions) (*pipeline.Result, error) {
	cfg, err := a.resolve(opts.ConfigOptions, opts.AutoBuild, opts.StrictCache)
	if err != nil {
		return nil, err
	}

	res, err := a.pipeline.Run(ctx, cfg, pipeline.Options{Force: opts.Force})
	if err != nil {
		return nil, err
	}

	if res.UpToDate {
		a.logger.Info(fmt.Sprintf("%s is up to date", cfg.OutputPath))
	} else {
		a.logger.Info(fmt.Sprintf("generated %s from %d declaration files", cfg.OutputPath, len(res.Files)))
	}
	return res, nil
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	ConfigOptions

	// Source also removes the extracted archive.
	Source bool
	// All removes the extracted archive and the generated file as well.
	All bool
}

// Clean removes generation stamps and, depending on options, the cache root
// and the generated file.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	cfg, err := a.resolve(opts.ConfigOptions, nil, nil)
	if err != nil {
		return err
	}

	var errs error

	remove := func(name, path string, fn func() error) {
		if err := fn(); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, "failed to remove "+name), "path", path))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s %s", name, path))
	}

	remove("generation stamps", domain.StorePath(cfg.OutDir), func() error {
		return a.store.Clear(cfg.OutDir)
	})

	if opts.Source || opts.All {
		remove("source cache", cfg.CacheRoot, func() error {
			return a.cache.Reset(cfg.CacheRoot)
		})
	}

	if opts.All {
		remove("generated file", cfg.OutputPath, func() error {
			if err := os.Remove(cfg.OutputPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			return nil
		})
	}

	return errs
}

func (a *App) resolve(opts ConfigOptions, autoBuild, strictCache *bool) (*domain.Config, error) {
	wd, err := a.getwd()
	if err != nil {
		return nil, domain.Fail(domain.ErrConfig, zerr.Wrap(err, "failed to get working directory"))
	}

	return a.resolver.Resolve(ports.ResolveRequest{
		WorkDir:      wd,
		ManifestPath: absOrEmpty(wd, opts.ManifestPath),
		EnvFile:      absOrEmpty(wd, opts.EnvFile),
		OutDir:       absOrEmpty(wd, opts.OutDir),
		AutoBuild:    autoBuild,
		StrictCache:  strictCache,
	})
}

func absOrEmpty(wd, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(wd, p)
}
