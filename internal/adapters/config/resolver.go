// Package config resolves the run configuration from the manifest and the environment.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"go.trai.ch/typesync/internal/build"
	"go.trai.ch/typesync/internal/core/domain"
	"go.trai.ch/typesync/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Resolver implements ports.ConfigResolver using a YAML manifest and override variables.
type Resolver struct {
	Logger ports.Logger

	lookupEnv func(string) (string, bool)
}

// NewResolver creates a new Resolver reading the process environment.
func NewResolver(logger ports.Logger) *Resolver {
	return &Resolver{Logger: logger, lookupEnv: os.LookupEnv}
}

// Resolve reads the manifest and the override variables and returns the run configuration.
func (r *Resolver) Resolve(req ports.ResolveRequest) (*domain.Config, error) {
	workDir, err := filepath.Abs(req.WorkDir)
	if err != nil {
		return nil, domain.Fail(domain.ErrConfig, zerr.Wrap(err, "failed to resolve working directory"))
	}

	var deps domain.Dependencies

	manifest, projectRoot, err := r.loadManifest(workDir, req.ManifestPath, &deps)
	if err != nil {
		return nil, domain.Fail(domain.ErrConfig, err)
	}

	dotenv, err := readEnvFile(projectRoot, req.EnvFile, &deps)
	if err != nil {
		return nil, domain.Fail(domain.ErrConfig, err)
	}

	env := &environment{lookup: r.lookupEnv, file: dotenv, deps: &deps}
	return buildConfig(manifest, projectRoot, workDir, req, env)
}

func buildConfig(
	m *Manifest,
	projectRoot, workDir string,
	req ports.ResolveRequest,
	env *environment,
) (*domain.Config, error) {
	meta := domain.RepositoryMetadata{
		Identifier: m.Source.Repository,
		Version:    m.Source.Version,
		BaseURL:    m.Source.BaseURL,
	}
	if v, ok := env.get(domain.EnvBaseURL); ok {
		meta.BaseURL = v
	}
	if meta.BaseURL == "" {
		meta.BaseURL = domain.DefaultBaseURL
	}
	if err := meta.Validate(); err != nil {
		return nil, domain.Fail(domain.ErrConfig, err)
	}

	outDir, err := resolveOutDir(m, projectRoot, workDir, req.OutDir, env)
	if err != nil {
		return nil, err
	}

	cacheRoot := filepath.Join(outDir, meta.Name())
	if v, ok := env.get(domain.EnvSourceRoot); ok {
		cacheRoot = absFrom(workDir, v)
	}

	generatorPath := ""
	if m.Generator.Name != "" {
		generatorPath = filepath.Join(projectRoot, m.Generator.Name)
	}
	if v, ok := env.get(domain.EnvGeneratorPath); ok {
		generatorPath = absFrom(workDir, v)
	}
	if generatorPath == "" {
		return nil, domain.Fail(domain.ErrConfig,
			zerr.With(domain.ErrMissingGenerator, "variable", domain.EnvGeneratorPath))
	}

	autoBuild := m.Generator.AutoBuild
	if v, ok := env.get(domain.EnvAutoBuild); ok {
		parsed, parseErr := strconv.ParseBool(v)
		if parseErr != nil {
			detail := zerr.With(zerr.Wrap(parseErr, domain.ErrInvalidOverride.Error()), "variable", domain.EnvAutoBuild)
			return nil, domain.Fail(domain.ErrConfig, zerr.With(detail, "value", v))
		}
		autoBuild = parsed
	}
	if req.AutoBuild != nil {
		autoBuild = *req.AutoBuild
	}

	strict := m.Source.StrictCache
	if req.StrictCache != nil {
		strict = *req.StrictCache
	}

	buildCmd := m.Generator.Build
	if len(buildCmd) == 0 {
		buildCmd = domain.DefaultBuildCommand()
	}

	outputFile := m.Output.File
	if outputFile == "" {
		outputFile = domain.DefaultOutputFile
	}

	if autoBuild {
		env.deps.AddEnv(domain.EnvPath)
	}
	env.deps.AddPath(cacheRoot)
	env.deps.AddPath(generatorPath)

	return &domain.Config{
		Metadata:      meta,
		ProjectRoot:   projectRoot,
		OutDir:        outDir,
		CacheRoot:     cacheRoot,
		SourceSubdir:  m.Source.Subdir,
		GeneratorPath: generatorPath,
		OutputPath:    filepath.Join(outDir, outputFile),
		Provision: domain.ProvisionPolicy{
			AutoBuild:    autoBuild,
			BuildCommand: buildCmd,
			BuildDir:     absFrom(projectRoot, m.Generator.BuildDir),
		},
		StrictCache:  strict,
		Dependencies: *env.deps,
	}, nil
}

func resolveOutDir(m *Manifest, projectRoot, workDir, flag string, env *environment) (string, error) {
	// The variable is always read so that it is tracked, even when the flag wins.
	v, ok := env.get(domain.EnvOutDir)
	switch {
	case flag != "":
		return absFrom(workDir, flag), nil
	case ok:
		return absFrom(workDir, v), nil
	case m.Output.Dir != "":
		return absFrom(projectRoot, m.Output.Dir), nil
	default:
		return "", domain.Fail(domain.ErrEnvironment,
			zerr.With(domain.ErrMissingOutDir, "variable", domain.EnvOutDir))
	}
}

func (r *Resolver) loadManifest(workDir, explicit string, deps *domain.Dependencies) (*Manifest, string, error) {
	path := explicit
	if path != "" {
		path = absFrom(workDir, path)
	} else {
		path = findManifest(workDir)
	}

	if path == "" {
		m := builtinManifest()
		if m.Source.Repository == "" {
			return nil, "", zerr.With(domain.ErrManifestNotFound, "cwd", workDir)
		}
		if r.Logger != nil {
			r.Logger.Warn("no " + domain.ManifestFileName + " found, using built-in defaults for " + m.Source.Repository)
		}
		return m, workDir, nil
	}

	deps.AddPath(path)

	var m Manifest
	if err := readAndUnmarshalYAML(path, &m); err != nil {
		return nil, "", err
	}
	return &m, filepath.Dir(path), nil
}

func findManifest(start string) string {
	currentDir := start
	for {
		candidate := filepath.Join(currentDir, domain.ManifestFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return ""
		}
		currentDir = parentDir
	}
}

func builtinManifest() *Manifest {
	return &Manifest{
		Source: SourceDTO{
			Repository: build.Repository,
			Version:    build.RepositoryVersion,
			Subdir:     build.SourceSubdir,
		},
		Generator: GeneratorDTO{Name: build.Generator},
	}
}

func readAndUnmarshalYAML[T any](path string, target *T) error {
	// #nosec G304 -- path is the located manifest
	content, err := os.ReadFile(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrManifestRead.Error()), "path", path)
	}

	if parseErr := yaml.Unmarshal(content, target); parseErr != nil {
		return zerr.With(zerr.Wrap(parseErr, domain.ErrManifestParse.Error()), "path", path)
	}

	return nil
}

// readEnvFile returns the dotenv values. The default file is optional, an explicit one is not.
func readEnvFile(projectRoot, explicit string, deps *domain.Dependencies) (map[string]string, error) {
	path := filepath.Join(projectRoot, domain.EnvFileName)
	if explicit != "" {
		path = absFrom(projectRoot, explicit)
	}
	deps.AddPath(path)

	values, err := godotenv.Read(path)
	if err == nil {
		return values, nil
	}
	if explicit == "" && errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return nil, zerr.With(zerr.Wrap(err, domain.ErrEnvFileRead.Error()), "path", path)
}

// environment looks variables up in the process first, then in the dotenv values.
// An empty value counts as unset.
type environment struct {
	lookup func(string) (string, bool)
	file   map[string]string
	deps   *domain.Dependencies
}

func (e *environment) get(name string) (string, bool) {
	e.deps.AddEnv(name)
	if v, ok := e.lookup(name); ok && v != "" {
		return v, true
	}
	if v := e.file[name]; v != "" {
		return v, true
	}
	return "", false
}

func absFrom(base, p string) string {
	if p == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
