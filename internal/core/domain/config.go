package domain

// Override variable names recognized by the config resolver.
const (
	EnvOutDir        = "TYPESYNC_OUT_DIR"
	EnvSourceRoot    = "TYPESYNC_SOURCE_ROOT"
	EnvGeneratorPath = "TYPESYNC_GENERATOR_PATH"
	EnvAutoBuild     = "TYPESYNC_AUTO_BUILD"
	EnvBaseURL       = "TYPESYNC_BASE_URL"
	EnvPath          = "PATH"
)

// OutputPlaceholder is replaced by the generator path in build commands.
const OutputPlaceholder = "{output}"

// Config is the immutable result of configuration resolution.
// It is resolved once per run and never mutated afterwards.
type Config struct {
	Metadata RepositoryMetadata

	// ProjectRoot is the directory holding the manifest.
	ProjectRoot string
	// OutDir is the build output directory.
	OutDir string
	// CacheRoot is where the archive is extracted.
	CacheRoot string
	// SourceSubdir is the declaration directory, relative to CacheRoot.
	SourceSubdir string
	// GeneratorPath is the generator executable.
	GeneratorPath string
	// OutputPath is the generated source file.
	OutputPath string

	Provision ProvisionPolicy

	// StrictCache refetches a cache root that has no matching seal.
	StrictCache bool

	// Dependencies lists what resolution read, so a change can invalidate prior output.
	Dependencies Dependencies
}

// DeclarationDir returns the absolute directory holding the declaration files.
func (c *Config) DeclarationDir() string {
	return joinClean(c.CacheRoot, c.SourceSubdir)
}

// ProvisionPolicy controls what happens when the generator binary is absent.
type ProvisionPolicy struct {
	// AutoBuild runs BuildCommand instead of failing.
	AutoBuild bool
	// BuildCommand is the toolchain invocation, OutputPlaceholder marks the binary path.
	BuildCommand []string
	// BuildDir is the working directory of BuildCommand.
	BuildDir string
}

// DefaultBuildCommand builds the generator with the Go toolchain.
func DefaultBuildCommand() []string {
	return []string{"go", "build", "-o", OutputPlaceholder}
}

// Dependencies are the rebuild triggers declared during a run.
type Dependencies struct {
	EnvVars []string `json:"env_vars,omitempty"`
	Paths   []string `json:"paths,omitempty"`
}

// AddEnv records an environment variable once.
func (d *Dependencies) AddEnv(name string) {
	for _, n := range d.EnvVars {
		if n == name {
			return
		}
	}
	d.EnvVars = append(d.EnvVars, name)
}

// AddPath records a filesystem path once.
func (d *Dependencies) AddPath(p string) {
	for _, n := range d.Paths {
		if n == p {
			return
		}
	}
	d.Paths = append(d.Paths, p)
}
