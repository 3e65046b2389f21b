package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

// Pipeline failure kinds. A stage error is joined with exactly one of these
// so callers can classify it with errors.Is.
var (
	// ErrConfig is returned when required metadata is missing or cannot be parsed.
	ErrConfig = zerr.New("invalid configuration")

	// ErrEnvironment is returned when a mandatory override variable is absent.
	ErrEnvironment = zerr.New("required environment variable not set")

	// ErrFetch is returned when the source archive cannot be downloaded.
	ErrFetch = zerr.New("failed to fetch source archive")

	// ErrExtract is returned when the source archive cannot be unpacked into the cache root.
	ErrExtract = zerr.New("failed to extract source archive")

	// ErrProvision is returned when the generator binary is missing or cannot be built.
	ErrProvision = zerr.New("generator binary not available")

	// ErrTranspile is returned when the generator does not produce output.
	ErrTranspile = zerr.New("generator failed")

	// ErrOutputWrite is returned when the generated source cannot be written.
	ErrOutputWrite = zerr.New("failed to write generated output")
)

var (
	// ErrManifestNotFound is returned when no manifest exists and no compiled-in defaults are set.
	ErrManifestNotFound = zerr.New("could not find typesync.yaml")

	// ErrManifestRead is returned when the manifest cannot be read.
	ErrManifestRead = zerr.New("failed to read manifest")

	// ErrManifestParse is returned when the manifest is not valid YAML.
	ErrManifestParse = zerr.New("failed to parse manifest")

	// ErrEnvFileRead is returned when a dotenv file cannot be read.
	ErrEnvFileRead = zerr.New("failed to read env file")

	// ErrMissingRepository is returned when the repository identifier is empty.
	ErrMissingRepository = zerr.New("missing source repository")

	// ErrMissingVersion is returned when the repository version is empty.
	ErrMissingVersion = zerr.New("missing source version")

	// ErrInvalidVersion is returned when the version carries the tag's "v" prefix.
	ErrInvalidVersion = zerr.New("invalid source version, omit the leading 'v'")

	// ErrInvalidRepository is returned when the repository identifier is malformed.
	ErrInvalidRepository = zerr.New("invalid source repository, expected owner/name")

	// ErrMissingOutDir is returned when no output directory is configured.
	ErrMissingOutDir = zerr.New("output directory not set")

	// ErrMissingGenerator is returned when neither a generator name nor a path override is set.
	ErrMissingGenerator = zerr.New("missing generator name")

	// ErrInvalidOverride is returned when an override variable has an unparsable value.
	ErrInvalidOverride = zerr.New("invalid override value")

	// ErrUnexpectedStatus is returned when the archive server answers outside 2xx.
	ErrUnexpectedStatus = zerr.New("unexpected HTTP status")

	// ErrPathEscapesRoot is returned when an archive entry resolves outside the cache root.
	ErrPathEscapesRoot = zerr.New("archive entry escapes cache root")

	// ErrToolchainNotFound is returned when the auto-build toolchain is not on PATH.
	ErrToolchainNotFound = zerr.New("toolchain not found on PATH")

	// ErrNoDeclarations is returned when the declaration directory holds no files.
	ErrNoDeclarations = zerr.New("no declaration files found")

	// ErrStoreReadFailed is returned when a stamp cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read stamp")

	// ErrStoreUnmarshalFailed is returned when a stamp cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal stamp")

	// ErrStoreMarshalFailed is returned when a stamp cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal stamp")

	// ErrStoreWriteFailed is returned when a stamp cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write stamp")

	// ErrStoreCreateFailed is returned when the stamp directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create stamp directory")
)

// Fail tags detail with a failure kind.
func Fail(kind, detail error) error {
	if detail == nil {
		return kind
	}
	return errors.Join(kind, detail)
}

// Metadata returns the first value stored under key by zerr.With anywhere in
// the error tree.
func Metadata(err error, key string) (any, bool) {
	if err == nil {
		return nil, false
	}
	if z, ok := err.(*zerr.Error); ok {
		if v, found := z.Metadata()[key]; found {
			return v, true
		}
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			if v, ok := Metadata(e, key); ok {
				return v, true
			}
		}
	case interface{ Unwrap() error }:
		return Metadata(u.Unwrap(), key)
	}
	return nil, false
}
