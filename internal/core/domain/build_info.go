package domain

import "time"

// BuildInfo is the stamp recorded after a successful generation.
type BuildInfo struct {
	Output       string       `json:"output,omitzero"`
	InputHash    string       `json:"input_hash,omitzero"`
	OutputHash   string       `json:"output_hash,omitzero"`
	Dependencies Dependencies `json:"dependencies,omitzero"`
	Timestamp    time.Time    `json:"timestamp,omitzero"`
}

// Fingerprint lists everything the input hash of a generation covers.
type Fingerprint struct {
	Metadata RepositoryMetadata
	// Env holds the value of every tracked variable, empty when unset.
	Env map[string]string
	// Paths are tracked for existence only.
	Paths []string
	// State and Seal describe the cache root.
	State CacheState
	Seal  *Seal
	// Generator is the executable path, tracked by size and modification time.
	Generator string
	// Files are the declaration files, tracked by content.
	Files []string
}
