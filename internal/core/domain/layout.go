package domain

import "path/filepath"

const (
	// ManifestFileName is the name of the project manifest.
	ManifestFileName = "typesync.yaml"

	// EnvFileName is the optional dotenv file read next to the manifest.
	EnvFileName = ".env"

	// StateDirName is the internal directory created inside the output directory.
	StateDirName = ".typesync"

	// StoreDirName holds the stamps.
	StoreDirName = "store"

	// SealFileName marks a cache root whose extraction completed.
	SealFileName = ".typesync-seal.json"

	// DefaultOutputFile is the generated file name when the manifest omits it.
	DefaultOutputFile = "types.rs"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// StorePath returns the stamp directory under outDir.
func StorePath(outDir string) string {
	return filepath.Join(outDir, StateDirName, StoreDirName)
}

// SealPath returns the seal file inside a cache root.
func SealPath(cacheRoot string) string {
	return filepath.Join(cacheRoot, SealFileName)
}

func joinClean(root, rel string) string {
	if rel == "" {
		return filepath.Clean(root)
	}
	return filepath.Join(root, filepath.FromSlash(rel))
}
