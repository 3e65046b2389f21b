// Package fs provides file system adapters for hashing inputs and tracking the cache root.
package fs

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"sort"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/typesync/internal/core/domain"
	"go.trai.ch/typesync/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher provides hashing functionality for generations and files.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (string, error) {
	sum, err := fileHash(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", sum), nil
}

// HashBytes computes the XXHash of data.
func (h *Hasher) HashBytes(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// ComputeInputHash computes a single hash representing the source metadata,
// tracked environment and paths, the cache root, the generator binary and the
// declaration files.
func (h *Hasher) ComputeInputHash(fp domain.Fingerprint) (string, error) {
	hasher := xxhash.New()

	hashMetadata(fp.Metadata, hasher)
	hashEnvironment(fp.Env, hasher)
	hashPathExistence(fp.Paths, hasher)
	hashCacheState(fp.State, fp.Seal, hasher)

	if err := hashBinary(fp.Generator, hasher); err != nil {
		return "", err
	}

	for _, path := range fp.Files {
		if err := hashFile(path, hasher); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

func hashMetadata(meta domain.RepositoryMetadata, hasher *xxhash.Digest) {
	for _, s := range []string{meta.Identifier, meta.Version, meta.BaseURL} {
		_, _ = hasher.WriteString(s)
		_, _ = hasher.Write([]byte{0}) // Separator
	}
	_, _ = hasher.Write([]byte{0}) // Section separator
}

// hashEnvironment hashes environment variables in a deterministic order.
func hashEnvironment(env map[string]string, hasher *xxhash.Digest) {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		_, _ = hasher.WriteString(k)
		_, _ = hasher.Write([]byte{'='})
		_, _ = hasher.WriteString(env[k])
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0})
}

func hashPathExistence(paths []string, hasher *xxhash.Digest) {
	for _, p := range paths {
		_, _ = hasher.WriteString(p)
		if _, err := os.Stat(p); err == nil {
			_, _ = hasher.Write([]byte{1})
		} else {
			_, _ = hasher.Write([]byte{0})
		}
	}
	_, _ = hasher.Write([]byte{0})
}

func hashCacheState(state domain.CacheState, seal *domain.Seal, hasher *xxhash.Digest) {
	_, _ = hasher.WriteString(string(state))
	_, _ = hasher.Write([]byte{0})
	if seal != nil {
		_, _ = hasher.WriteString(seal.ArchiveDigest)
	}
	_, _ = hasher.Write([]byte{0})
}

// hashBinary tracks an executable by size and modification time rather than content.
func hashBinary(path string, hasher *xxhash.Digest) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat generator"), "path", path)
	}

	_, _ = hasher.WriteString(path)
	_, _ = hasher.Write([]byte{0})
	if err := binary.Write(hasher, binary.LittleEndian, info.Size()); err != nil {
		return zerr.Wrap(err, "failed to write hash to digest")
	}
	if err := binary.Write(hasher, binary.LittleEndian, info.ModTime().UnixNano()); err != nil {
		return zerr.Wrap(err, "failed to write hash to digest")
	}
	return nil
}

func hashFile(path string, mainHasher io.Writer) error {
	_, _ = mainHasher.Write([]byte(path))
	_, _ = mainHasher.Write([]byte{0})

	sum, err := fileHash(path)
	if err != nil {
		return err
	}

	if err := binary.Write(mainHasher, binary.LittleEndian, sum); err != nil {
		return zerr.Wrap(err, "failed to write hash to digest")
	}
	return nil
}

func fileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return 0, zerr.With(zerr.Wrap(iofs.ErrNotExist, "file missing"), "path", path)
		}
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}
