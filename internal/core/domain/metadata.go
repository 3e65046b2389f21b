package domain

import (
	"fmt"
	"path"
	"strings"

	"go.trai.ch/zerr"
)

// DefaultBaseURL is the archive host used when no override is configured.
const DefaultBaseURL = "https://github.com"

// RepositoryMetadata identifies the external project and the exact tag to fetch.
type RepositoryMetadata struct {
	// Identifier is the owner/name path of the repository, e.g. "go-gitea/gitea".
	Identifier string
	// Version is the tag without its leading "v", e.g. "1.21.0".
	Version string
	// BaseURL is the scheme and host serving tag archives.
	BaseURL string
}

// Name returns the last segment of the identifier.
func (m RepositoryMetadata) Name() string {
	return path.Base(m.Identifier)
}

// ArchiveURL returns the download URL of the tagged source archive.
func (m RepositoryMetadata) ArchiveURL() string {
	base := m.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return fmt.Sprintf("%s/%s/archive/refs/tags/v%s.tar.gz",
		strings.TrimSuffix(base, "/"), m.Identifier, m.Version)
}

// EntryPrefix returns the top-level directory every entry of the archive lives under.
// Tag archives name it after the repository and the version without its "v".
func (m RepositoryMetadata) EntryPrefix() string {
	return m.Name() + "-" + m.Version
}

// String returns identifier@version.
func (m RepositoryMetadata) String() string {
	return m.Identifier + "@" + m.Version
}

// Validate checks that the metadata can address an archive.
func (m RepositoryMetadata) Validate() error {
	if strings.TrimSpace(m.Identifier) == "" {
		return ErrMissingRepository
	}
	if strings.TrimSpace(m.Version) == "" {
		return zerr.With(ErrMissingVersion, "repository", m.Identifier)
	}
	if strings.HasPrefix(m.Version, "v") {
		return zerr.With(ErrInvalidVersion, "version", m.Version)
	}
	parts := strings.Split(m.Identifier, "/")
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			return zerr.With(ErrInvalidRepository, "repository", m.Identifier)
		}
	}
	return nil
}
