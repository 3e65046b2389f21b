// Package archive implements the ArchiveExtractor port for gzip-compressed tarballs.
package archive

import (
	"archive/tar"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"go.trai.ch/typesync/internal/core/domain"
	"go.trai.ch/zerr"
)

// Extractor implements ports.ArchiveExtractor.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract decodes r and materializes every entry under prefix/ into root.
// Entries are processed in stream order and the first failure aborts; entries
// already written are left in place. Every write goes through an os.Root, so
// symlinks created by earlier entries cannot redirect a later one outside root.
func (e *Extractor) Extract(ctx context.Context, r io.Reader, prefix, root string) (domain.ExtractStats, error) {
	var stats domain.ExtractStats

	dest, err := canonicalRoot(root)
	if err != nil {
		return stats, domain.Fail(domain.ErrExtract, zerr.With(err, "root", root))
	}

	dir, err := os.OpenRoot(dest)
	if err != nil {
		return stats, domain.Fail(domain.ErrExtract, zerr.With(zerr.Wrap(err, "failed to open cache root"), "root", root))
	}
	defer func() {
		_ = dir.Close()
	}()

	gz, err := gzip.NewReader(r)
	if err != nil {
		return stats, domain.Fail(domain.ErrExtract, zerr.Wrap(err, "failed to open gzip stream"))
	}
	defer func() {
		_ = gz.Close()
	}()

	w := &entryWriter{root: dir, dest: dest, prefix: prefix}
	tr := tar.NewReader(gz)
	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stats, domain.Fail(domain.ErrExtract, ctxErr)
		}

		hdr, nextErr := tr.Next()
		if errors.Is(nextErr, io.EOF) {
			return stats, nil
		}
		if nextErr != nil {
			return stats, domain.Fail(domain.ErrExtract, zerr.Wrap(nextErr, "failed to read tar entry"))
		}

		rel, ok := StripPrefix(hdr.Name, prefix)
		if !ok {
			stats.Skipped++
			continue
		}

		written, writeErr := w.write(rel, hdr, tr)
		if writeErr != nil {
			return stats, domain.Fail(domain.ErrExtract, zerr.With(writeErr, "entry", hdr.Name))
		}
		if written {
			stats.Written++
		} else {
			stats.Skipped++
		}
	}
}

func canonicalRoot(root string) (string, error) {
	if err := os.MkdirAll(root, domain.DirPerm); err != nil {
		return "", zerr.Wrap(err, "failed to create cache root")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve cache root")
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve cache root")
	}
	return resolved, nil
}

// entryWriter materializes remapped entries below root. Paths handed to root
// are relative to dest, the canonical path root was opened on.
type entryWriter struct {
	root   *os.Root
	dest   string
	prefix string
}

// write materializes one remapped entry. It reports false for entry types it does not support.
func (w *entryWriter) write(rel string, hdr *tar.Header, r io.Reader) (bool, error) {
	name, err := local(filepath.FromSlash(rel))
	if err != nil {
		return false, err
	}

	switch hdr.Typeflag {
	case tar.TypeDir:
		return true, w.escapes(w.root.MkdirAll(name, domain.DirPerm), name)

	case tar.TypeReg:
		return true, w.escapes(w.writeFile(name, hdr.FileInfo().Mode().Perm(), r), name)

	case tar.TypeSymlink:
		linkDest := filepath.FromSlash(hdr.Linkname)
		if filepath.IsAbs(linkDest) {
			inRoot, relErr := filepath.Rel(w.dest, linkDest)
			if relErr != nil {
				return false, zerr.With(domain.ErrPathEscapesRoot, "link", hdr.Linkname)
			}
			linkDest = inRoot
		} else {
			linkDest = filepath.Join(filepath.Dir(name), linkDest)
		}
		if _, err := local(linkDest); err != nil {
			return false, zerr.With(err, "link", hdr.Linkname)
		}
		if err := w.replaceable(name); err != nil {
			return false, w.escapes(err, name)
		}
		return true, w.escapes(w.root.Symlink(hdr.Linkname, name), name)

	case tar.TypeLink:
		linkRel, ok := StripPrefix(hdr.Linkname, w.prefix)
		if !ok {
			return false, zerr.With(domain.ErrPathEscapesRoot, "link", hdr.Linkname)
		}
		source, err := local(filepath.FromSlash(linkRel))
		if err != nil {
			return false, err
		}
		if err := w.replaceable(name); err != nil {
			return false, w.escapes(err, name)
		}
		return true, w.escapes(w.root.Link(source, name), name)

	default:
		return false, nil
	}
}

func (w *entryWriter) writeFile(name string, perm fs.FileMode, r io.Reader) (err error) {
	if rmErr := w.replaceable(name); rmErr != nil {
		return rmErr
	}

	f, err := w.root.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	_, err = io.Copy(f, r)
	return err
}

// replaceable removes a non-directory at name so that a fresh entry can be created there.
func (w *entryWriter) replaceable(name string) error {
	if parent := filepath.Dir(name); parent != "." {
		if err := w.root.MkdirAll(parent, domain.DirPerm); err != nil {
			return err
		}
	}
	info, err := w.root.Lstat(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return nil
	}
	return w.root.Remove(name)
}

// escapes tags err as a root escape when os.Root refused to leave the cache root.
func (w *entryWriter) escapes(err error, name string) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "path escapes from parent") {
		return zerr.With(zerr.Wrap(err, domain.ErrPathEscapesRoot.Error()), "path", name)
	}
	return err
}

// local cleans p and fails unless it names a path below the root.
func local(p string) (string, error) {
	if !filepath.IsLocal(p) {
		return "", zerr.With(domain.ErrPathEscapesRoot, "path", p)
	}
	return filepath.Clean(p), nil
}
