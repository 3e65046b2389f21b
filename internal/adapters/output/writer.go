// Package output implements the OutputWriter port.
package output

import (
	"os"
	"path/filepath"

	"go.trai.ch/typesync/internal/core/domain"
	"go.trai.ch/typesync/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.OutputWriter = (*Writer)(nil)

// Writer writes generated source to disk. The write is not atomic: a reader
// racing it may observe a partially written file.
type Writer struct{}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write replaces the content of path with data.
func (w *Writer) Write(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return domain.Fail(domain.ErrOutputWrite,
			zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", path))
	}
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return domain.Fail(domain.ErrOutputWrite, zerr.With(zerr.Wrap(err, "failed to write output"), "path", path))
	}
	return nil
}
