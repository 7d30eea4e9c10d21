// Package fs implements filesystem adapters.
package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/ninjagen/internal/core/domain"
	"go.trai.ch/ninjagen/internal/core/ports"
)

// FilePerm is the mode for generated build files.
const FilePerm = 0o644

// Writer installs generated files with atomic-replace semantics, skipping
// writes when the content is unchanged so Ninja does not observe spurious
// mtime bumps.
type Writer struct{}

// NewWriter creates a Writer.
func NewWriter() *Writer { return &Writer{} }

// WriteIfChanged implements ports.FileWriter.
func (w *Writer) WriteIfChanged(path string, content []byte) error {
	if current, err := os.ReadFile(path); err == nil &&
		len(current) == len(content) &&
		xxhash.Sum64(current) == xxhash.Sum64(content) {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrWriteFailed, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".ninjagen-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrWriteFailed, path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %s: %w", domain.ErrWriteFailed, path, err)
	}
	if err := tmp.Chmod(FilePerm); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %s: %w", domain.ErrWriteFailed, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrWriteFailed, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrWriteFailed, path, err)
	}
	return nil
}

var _ ports.FileWriter = (*Writer)(nil)
