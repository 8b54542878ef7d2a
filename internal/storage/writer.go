// Package storage holds the filesystem adapters: the label output sink and
// the XML directory searcher.
package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Default permissions for created files and directories
const (
	DefaultFileMode os.FileMode = 0o644
	DefaultDirMode  os.FileMode = 0o755
)

// Writer persists rendered labels
type Writer interface {
	Write(ctx context.Context, content, path string) error
	Exists(path string) bool
}

// FileSystemWriter writes labels to a filesystem, creating parent
// directories and overwriting existing files
type FileSystemWriter struct {
	fs     afero.Fs
	logger *zap.Logger
}

// WriterOption configures a FileSystemWriter
type WriterOption func(*FileSystemWriter)

// WithWriterFs sets the filesystem (default: OS filesystem)
func WithWriterFs(fsys afero.Fs) WriterOption {
	return func(w *FileSystemWriter) {
		w.fs = fsys
	}
}

// WithWriterLogger sets the logger
func WithWriterLogger(logger *zap.Logger) WriterOption {
	return func(w *FileSystemWriter) {
		w.logger = logger
	}
}

// NewFileSystemWriter creates a writer
func NewFileSystemWriter(opts ...WriterOption) *FileSystemWriter {
	w := &FileSystemWriter{
		fs:     afero.NewOsFs(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write stores content at path as UTF-8
func (w *FileSystemWriter) Write(ctx context.Context, content, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := w.fs.MkdirAll(dir, DefaultDirMode); err != nil {
			return NewIOError("mkdir", dir, err)
		}
	}

	if err := afero.WriteFile(w.fs, path, []byte(content), DefaultFileMode); err != nil {
		return NewIOError("write", path, err)
	}

	w.logger.Debug("label written", zap.String("path", path), zap.Int("bytes", len(content)))
	return nil
}

// Exists reports whether path exists. Stat failures count as absent.
func (w *FileSystemWriter) Exists(path string) bool {
	ok, err := afero.Exists(w.fs, path)
	return err == nil && ok
}
