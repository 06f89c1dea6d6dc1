// Package fs provides the operating-system backed file adapters: byte streams for the
// cache file, path and command hashing, and C include scanning.
package fs

import (
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/bam/internal/core/domain"
	"go.trai.ch/bam/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSystem = (*FileSystem)(nil)

// FileSystem implements ports.FileSystem using the os package.
type FileSystem struct{}

// NewFileSystem creates a new FileSystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{}
}

type osFile struct {
	*os.File
}

func (f osFile) Size() (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to stat file"), "path", f.Name())
	}
	return info.Size(), nil
}

// OpenRead opens path for reading.
func (s *FileSystem) OpenRead(path string) (ports.File, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	return osFile{File: f}, nil
}

// OpenWrite creates path and its parent directories, truncating an existing file.
func (s *FileSystem) OpenWrite(path string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create directory"), "path", filepath.Dir(path))
	}
	//nolint:gosec // Path is controlled by caller
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, domain.FilePerm)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create file"), "path", path)
	}
	return f, nil
}

// ModTime returns the modification time of path in UnixNano.
func (s *FileSystem) ModTime(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to stat file"), "path", path)
	}
	return info.ModTime().UnixNano(), nil
}

// Remove deletes path. A missing file is not an error.
func (s *FileSystem) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "failed to remove file"), "path", path)
	}
	return nil
}
