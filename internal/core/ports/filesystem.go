// Package ports defines the core interfaces for the application.
package ports

import "io"

// File is a file opened for reading.
type File interface {
	io.ReadCloser
	// Size reports the size of the file in bytes.
	Size() (int64, error)
}

// FileSystem is the minimal blocking byte-stream capability the cache needs.
//
//go:generate go run go.uber.org/mock/mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// OpenRead opens path for reading.
	// A missing file is reported with an error wrapping fs.ErrNotExist.
	OpenRead(path string) (File, error)

	// OpenWrite creates path, or truncates it to zero length if it exists.
	OpenWrite(path string) (io.WriteCloser, error)

	// ModTime returns the modification time of path in UnixNano.
	// A missing file is reported with an error wrapping fs.ErrNotExist.
	ModTime(path string) (int64, error)

	// Remove deletes path. Removing a missing file is not an error.
	Remove(path string) error
}
