package ports

import (
	"time"
)

// FileInfo describes one regular file in a directory listing.
type FileInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// FileSystem abstracts file system operations.
type FileSystem interface {
	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to a file, creating it if necessary.
	WriteFile(path string, data []byte) error

	// WriteFileAtomic writes data to a temporary file and renames it into
	// place, so concurrent readers never observe a partial file.
	WriteFileAtomic(path string, data []byte) error

	// CreateNew writes data to a new file only if it does not already
	// exist. Returns an error wrapping fs.ErrExist when the file is
	// already present.
	CreateNew(path string, data []byte) error

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string) error

	// Exists checks if a file or directory exists.
	Exists(path string) (bool, error)

	// Remove deletes a file or empty directory.
	Remove(path string) error

	// List returns the regular files directly inside a directory.
	List(dir string) ([]FileInfo, error)
}
