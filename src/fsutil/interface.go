package fsutil

import "io/fs"

// FileStore provides an interface for file system operations
type FileStore interface {
	// ReadFile reads a file and returns its contents
	ReadFile(path string) ([]byte, error)

	// Stat returns file information for the given path
	Stat(path string) (fs.FileInfo, error)

	// ListFiles walks a directory tree and returns the paths of all
	// regular files found, in lexical order
	ListFiles(root string) ([]string, error)

	// MakeDirectory creates a new directory and all necessary parents
	MakeDirectory(path string) error
}
