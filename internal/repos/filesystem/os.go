package filesystem

import (
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// AferoFileSystem implements the repository FileSystem port on top of an afero.Fs.
type AferoFileSystem struct {
	backend afero.Fs
}

// NewOSFileSystem constructs a filesystem backed by the operating system.
func NewOSFileSystem() *AferoFileSystem {
	return &AferoFileSystem{backend: afero.NewOsFs()}
}

// NewMemoryFileSystem constructs an in-memory filesystem.
func NewMemoryFileSystem() *AferoFileSystem {
	return &AferoFileSystem{backend: afero.NewMemMapFs()}
}

// NewFileSystem wraps an arbitrary afero backend.
func NewFileSystem(backend afero.Fs) *AferoFileSystem {
	if backend == nil {
		backend = afero.NewOsFs()
	}
	return &AferoFileSystem{backend: backend}
}

// Backend exposes the underlying afero filesystem.
func (fileSystem *AferoFileSystem) Backend() afero.Fs {
	return fileSystem.backend
}

// Stat retrieves file metadata.
func (fileSystem *AferoFileSystem) Stat(path string) (fs.FileInfo, error) {
	return fileSystem.backend.Stat(path)
}

// Mkdir creates a single directory.
func (fileSystem *AferoFileSystem) Mkdir(path string, permissions fs.FileMode) error {
	return fileSystem.backend.Mkdir(path, permissions)
}

// MkdirAll ensures a directory hierarchy exists with the provided permissions.
func (fileSystem *AferoFileSystem) MkdirAll(path string, permissions fs.FileMode) error {
	return fileSystem.backend.MkdirAll(path, permissions)
}

// ReadDir lists directory entries sorted by name.
func (fileSystem *AferoFileSystem) ReadDir(path string) ([]fs.FileInfo, error) {
	return afero.ReadDir(fileSystem.backend, path)
}

// Abs resolves an absolute path.
func (fileSystem *AferoFileSystem) Abs(path string) (string, error) {
	return filepath.Abs(path)
}
