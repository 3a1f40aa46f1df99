package filesystem

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// FileSystemAdapter defines the platform primitives the directory lister needs.
// This allows for easier testing against an in-memory file system.
type FileSystemAdapter interface {
	// ReadDirNames returns the names of the immediate children of path in the
	// order the underlying file system yields them. "." and ".." are never included.
	ReadDirNames(path string) ([]string, error)
	// IsDir reports whether path exists and is a directory. Links are followed.
	IsDir(path string) bool
	// Join joins a parent path and a child name.
	Join(base, name string) string
}

// DefaultFileSystemAdapter is the standard implementation of FileSystemAdapter backed by afero.
type DefaultFileSystemAdapter struct {
	fs afero.Fs
}

// NewDefaultFileSystemAdapter creates an adapter over the host operating system.
func NewDefaultFileSystemAdapter() *DefaultFileSystemAdapter {
	return NewFileSystemAdapter(afero.NewOsFs())
}

// NewFileSystemAdapter creates an adapter over an arbitrary afero file system.
func NewFileSystemAdapter(fs afero.Fs) *DefaultFileSystemAdapter {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &DefaultFileSystemAdapter{fs: fs}
}

// ReadDirNames lists the directory without sorting.
// Errors are returned unwrapped so their text can be forwarded as-is.
func (a *DefaultFileSystemAdapter) ReadDirNames(path string) ([]string, error) {
	dir, err := a.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer dir.Close()

	names, err := dir.Readdirnames(-1)
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// IsDir returns false when the stat fails for any reason, including a dangling link.
func (a *DefaultFileSystemAdapter) IsDir(path string) bool {
	ok, err := afero.IsDir(a.fs, path)
	return err == nil && ok
}

// Join uses the host path separator.
func (a *DefaultFileSystemAdapter) Join(base, name string) string {
	return filepath.Join(base, name)
}

// Ensure DefaultFileSystemAdapter implements FileSystemAdapter
var _ FileSystemAdapter = (*DefaultFileSystemAdapter)(nil)
