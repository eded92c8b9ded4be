package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// ErrNotADirectory is returned by NewFS when the base path is not a directory.
var ErrNotADirectory = errors.New("path is not a directory")

// FileSystem is an interface that needs to be fulfilled by any filesystem implementation
// that package readers walk.
type FileSystem interface {
	String() string

	fs.FS
	fs.StatFS
	fs.ReadDirFS
	fs.ReadFileFS
}

var _ FileSystem = (*RootFileSystem)(nil)

// NewFS opens a read-only FileSystem rooted at base.
// The returned error wraps fs.ErrNotExist if base does not exist
// and ErrNotADirectory if base is not a directory.
func NewFS(base string) (*RootFileSystem, error) {
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("unable to get absolute path: %w", err)
	}
	fi, err := os.Stat(base)
	if errors.Is(err, syscall.ENOTDIR) {
		// a path below a regular file
		return nil, fmt.Errorf("unable to stat path: %w: %w", fs.ErrNotExist, err)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to stat path: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, base)
	}
	r, err := os.OpenRoot(base)
	if err != nil {
		return nil, fmt.Errorf("unable to open root on base: %w", err)
	}
	return &RootFileSystem{root: r, base: base}, nil
}

// RootFileSystem is a FileSystem backed by an os.Root.
// It holds an open handle on the base directory until Close is called.
type RootFileSystem struct {
	// root may be used to only access files within a single directory tree.
	root *os.Root
	base string
}

func (s *RootFileSystem) String() string {
	return s.root.Name()
}

// Base returns the absolute path of the root directory.
func (s *RootFileSystem) Base() string {
	return s.base
}

func (s *RootFileSystem) Open(name string) (fs.File, error) {
	return s.root.Open(filepath.FromSlash(name))
}

func (s *RootFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	return s.root.FS().(fs.ReadDirFS).ReadDir(name)
}

func (s *RootFileSystem) ReadFile(name string) ([]byte, error) {
	return s.root.FS().(fs.ReadFileFS).ReadFile(name)
}

func (s *RootFileSystem) Stat(name string) (fs.FileInfo, error) {
	return s.root.Stat(filepath.FromSlash(name))
}

// Close releases the handle on the root directory.
func (s *RootFileSystem) Close() error {
	return s.root.Close()
}
