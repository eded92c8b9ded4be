package physpkg

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/opc-tools/opcdiag/blob"
	"github.com/opc-tools/opcdiag/filesystem"
)

// DirPhysPkg is a physical package that has been expanded into individual files
// in a directory structure that mirrors the part URIs.
type DirPhysPkg struct {
	pkg
	dir string
}

var _ PhysPkg = (*DirPhysPkg)(nil)

// Format always returns FormatDirectory for DirPhysPkg.
func (p *DirPhysPkg) Format() FileFormat {
	return FormatDirectory
}

// Dir returns the directory the package was read from.
// It is empty if the package was read from an fs.FS with ReadFS.
func (p *DirPhysPkg) Dir() string {
	return p.dir
}

// ReadDir returns the package expanded in the directory dir.
// The directory is opened read-only and confined to dir, so symbolic links
// pointing outside of it cannot be followed.
func ReadDir(ctx context.Context, dir string, opts ReadOptions) (p *DirPhysPkg, err error) {
	fileSystem, err := filesystem.NewFS(dir)
	switch {
	case isNotExist(err):
		return nil, fmt.Errorf("%w: %w", ErrPackageNotFound, err)
	case errors.Is(err, filesystem.ErrNotADirectory):
		return nil, fmt.Errorf("%w: %w", ErrInvalidPackage, err)
	case err != nil:
		return nil, fmt.Errorf("unable to open package directory %q: %w", dir, err)
	}
	defer func() {
		if cerr := fileSystem.Close(); cerr != nil {
			p, err = nil, errors.Join(err, cerr)
		}
	}()

	if p, err = ReadFS(ctx, fileSystem, opts); err != nil {
		return nil, fmt.Errorf("unable to read package directory %q: %w", dir, err)
	}
	p.dir = dir
	return p, nil
}

// ReadFS returns the package expanded in the root of fsys.
// Every regular file becomes a blob whose URI is its slash separated path relative
// to the root. Directories are descended in lexical order. Any other file type,
// such as a symbolic link, makes the package invalid.
// Any file that cannot be read fails the whole read.
func ReadFS(ctx context.Context, fsys fs.FS, opts ReadOptions) (*DirPhysPkg, error) {
	blobs := blob.NewCollection()
	lim := &limiter{opts: opts}

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		switch {
		case d.IsDir():
			return nil
		case d.Type().IsRegular():
		default:
			return fmt.Errorf("%w: unsupported file type %q of %q", ErrInvalidPackage, d.Type().String(), path)
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("unable to stat %q: %w", path, err)
		}
		if err := lim.admit(path, info.Size(), false); err != nil {
			return err
		}

		data, err := readFile(ctx, fsys, path, opts.MaxBlobSize)
		if err != nil {
			return err
		}
		return blobs.Put(path, blob.New(data))
	})
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "read package directory", slog.Int("blobs", blobs.Len()))
	return &DirPhysPkg{pkg: newPkg(blobs)}, nil
}

func readFile(ctx context.Context, fsys fs.FS, path string, limit int64) (_ []byte, err error) {
	file, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %q: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()

	data, err := readAll(ctx, path, file, limit)
	if err != nil {
		return nil, fmt.Errorf("unable to read %q: %w", path, err)
	}
	return data, nil
}
