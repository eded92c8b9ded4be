package physpkg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"

	"github.com/opc-tools/opcdiag/blob"
)

// ZipPhysPkg is a physical package in the typically encountered form, a zip archive.
type ZipPhysPkg struct {
	pkg
	path string
}

var _ PhysPkg = (*ZipPhysPkg)(nil)

// Format always returns FormatZip for ZipPhysPkg.
func (p *ZipPhysPkg) Format() FileFormat {
	return FormatZip
}

// Path returns the path of the archive the package was read from.
// It is empty if the package was read with ReadZipFrom.
func (p *ZipPhysPkg) Path() string {
	return p.path
}

// ReadZip returns the package stored in the zip archive at path.
// The archive is opened, fully consumed and closed before ReadZip returns.
func ReadZip(ctx context.Context, path string, opts ReadOptions) (p *ZipPhysPkg, err error) {
	file, err := os.Open(path)
	if isNotExist(err) {
		return nil, fmt.Errorf("%w: %w", ErrPackageNotFound, err)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open package archive: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			p, err = nil, errors.Join(err, cerr)
		}
	}()

	fi, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("unable to stat package archive: %w", err)
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrInvalidPackage, path)
	}

	if p, err = ReadZipFrom(ctx, file, fi.Size(), opts); err != nil {
		return nil, fmt.Errorf("unable to read package archive %q: %w", path, err)
	}
	p.path = path
	return p, nil
}

// ReadZipFrom returns the package stored in the zip archive of the given size read from r.
// Directory marker entries are skipped, every other entry becomes a blob whose URI
// is the entry name verbatim. Entries with an absolute name or a ".." element make
// the archive invalid. Entries compressed with store, deflate or zstd are supported.
//
// Any failure to parse the archive or to decompress an entry fails with ErrInvalidPackage.
func ReadZipFrom(ctx context.Context, r io.ReaderAt, size int64, opts ReadOptions) (*ZipPhysPkg, error) {
	reader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPackage, err)
	}
	// decompressors are registered per reader, no reader shares state with another one.
	reader.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())
	reader.RegisterDecompressor(zstd.ZipMethodPKWare, zstd.ZipDecompressor())

	blobs := blob.NewCollection()
	lim := &limiter{opts: opts}
	for _, entry := range reader.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if isDirectoryMarker(entry) {
			continue
		}
		if err := validateEntryName(entry.Name); err != nil {
			return nil, err
		}
		if err := lim.admit(entry.Name, int64(entry.UncompressedSize64), blobs.Has(entry.Name)); err != nil {
			return nil, err
		}

		data, err := readZipEntry(ctx, entry, opts.MaxBlobSize)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if errors.Is(err, ErrInvalidPackage) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: entry %q: %w", ErrInvalidPackage, entry.Name, err)
		}

		if blobs.Has(entry.Name) {
			slog.DebugContext(ctx, "duplicate archive entry replaces earlier one", slog.String("uri", entry.Name))
		}
		if err := blobs.Put(entry.Name, blob.New(data)); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPackage, err)
		}
	}

	slog.DebugContext(ctx, "read package archive", slog.Int("entries", len(reader.File)), slog.Int("blobs", blobs.Len()))
	return &ZipPhysPkg{pkg: newPkg(blobs)}, nil
}

// isDirectoryMarker reports whether entry only marks a directory and carries no content.
func isDirectoryMarker(entry *zip.File) bool {
	return strings.HasSuffix(entry.Name, "/") || entry.FileInfo().IsDir()
}

// validateEntryName rejects entry names that cannot serve as a part URI:
// empty names, absolute names and names with a ".." element.
// Backslashes are not path separators in zip entry names and are kept verbatim.
func validateEntryName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: archive entry without a name", ErrInvalidPackage)
	}
	if strings.HasPrefix(name, "/") {
		return fmt.Errorf("%w: invalid archive entry, absolute name: %s", ErrInvalidPackage, name)
	}
	if slices.Contains(strings.Split(name, "/"), "..") {
		return fmt.Errorf("%w: invalid archive entry, contains %q: %s", ErrInvalidPackage, "..", name)
	}
	return nil
}

func readZipEntry(ctx context.Context, entry *zip.File, limit int64) (_ []byte, err error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, rc.Close())
	}()
	return readAll(ctx, entry.Name, rc, limit)
}
