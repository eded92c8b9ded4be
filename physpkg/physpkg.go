package physpkg

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"os"

	"github.com/opc-tools/opcdiag/blob"
)

// RootURI is the root URI of every physical package, the pack URI of the package root.
// Part URIs inside a package are expressed relative to it.
const RootURI = "/"

// FileFormat represents the physical form of a package.
type FileFormat int

const (
	// FormatUnknown represents an unknown format.
	FormatUnknown FileFormat = iota
	// FormatDirectory represents a package expanded into a directory tree.
	FormatDirectory
	// FormatZip represents a package stored as a zip archive.
	FormatZip
)

// formats is a list of all supported formats corresponding to the FileFormat constants.
var formats = [...]string{"unknown", "directory", "zip"}

func (f FileFormat) String() string {
	if f < 0 || int(f) >= len(formats) {
		return fmt.Sprintf("unknown(%d)", int(f))
	}
	return formats[f]
}

// PhysPkg is an opened physical package, either a zip archive or an expanded directory.
// All content is loaded when the package is read, so a PhysPkg holds no open
// file handles and is safe for concurrent use.
type PhysPkg interface {
	// Format returns the physical form the package was read from.
	Format() FileFormat
	// RootURI returns the root URI of the package.
	RootURI() string
	// All returns an iterator over every (uri, blob) pair in the package.
	// Iterating again yields the same sequence.
	All() iter.Seq2[string, *blob.Blob]
	// Get returns the blob stored under exactly uri.
	Get(uri string) (*blob.Blob, error)
	// GetByTail returns the blob whose uri ends in tail.
	GetByTail(tail string) (*blob.Blob, error)
	// MatchTail returns all uris ending in tail.
	MatchTail(tail string) []string
	// URIs returns all uris in iteration order.
	URIs() []string
	// Len returns the number of blobs in the package.
	Len() int
}

// ReadOptions limit what a reader accepts before giving up with ErrInvalidPackage.
// The zero value imposes no limits.
type ReadOptions struct {
	// MaxEntries is the maximum number of blobs in a package.
	// Archive entries that replace an earlier entry of the same name do not count.
	MaxEntries int
	// MaxBlobSize is the maximum size of a single blob in bytes.
	MaxBlobSize int64
}

// Read returns the package at path, where path can be either a zip archive
// or a directory containing an expanded package.
func Read(ctx context.Context, path string) (PhysPkg, error) {
	return ReadWithOptions(ctx, path, ReadOptions{})
}

// ReadWithOptions is Read with read limits applied.
// It is the only place that decides between the directory and the zip reader.
func ReadWithOptions(ctx context.Context, path string, opts ReadOptions) (PhysPkg, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "reading package", slog.String("path", path), slog.String("format", format.String()))

	switch format {
	case FormatDirectory:
		pkg, err := ReadDir(ctx, path, opts)
		if err != nil {
			return nil, err
		}
		return pkg, nil
	case FormatZip:
		pkg, err := ReadZip(ctx, path, opts)
		if err != nil {
			return nil, err
		}
		return pkg, nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %s", ErrInvalidPackage, format)
	}
}

// DetectFormat determines the physical form of the package at path by inspecting the filesystem.
// Directories are FormatDirectory, regular files are expected to be zip archives.
func DetectFormat(path string) (FileFormat, error) {
	fi, err := os.Stat(path)
	if isNotExist(err) {
		return FormatUnknown, fmt.Errorf("%w: %w", ErrPackageNotFound, err)
	}
	if err != nil {
		return FormatUnknown, fmt.Errorf("unable to stat package: %w", err)
	}
	switch {
	case fi.IsDir():
		return FormatDirectory, nil
	case fi.Mode().IsRegular():
		return FormatZip, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %s is neither a directory nor a regular file (%s)", ErrInvalidPackage, path, fi.Mode().Type())
	}
}

// pkg holds what both physical forms share once they are read.
type pkg struct {
	blobs   *blob.Collection
	rootURI string
}

func newPkg(blobs *blob.Collection) pkg {
	return pkg{blobs: blobs, rootURI: RootURI}
}

func (p *pkg) RootURI() string {
	return p.rootURI
}

func (p *pkg) All() iter.Seq2[string, *blob.Blob] {
	return p.blobs.All()
}

func (p *pkg) Get(uri string) (*blob.Blob, error) {
	return p.blobs.Get(uri)
}

func (p *pkg) GetByTail(tail string) (*blob.Blob, error) {
	return p.blobs.GetByTail(tail)
}

func (p *pkg) MatchTail(tail string) []string {
	return p.blobs.MatchTail(tail)
}

func (p *pkg) URIs() []string {
	return p.blobs.URIs()
}

func (p *pkg) Len() int {
	return p.blobs.Len()
}

// limiter enforces ReadOptions while a collection is populated.
type limiter struct {
	opts  ReadOptions
	blobs int
}

// admit checks whether the blob for uri of the given (possibly announced) size fits the limits.
// A blob that replaces an already stored uri does not count against MaxEntries.
func (l *limiter) admit(uri string, size int64, replaces bool) error {
	if !replaces {
		l.blobs++
	}
	if l.opts.MaxEntries > 0 && l.blobs > l.opts.MaxEntries {
		return fmt.Errorf("%w: more than %d blobs", ErrInvalidPackage, l.opts.MaxEntries)
	}
	if l.opts.MaxBlobSize > 0 && size > l.opts.MaxBlobSize {
		return fmt.Errorf("%w: %q is %d bytes, exceeding the limit of %d bytes", ErrInvalidPackage, uri, size, l.opts.MaxBlobSize)
	}
	return nil
}
