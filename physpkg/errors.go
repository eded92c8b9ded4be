package physpkg

import (
	"errors"
	"io/fs"
	"syscall"

	"github.com/opc-tools/opcdiag/blob"
)

var (
	// ErrPackageNotFound is returned when the package path does not exist.
	ErrPackageNotFound = errors.New("package not found")
	// ErrInvalidPackage is returned when the package path exists but cannot be read as a package.
	ErrInvalidPackage = errors.New("invalid package")
)

// Lookup errors re-exported from blob.
var (
	// ErrBlobNotFound is returned when no part matches a URI or URI tail.
	ErrBlobNotFound = blob.ErrBlobNotFound
	// ErrAmbiguousTail is returned when a URI tail matches more than one part.
	ErrAmbiguousTail = blob.ErrAmbiguousTail
)

// isNotExist reports whether err means that a path does not exist. A path below
// a regular file (doc.docx/missing) fails with ENOTDIR and does not exist either.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
