// Package blob provides the in-memory building blocks of a physical OPC package.
//
// When working with blobs through this package, it is important to understand the following concepts:
//   - Blob: the immutable content of one package part, addressed by a URI.
//     Its size is always known and its digest is computed on first use.
//   - Collection: an insertion ordered mapping from URI to Blob that supports lookup
//     by full URI and by URI tail (the trailing path segment of a URI).
//
// A Collection is populated by a package reader and then handed over to the package,
// which only exposes the read operations. Filesystem and archive access live in the
// physpkg package.
package blob
