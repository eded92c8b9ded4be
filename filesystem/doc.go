// Package filesystem provides a read-only, root confined view of a host directory.
//
// The main interaction point is NewFS, which opens an os.Root on a directory and
// exposes it as an fs.FS that also supports stat and directory listing.
// Paths handed to the FileSystem are slash separated and relative to the root;
// symbolic links escaping the root are refused by the operating system.
package filesystem
