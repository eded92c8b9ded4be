// Package physpkg provides read access to physical OPC packages.
//
// An OPC package is a collection of named parts. Physically it is stored either as
//
//   - a zip archive (FormatZip), the form typically encountered for .docx, .xlsx or .pptx files, or
//   - an expanded directory (FormatDirectory) whose file tree mirrors the internal paths of the archive.
//
// Read inspects a path and picks the matching reader, so callers never choose the
// physical form themselves:
//
//	pkg, err := physpkg.Read(ctx, "report.docx")
//	if err != nil {
//		return err
//	}
//	for uri, b := range pkg.All() {
//		fmt.Println(uri, b.Size())
//	}
//
// Reading is eager: every part is loaded into memory before Read returns and no file
// handle is kept open afterwards. Either the complete package is returned or an error,
// never a partially populated package.
//
// Errors can be inspected with errors.Is:
//   - ErrPackageNotFound: the path does not exist.
//   - ErrInvalidPackage: the path exists but is neither a readable package directory
//     nor a valid zip archive, or a configured read limit was exceeded.
//   - ErrBlobNotFound and ErrAmbiguousTail: lookups on an opened package.
package physpkg
