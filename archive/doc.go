// Package archive creates and safely extracts zip archives.
//
// Extraction refuses to write outside its destination. Every entry name is
// joined to the extraction root and canonicalised (symlinks in the part of
// the path that already exists are resolved) before anything is written for
// that entry. An entry that lands outside the root, including absolute
// names, fails the whole call with a *PathTraversalError.
//
// Extraction Behaviour:
//   - Entries are processed in archive order; the first error is terminal
//   - Files already written stay on disk when a later entry fails
//   - Directories are created idempotently, files are truncated and rewritten
//   - Symlink entries are refused
//   - Optional per-file and total size limits guard against decompression bombs
//
// Archives written by this package may use MethodLZ4 for their entries.
// Readers opened by this package decode it; other zip tools will not.
//
// Concurrent extractions into different destinations are independent.
// Extractions into the same destination are not coordinated with each other.
package archive
