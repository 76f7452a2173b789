// Package util provides filesystem helpers shared by the toolbox commands.
//
// It sits next to the archive and pending packages and covers the chores
// around them: proving that an extracted tree matches its source, counting
// what a tree holds, and copying trees from one place to another.
//
// Key Components:
//
// Hashing and Verification:
//   - SHA-256 content hashes for single files (GetFileHash, GetHash)
//   - Whole-tree digests computed by a pool of workers (TreeDigest)
//   - Tree comparison listing missing, extra and changed paths (CompareTrees)
//
// Counting:
//   - Recursive file counts that stop early once a bound is passed (CountSubfile)
//
// Copying:
//   - Directory copy with files copied in parallel (CopyDir)
//   - Destination nested under the source directory's name
//
// Symlinks are never followed by the tree walkers; they are reported as
// ErrUnexpectedSymlink by TreeDigest and skipped by CopyDir.
package util
