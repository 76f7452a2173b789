// Package main provides the toolbox command-line interface.
//
// toolbox extracts zip archives with a guard against entries escaping the
// destination directory, and can wait for archives that are still being
// produced before extracting them in order. It also creates archives
// (deflate or LZ4) and copies, counts and verifies directory trees.
//
// See internal/cmd for the subcommands.
package main
