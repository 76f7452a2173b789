// Package cmd provides the command-line interface implementation for toolbox.
//
// Each subcommand lives in its own file with a constructor returning a
// *cobra.Command:
//   - root: configuration loading and command groups
//   - extract: guarded zip extraction, optionally waiting for archives to appear
//   - zip: archive creation from a directory or a single file
//   - copy: parallel directory tree copy
//   - verify: content comparison of two trees
//   - count: file counting
//   - seed: sample tree generation
//   - version: build information
//
// Settings shared between commands come from internal/config and are passed
// to constructors as a *config.App that is filled in before any command runs.
package cmd
