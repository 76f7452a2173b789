// Package version reports toolbox build metadata.
//
// Values injected at link time win:
//
//	-ldflags "-X github.com/dendrascience/toolbox/version.Version=v1.2.0 -X github.com/dendrascience/toolbox/version.Commit=abc1234 -X github.com/dendrascience/toolbox/version.Date=2026-01-01T00:00:00Z"
//
// Otherwise the module version and VCS stamps embedded by the go command are
// used, falling back to development placeholders.
package version
