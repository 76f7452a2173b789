package archive

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// maxLinkHops bounds symlink resolution while canonicalising a path.
const maxLinkHops = 40

var errTooManyLinks = errors.New("too many levels of symbolic links")

// canonical returns the absolute form of p with every symlink in its
// existing prefix resolved. Components that do not exist yet are appended
// unchanged, so the result is where a write to p would actually land.
func canonical(p string) (string, error) {
	p, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	var rest []string
	cur := p
	for hops := 0; ; {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}

		// a dangling link still redirects writes, follow it by hand
		if info, lerr := os.Lstat(cur); lerr == nil && info.Mode()&fs.ModeSymlink != 0 {
			hops++
			if hops > maxLinkHops {
				return "", errTooManyLinks
			}
			link, rerr := os.Readlink(cur)
			if rerr != nil {
				return "", rerr
			}
			if !filepath.IsAbs(link) {
				link = filepath.Join(filepath.Dir(cur), link)
			}
			cur = filepath.Clean(link)
			continue
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return filepath.Join(append([]string{cur}, rest...)...), nil
		}
		rest = append([]string{filepath.Base(cur)}, rest...)
		cur = parent
	}
}

// within reports whether p is root or lies beneath it. Both must be clean
// absolute paths.
func within(root, p string) bool {
	if p == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(p, prefix)
}

// isAbsName reports whether an entry name is rooted in any form a zip
// writer might have produced it.
func isAbsName(name string) bool {
	return path.IsAbs(name) ||
		filepath.IsAbs(name) ||
		filepath.VolumeName(name) != "" ||
		strings.HasPrefix(name, `\`)
}

// resolveEntry maps an entry name to its canonical output path under root,
// which must already be canonical.
func resolveEntry(root, name string) (string, error) {
	if isAbsName(name) {
		return "", &PathTraversalError{Entry: name, Root: root}
	}
	target, err := canonical(filepath.Join(root, filepath.FromSlash(name)))
	if err != nil {
		return "", &EntryError{Entry: name, Op: "resolve", Err: err}
	}
	if !within(root, target) {
		return "", &PathTraversalError{Entry: name, Root: root}
	}
	return target, nil
}
