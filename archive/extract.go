package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type (
	// Entry describes an entry that has been written to disk.
	Entry struct {
		Name string // name as stored in the archive
		Path string // where it was written
		Dir  bool
		Size int64 // bytes written, 0 for directories
	}
	// Option configures an extraction.
	Option func(*extractOptions)

	extractOptions struct {
		nest         bool
		maxFileSize  int64
		maxTotalSize int64
		progress     func(Entry)
	}
)

// WithNestUnderArchiveName extracts into dest/<archive name without
// extension> instead of dest itself.
func WithNestUnderArchiveName(nest bool) Option {
	return func(o *extractOptions) { o.nest = nest }
}

// WithMaxFileSize fails the extraction when any single entry is larger than
// n bytes. Zero means no limit.
func WithMaxFileSize(n int64) Option {
	return func(o *extractOptions) { o.maxFileSize = n }
}

// WithMaxTotalSize fails the extraction once more than n bytes have been
// written in total. Zero means no limit.
func WithMaxTotalSize(n int64) Option {
	return func(o *extractOptions) { o.maxTotalSize = n }
}

// WithProgress calls fn after each entry is materialised.
func WithProgress(fn func(Entry)) Option {
	return func(o *extractOptions) { o.progress = fn }
}

// Extract writes every entry of the zip archive at src beneath dest and
// returns the directory the entries were written into.
//
// Entries are processed in archive order and the first failure ends the
// call. Entries written before the failure are left on disk.
func Extract(src, dest string, opts ...Option) (string, error) {
	zr, err := zip.OpenReader(src)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return "", fmt.Errorf("open archive %s: %w", src, err)
	}
	defer zr.Close()
	return extract(&zr.Reader, src, dest, opts)
}

// ExtractReader is Extract for an archive that is already in memory or
// otherwise randomly readable. name is only used to derive the nested
// directory name and may be empty when nesting is off.
func ExtractReader(r io.ReaderAt, size int64, name, dest string, opts ...Option) (string, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return "", fmt.Errorf("read archive %s: %w", name, err)
	}
	return extract(zr, name, dest, opts)
}

// BaseName is the directory name used when nesting output for an archive.
func BaseName(archivePath string) string {
	base := filepath.Base(archivePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func extract(zr *zip.Reader, archiveName, dest string, opts []Option) (string, error) {
	var o extractOptions
	for _, opt := range opts {
		opt(&o)
	}
	registerLZ4Reader(zr)

	root := dest
	if o.nest {
		base := BaseName(archiveName)
		if archiveName == "" || base == "" || base == "." || base == ".." {
			return "", ErrNoArchiveName
		}
		root = filepath.Join(dest, base)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf("create destination %s: %w", root, err)
	}
	canonRoot, err := canonical(root)
	if err != nil {
		return "", fmt.Errorf("resolve destination %s: %w", root, err)
	}

	var total int64
	for _, f := range zr.File {
		target, err := resolveEntry(canonRoot, f.Name)
		if err != nil {
			return "", err
		}

		entry := Entry{Name: f.Name, Path: target}
		switch {
		case f.Mode()&fs.ModeSymlink != 0:
			return "", &EntryError{Entry: f.Name, Op: "extract", Err: ErrUnsupportedEntry}
		case f.FileInfo().IsDir():
			if err := os.MkdirAll(target, 0o755); err != nil {
				return "", &EntryError{Entry: f.Name, Op: "mkdir", Err: err}
			}
			entry.Dir = true
		default:
			n, err := writeEntry(f, target, o.maxFileSize, remaining(o.maxTotalSize, total))
			if err != nil {
				return "", err
			}
			total += n
			entry.Size = n
		}
		if o.progress != nil {
			o.progress(entry)
		}
	}
	return root, nil
}

// remaining returns the byte budget left under limit, or -1 when unlimited.
func remaining(limit, used int64) int64 {
	if limit <= 0 {
		return -1
	}
	return limit - used
}

// writeEntry copies a file entry to target, replacing whatever file was
// there. fileLimit of 0 and budget of -1 mean unlimited.
func writeEntry(f *zip.File, target string, fileLimit, budget int64) (written int64, err error) {
	size := int64(f.UncompressedSize64)
	if fileLimit > 0 && size > fileLimit {
		return 0, &EntryError{Entry: f.Name, Op: "extract", Err: ErrEntryTooLarge}
	}
	if budget >= 0 && size > budget {
		return 0, &EntryError{Entry: f.Name, Op: "extract", Err: ErrArchiveTooLarge}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, &EntryError{Entry: f.Name, Op: "mkdir", Err: err}
	}

	rc, err := f.Open()
	if err != nil {
		return 0, &EntryError{Entry: f.Name, Op: "open", Err: err}
	}
	defer rc.Close()

	mode := os.FileMode(0o644)
	if f.Mode()&0o111 != 0 {
		mode = 0o755
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return 0, &EntryError{Entry: f.Name, Op: "create", Err: err}
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = &EntryError{Entry: f.Name, Op: "close", Err: cerr}
		}
	}()

	// header sizes can lie, enforce the limits on what is actually read
	var r io.Reader = rc
	limit := int64(-1)
	if fileLimit > 0 {
		limit = fileLimit
	}
	if budget >= 0 && (limit < 0 || budget < limit) {
		limit = budget
	}
	if limit >= 0 {
		r = io.LimitReader(rc, limit+1)
	}

	written, err = io.Copy(out, r)
	if err != nil {
		return written, &EntryError{Entry: f.Name, Op: "write", Err: err}
	}
	if fileLimit > 0 && written > fileLimit {
		return written, &EntryError{Entry: f.Name, Op: "extract", Err: ErrEntryTooLarge}
	}
	if budget >= 0 && written > budget {
		return written, &EntryError{Entry: f.Name, Op: "extract", Err: ErrArchiveTooLarge}
	}
	return written, nil
}
