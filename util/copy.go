package util

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

// CopyDir copies the tree at src into destRoot/<base name of src> and
// returns that directory. Directories are created while walking; files are
// copied concurrently. Existing files at the destination are overwritten.
// Symlinks and other special files are skipped.
func CopyDir(ctx context.Context, src, destRoot string) (string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", ErrExpectedDirectory
	}

	absSrc, err := filepath.Abs(src)
	if err != nil {
		return "", err
	}
	dest := filepath.Join(destRoot, filepath.Base(absSrc))
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return "", err
	}
	if absDest == absSrc || strings.HasPrefix(absDest, absSrc+string(filepath.Separator)) {
		return "", ErrCopyIntoSelf
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	walkErr := filepath.WalkDir(absSrc, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(absSrc, p)
		if err != nil {
			return err
		}
		target := filepath.Join(absDest, rel)

		switch {
		case d.IsDir():
			return os.MkdirAll(target, 0o755)
		case d.Type().IsRegular():
			g.Go(func() error {
				return copyFile(ctx, p, target)
			})
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", err
	}
	if walkErr != nil {
		return "", walkErr
	}
	return dest, nil
}

func copyFile(ctx context.Context, src, dest string) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	_, err = io.Copy(out, in)
	return err
}
