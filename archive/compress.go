package archive

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

type (
	// CompressOption configures archive creation.
	CompressOption func(*compressOptions)

	compressOptions struct {
		method uint16
	}
)

// WithLZ4 stores file entries with MethodLZ4 instead of deflate.
func WithLZ4() CompressOption {
	return func(o *compressOptions) { o.method = MethodLZ4 }
}

// CompressDirectoryToDest writes every file and directory under src into a
// new zip archive at dest. Entry names are slash-separated and relative to
// src; directories get explicit entries. Anything that is neither a regular
// file nor a directory is skipped, as is dest itself when it lies inside
// src.
func CompressDirectoryToDest(src, dest string, opts ...CompressOption) (err error) {
	o := compressOptions{method: zip.Deflate}
	for _, opt := range opts {
		opt(&o)
	}

	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return ErrExpectedDirectory
	}
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return err
	}

	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	w := zip.NewWriter(file)
	registerLZ4Writer(w)

	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == src {
			return nil
		}
		if abs, _ := filepath.Abs(path); abs == absDest {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		switch {
		case d.IsDir():
			hdr, err := zip.FileInfoHeader(info)
			if err != nil {
				return err
			}
			hdr.Name = name + "/"
			hdr.Method = zip.Store
			_, err = w.CreateHeader(hdr)
			return err
		case info.Mode().IsRegular():
			return addFile(w, path, name, info, o.method)
		default:
			return nil
		}
	})
	if err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// CompressFile zips the single file at path into <dir>/<name without
// extension>.zip and returns the archive path.
func CompressFile(path string, opts ...CompressOption) (string, error) {
	o := compressOptions{method: zip.Deflate}
	for _, opt := range opts {
		opt(&o)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", ErrExpectedFile
	}
	dest := filepath.Join(filepath.Dir(path), BaseName(path)+".zip")
	if filepath.Clean(dest) == filepath.Clean(path) {
		return "", ErrDestinationIsSrc
	}

	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer out.Close()
	w := zip.NewWriter(out)
	registerLZ4Writer(w)
	if err := addFile(w, path, filepath.Base(path), info, o.method); err != nil {
		w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return dest, out.Close()
}

func addFile(w *zip.Writer, path, name string, info fs.FileInfo, method uint16) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = name
	hdr.Method = method
	writer, err := w.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = io.Copy(writer, f)
	return err
}
