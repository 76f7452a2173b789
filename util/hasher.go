package util

import (
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
)

// GetFileHash returns the hex SHA-256 of the file at path.
func GetFileHash(path string) (hash string, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", ErrExpectedFile
	}
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	return GetHash(file)
}

// GetHash calculates the SHA-256 hash of data from an io.Reader.
// It returns the hash as a hexadecimal string.
func GetHash(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

type digestResult struct {
	rel  string
	hash string
	err  error
}

func digestWorker(root string, paths <-chan string, out chan<- digestResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for p := range paths {
		hash, err := GetFileHash(p)
		rel, relErr := filepath.Rel(root, p)
		if err == nil {
			err = relErr
		}
		out <- digestResult{rel: filepath.ToSlash(rel), hash: hash, err: err}
	}
}

// TreeDigest hashes every regular file under root and returns the hashes
// keyed by slash-separated path relative to root. Directories map to the
// empty string so that empty directories take part in comparisons.
// Symlinks are reported as ErrUnexpectedSymlink.
func TreeDigest(root string) (map[string]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, ErrExpectedDirectory
	}

	digest := make(map[string]string)
	paths := make(chan string, runtime.NumCPU())
	results := make(chan digestResult, runtime.NumCPU())
	var wg sync.WaitGroup

	wg.Add(runtime.NumCPU())
	for range runtime.NumCPU() {
		go digestWorker(root, paths, results, &wg)
	}

	walkErr := make(chan error, 1)
	go func() {
		defer close(paths)
		walkErr <- filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if p == root {
				return nil
			}
			if d.Type()&fs.ModeSymlink != 0 {
				return fmt.Errorf("%w: %s", ErrUnexpectedSymlink, p)
			}
			if d.IsDir() {
				rel, err := filepath.Rel(root, p)
				if err != nil {
					return err
				}
				results <- digestResult{rel: filepath.ToSlash(rel) + "/"}
				return nil
			}
			paths <- p
			return nil
		})
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var firstErr error
	for r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		digest[r.rel] = r.hash
	}
	if err := <-walkErr; err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return digest, nil
}

// CompareTrees reports every relative path whose presence or content
// differs between the trees rooted at a and b, sorted. An empty result
// means the trees are identical.
func CompareTrees(a, b string) ([]string, error) {
	left, err := TreeDigest(a)
	if err != nil {
		return nil, err
	}
	right, err := TreeDigest(b)
	if err != nil {
		return nil, err
	}

	var diffs []string
	for rel, lh := range left {
		rh, ok := right[rel]
		switch {
		case !ok:
			diffs = append(diffs, "only in "+a+": "+rel)
		case lh != rh:
			diffs = append(diffs, "content differs: "+rel)
		}
	}
	for rel := range right {
		if _, ok := left[rel]; !ok {
			diffs = append(diffs, "only in "+b+": "+rel)
		}
	}
	sort.Strings(diffs)
	return diffs, nil
}
