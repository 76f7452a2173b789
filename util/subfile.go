package util

import (
	"os"
	"path/filepath"
)

// CountSubfile counts regular files beneath path, stopping as soon as the
// count passes target. overage reports whether it did.
func CountSubfile(path string, target int) (count int, overage bool, err error) {
	var info os.FileInfo
	info, err = os.Stat(path)
	if err != nil {
		return
	}
	if !info.IsDir() {
		err = ErrExpectedDirectory
		return
	}
	var files []os.DirEntry
	files, err = os.ReadDir(path)
	if err != nil {
		return
	}
	for _, f := range files {
		if !f.IsDir() {
			count++
			if count > target {
				return count, true, nil
			}
			continue
		}
		c, o, e := CountSubfile(filepath.Join(path, f.Name()), target-count)
		count += c
		if e != nil {
			return count, false, e
		}
		if o || count > target {
			return count, true, nil
		}
	}
	return
}
