package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetFileHash(t *testing.T) {
	// Create temp directory for test files
	tmpDir := t.TempDir()

	// Create test files with known content
	emptyFile := filepath.Join(tmpDir, "empty.txt")
	os.WriteFile(emptyFile, []byte{}, 0644)

	helloFile := filepath.Join(tmpDir, "hello.txt")
	os.WriteFile(helloFile, []byte("hello world"), 0644)

	binaryFile := filepath.Join(tmpDir, "binary.bin")
	os.WriteFile(binaryFile, []byte{0x00, 0x01, 0x02, 0xff}, 0644)

	subDir := filepath.Join(tmpDir, "subdir")
	os.Mkdir(subDir, 0755)

	tests := []struct {
		name     string
		path     string
		wantHash string
		wantErr  error
	}{
		{
			name:     "empty file",
			path:     emptyFile,
			wantHash: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
			wantErr:  nil,
		},
		{
			name:     "hello world file",
			path:     helloFile,
			wantHash: "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
			wantErr:  nil,
		},
		{
			name:     "binary file",
			path:     binaryFile,
			wantHash: "3d1f57c984978ef98a18378c8166c1cb8ede02c03eeb6aee7e2f121dfeee3e56",
			wantErr:  nil,
		},
		{
			name:    "directory returns error",
			path:    subDir,
			wantErr: ErrExpectedFile,
		},
		{
			name:    "non-existent file",
			path:    filepath.Join(tmpDir, "nonexistent.txt"),
			wantErr: os.ErrNotExist, // Will be wrapped, check with errors.Is
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotHash, err := GetFileHash(tt.path)

			if tt.wantErr != nil {
				if err == nil {
					t.Errorf("GetFileHash() expected error %v, got nil", tt.wantErr)
					return
				}
				// For os.ErrNotExist, the error is wrapped
				if tt.wantErr == os.ErrNotExist {
					if !os.IsNotExist(err) {
						t.Errorf("GetFileHash() error = %v, want os.ErrNotExist", err)
					}
					return
				}
				if err != tt.wantErr {
					t.Errorf("GetFileHash() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Errorf("GetFileHash() unexpected error = %v", err)
				return
			}

			if gotHash != tt.wantHash {
				t.Errorf("GetFileHash() = %v, want %v", gotHash, tt.wantHash)
			}
		})
	}
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(p, []byte(body), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
}

func TestTreeDigest(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.txt":       "hello world",
		"sub/b.txt":   "",
		"sub/c/d.txt": "deep",
	})
	os.Mkdir(filepath.Join(root, "empty"), 0755)

	digest, err := TreeDigest(root)
	if err != nil {
		t.Fatalf("TreeDigest failed: %v", err)
	}
	want := map[string]string{
		"a.txt":     "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
		"sub/b.txt": "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		"sub/":      "",
		"sub/c/":    "",
		"empty/":    "",
	}
	for rel, hash := range want {
		got, ok := digest[rel]
		if !ok {
			t.Errorf("digest missing %q, got %v", rel, digest)
			continue
		}
		if got != hash {
			t.Errorf("digest[%q] = %q, want %q", rel, got, hash)
		}
	}
	if len(digest) != 6 {
		t.Errorf("digest has %d entries, want 6: %v", len(digest), digest)
	}
}

func TestTreeDigest_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	os.WriteFile(file, []byte("x"), 0644)
	if _, err := TreeDigest(file); err != ErrExpectedDirectory {
		t.Errorf("TreeDigest(file) error = %v, want ErrExpectedDirectory", err)
	}
}

func TestCompareTrees(t *testing.T) {
	files := map[string]string{
		"same.txt":       "same",
		"nested/one.txt": "one",
	}
	a, b := t.TempDir(), t.TempDir()
	writeTree(t, a, files)
	writeTree(t, b, files)

	diffs, err := CompareTrees(a, b)
	if err != nil {
		t.Fatalf("CompareTrees failed: %v", err)
	}
	if len(diffs) != 0 {
		t.Fatalf("identical trees reported differences: %v", diffs)
	}

	writeTree(t, a, map[string]string{"only-a.txt": "a"})
	writeTree(t, b, map[string]string{"nested/one.txt": "changed"})
	diffs, err = CompareTrees(a, b)
	if err != nil {
		t.Fatalf("CompareTrees failed: %v", err)
	}
	if len(diffs) != 2 {
		t.Fatalf("expected 2 differences, got %v", diffs)
	}
	joined := strings.Join(diffs, "\n")
	if !strings.Contains(joined, "content differs: nested/one.txt") {
		t.Errorf("missing content difference in %v", diffs)
	}
	if !strings.Contains(joined, "only-a.txt") {
		t.Errorf("missing only-a.txt in %v", diffs)
	}
}
