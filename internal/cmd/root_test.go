package cmd

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dendrascience/toolbox/archive"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := NewRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func TestSeedZipExtractVerify(t *testing.T) {
	tmp := t.TempDir()
	seed := filepath.Join(tmp, "seed")
	zipPath := filepath.Join(tmp, "seed.zip")
	out := filepath.Join(tmp, "out")

	if err := execute(t, "seed", "-o", seed, "-c", "40", "--buckets", "4"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := execute(t, "zip", seed, zipPath); err != nil {
		t.Fatalf("zip: %v", err)
	}
	if err := execute(t, "extract", zipPath, out); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if err := execute(t, "verify", seed, filepath.Join(out, "seed")); err != nil {
		t.Fatalf("verify: %v", err)
	}

	// a changed file must be reported
	var victim string
	filepath.WalkDir(filepath.Join(out, "seed"), func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() && victim == "" {
			victim = path
		}
		return nil
	})
	if victim == "" {
		t.Fatal("no files extracted")
	}
	if err := os.WriteFile(victim, []byte("tampered\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "verify", seed, filepath.Join(out, "seed")); err == nil {
		t.Error("verify succeeded on differing trees")
	}
}

func TestZipLZ4FromConfig(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	if err := os.MkdirAll(filepath.Join(src, "a"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "a", "f.txt"), []byte("hello lz4"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := filepath.Join(tmp, "toolbox.yaml")
	if err := os.WriteFile(cfg, []byte("compress:\n  lz4: true\nextract:\n  here: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	zipPath := filepath.Join(tmp, "src.zip")
	if err := execute(t, "--config", cfg, "zip", src); err != nil {
		t.Fatalf("zip: %v", err)
	}
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range zr.File {
		if f.Mode().IsRegular() && f.Method != archive.MethodLZ4 {
			t.Errorf("%s stored with method %d, want %d", f.Name, f.Method, archive.MethodLZ4)
		}
	}
	zr.Close()

	out := filepath.Join(tmp, "out")
	if err := execute(t, "--config", cfg, "extract", zipPath, out); err != nil {
		t.Fatalf("extract: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(out, "a", "f.txt"))
	if err != nil {
		t.Fatalf("here: true should extract directly into dest: %v", err)
	}
	if string(got) != "hello lz4" {
		t.Errorf("content = %q", got)
	}
}

func TestExtractRejectsTraversal(t *testing.T) {
	tmp := t.TempDir()
	zipPath := filepath.Join(tmp, "evil.zip")
	f, err := os.Create(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("../../escaped.txt")
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte("nope"))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	out := filepath.Join(tmp, "deep", "out")
	err = execute(t, "extract", zipPath, out)
	if !errors.Is(err, archive.ErrPathTraversal) {
		t.Fatalf("extract error = %v, want ErrPathTraversal", err)
	}
	if _, err := os.Stat(filepath.Join(tmp, "deep", "escaped.txt")); !os.IsNotExist(err) {
		t.Error("entry escaped the destination")
	}
}

func TestExtractWaitsForArchive(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "late")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "data.txt"), []byte("arrived"), 0o644); err != nil {
		t.Fatal(err)
	}
	zipPath := filepath.Join(tmp, "late.zip")
	out := filepath.Join(tmp, "out")

	done := make(chan error, 1)
	go func() {
		time.Sleep(100 * time.Millisecond)
		staging := filepath.Join(tmp, "staging.zip")
		if err := archive.CompressDirectoryToDest(src, staging); err != nil {
			done <- err
			return
		}
		done <- os.Rename(staging, zipPath)
	}()

	if err := execute(t, "extract", "--wait", "10s", "--poll-interval", "20ms", zipPath, out); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(filepath.Join(out, "late", "data.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "arrived" {
		t.Errorf("content = %q", got)
	}
}

func TestExtractMissingArchive(t *testing.T) {
	tmp := t.TempDir()
	err := execute(t, "extract", filepath.Join(tmp, "never.zip"), filepath.Join(tmp, "out"))
	if err == nil {
		t.Fatal("expected an error for an archive that never appears")
	}
}

func TestCountAndCopy(t *testing.T) {
	tmp := t.TempDir()
	seed := filepath.Join(tmp, "seed")
	if err := execute(t, "seed", "-o", seed, "-c", "25"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := execute(t, "count", "--limit", "5", seed); err != nil {
		t.Fatalf("count: %v", err)
	}
	if err := execute(t, "count", filepath.Join(tmp, "missing")); err == nil {
		t.Error("count of a missing path succeeded")
	}

	dest := filepath.Join(tmp, "backup")
	if err := execute(t, "copy", seed, dest); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if err := execute(t, "verify", seed, filepath.Join(dest, "seed")); err != nil {
		t.Fatalf("verify after copy: %v", err)
	}
}

func TestInvalidConfigRejected(t *testing.T) {
	tmp := t.TempDir()
	cfg := filepath.Join(tmp, "bad.yaml")
	if err := os.WriteFile(cfg, []byte("extract:\n  poll_interval: -1s\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "--config", cfg, "count", tmp); err == nil {
		t.Error("negative poll_interval accepted")
	}
}

func TestBucketFor(t *testing.T) {
	id := "5b0f6f0e-4b8c-4c8e-9d57-2d0b0c6f1a11"
	a := bucketFor(id, 7)
	if a != bucketFor(id, 7) {
		t.Error("bucketFor is not deterministic")
	}
	if len(a) != 3 || a < "000" || a > "006" {
		t.Errorf("bucketFor(%q, 7) = %q, want 000..006", id, a)
	}
}
