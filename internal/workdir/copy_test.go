package workdir

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// listTree returns every path under root, relative and slash-separated.
func listTree(t *testing.T, root string) []string {
	t.Helper()
	var out []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		if rel == "." {
			return nil
		}
		if info.IsDir() {
			rel += "/"
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(out)
	return out
}

func newTemplate(t *testing.T) string {
	t.Helper()
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "main.nf"), "workflow {}")
	writeFile(t, filepath.Join(src, "latch.config"), "process.executor = 'k8s'")
	writeFile(t, filepath.Join(src, "modules", "local", "ccs.nf"), "process CCS {}")
	writeFile(t, filepath.Join(src, ".nextflow", "history"), "old run")
	writeFile(t, filepath.Join(src, "work", "ab", "cd"), "cache")
	writeFile(t, filepath.Join(src, "results", "multiqc.html"), "<html>")
	writeFile(t, filepath.Join(src, "miniconda", "bin", "python"), "")
	writeFile(t, filepath.Join(src, "nextflow"), "#!/bin/sh")
	return src
}

func TestCopy_ExcludesDenylist(t *testing.T) {
	src := newTemplate(t)
	dst := filepath.Join(t.TempDir(), "nf-workdir")

	stats, err := Copy(src, dst, DefaultExclude)
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}

	want := []string{
		"latch.config",
		"main.nf",
		"modules/",
		"modules/local/",
		"modules/local/ccs.nf",
	}
	if diff := cmp.Diff(want, listTree(t, dst)); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
	if stats.Files != 3 {
		t.Errorf("Files = %d, want 3", stats.Files)
	}
	if stats.Excluded != 5 {
		t.Errorf("Excluded = %d, want 5", stats.Excluded)
	}
}

func TestCopy_ExcludesAtAnyDepth(t *testing.T) {
	src := newTemplate(t)
	writeFile(t, filepath.Join(src, "assets", "work", "tmp.txt"), "nested")
	writeFile(t, filepath.Join(src, "assets", "deep", "results", "x"), "nested")
	writeFile(t, filepath.Join(src, "assets", "schema.json"), "{}")
	dst := t.TempDir()

	if _, err := Copy(src, dst, DefaultExclude); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	for _, p := range listTree(t, dst) {
		for _, part := range strings.Split(strings.TrimSuffix(p, "/"), "/") {
			for _, ex := range DefaultExclude {
				if part == ex {
					t.Errorf("excluded name %q copied: %s", ex, p)
				}
			}
		}
	}
	if _, err := os.Stat(filepath.Join(dst, "assets", "schema.json")); err != nil {
		t.Errorf("assets/schema.json missing: %v", err)
	}
}

func TestCopy_Idempotent(t *testing.T) {
	src := newTemplate(t)
	dst := t.TempDir()

	if _, err := Copy(src, dst, DefaultExclude); err != nil {
		t.Fatalf("first Copy() error = %v", err)
	}
	first := listTree(t, dst)

	// Directories added to the template later are still filtered.
	writeFile(t, filepath.Join(src, "mambaforge", "envs", "x"), "")
	writeFile(t, filepath.Join(src, "main.nf"), "workflow { ISOSEQ() }")

	if _, err := Copy(src, dst, DefaultExclude); err != nil {
		t.Fatalf("second Copy() error = %v", err)
	}
	if diff := cmp.Diff(first, listTree(t, dst)); diff != "" {
		t.Errorf("tree changed on second copy (-first +second):\n%s", diff)
	}
	got, err := os.ReadFile(filepath.Join(dst, "main.nf"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "workflow { ISOSEQ() }" {
		t.Errorf("main.nf = %q, want overwritten content", got)
	}
}

func TestCopy_KeepsExistingDestinationFiles(t *testing.T) {
	src := newTemplate(t)
	dst := t.TempDir()
	writeFile(t, filepath.Join(dst, "pre-existing.txt"), "keep me")

	if _, err := Copy(src, dst, DefaultExclude); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "pre-existing.txt")); err != nil {
		t.Errorf("Copy is not a mirror; unrelated destination files must survive: %v", err)
	}
}

func TestCopy_Symlinks(t *testing.T) {
	src := newTemplate(t)
	if err := os.Symlink(filepath.Join(src, "main.nf"), filepath.Join(src, "link.nf")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if err := os.Symlink(filepath.Join(src, "missing"), filepath.Join(src, "dangling")); err != nil {
		t.Fatal(err)
	}
	// A cycle back to the root must not recurse forever.
	if err := os.Symlink(src, filepath.Join(src, "modules", "loop")); err != nil {
		t.Fatal(err)
	}
	// Links that never resolve count as dangling.
	for link, target := range map[string]string{"self": "self", "a": "b", "b": "a"} {
		if err := os.Symlink(filepath.Join(src, target), filepath.Join(src, link)); err != nil {
			t.Fatal(err)
		}
	}
	dst := t.TempDir()

	stats, err := Copy(src, dst, DefaultExclude)
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if stats.Dangling != 4 {
		t.Errorf("Dangling = %d, want 4", stats.Dangling)
	}
	for _, name := range []string{"self", "a", "b"} {
		if _, err := os.Lstat(filepath.Join(dst, name)); !os.IsNotExist(err) {
			t.Errorf("looping symlink %s should be skipped, got err = %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dst, "main.nf")); err != nil {
		t.Errorf("main.nf missing: %v", err)
	}
	info, err := os.Lstat(filepath.Join(dst, "link.nf"))
	if err != nil {
		t.Fatalf("link.nf missing: %v", err)
	}
	if !info.Mode().IsRegular() {
		t.Errorf("link.nf should be copied as a regular file")
	}
	if _, err := os.Lstat(filepath.Join(dst, "dangling")); !os.IsNotExist(err) {
		t.Errorf("dangling symlink should be skipped, got err = %v", err)
	}
}

func TestCopy_PreservesMode(t *testing.T) {
	src := t.TempDir()
	script := filepath.Join(src, "bin", "run.sh")
	writeFile(t, script, "#!/bin/sh\n")
	if err := os.Chmod(script, 0o755); err != nil {
		t.Fatal(err)
	}
	dst := t.TempDir()

	if _, err := Copy(src, dst, nil); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	info, err := os.Stat(filepath.Join(dst, "bin", "run.sh"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("mode = %v, want 0755", info.Mode().Perm())
	}
}

func TestCopy_MissingTemplate(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	_, err := Copy(missing, t.TempDir(), nil)
	if err == nil {
		t.Fatal("Copy() should fail for a missing template")
	}
	if n := strings.Count(err.Error(), missing); n != 1 {
		t.Errorf("error names the path %d times: %v", n, err)
	}
	f := filepath.Join(t.TempDir(), "file")
	writeFile(t, f, "x")
	if _, err := Copy(f, t.TempDir(), nil); err == nil {
		t.Error("Copy() should fail when the template is a file")
	}
}
