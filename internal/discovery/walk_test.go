package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gauge-sh/boundary/pkg/pathmatch"
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

func TestWalkSkipsExcludedSubtree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "x.py"), "import os")
	writeFile(t, filepath.Join(root, "a", "__pycache__", "x.pyc"), "")
	writeFile(t, filepath.Join(root, "a", "b.txt"), "not source")

	files, err := Walk(root, Options{Matcher: pathmatch.NewMatcher(nil)})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "x.py" {
		t.Fatalf("expected exactly x.py, got %v", files)
	}
}

func TestImportPathForFile(t *testing.T) {
	roots := []SourceRoot{{Rel: ".", Abs: "/proj/src"}}
	path, ok := ImportPathForFile(roots, "/proj/src/a/b/__init__.py", SourceSuffixes)
	if !ok || path != "a.b" {
		t.Fatalf("expected a.b, got %q ok=%v", path, ok)
	}

	path, ok = ImportPathForFile(roots, "/proj/src/a/b/c.py", SourceSuffixes)
	if !ok || path != "a.b.c" {
		t.Fatalf("expected a.b.c, got %q ok=%v", path, ok)
	}
}

func TestIsPackageFile(t *testing.T) {
	if !IsPackageFile("/proj/src/a/b/__init__.py", SourceSuffixes) {
		t.Error("expected __init__.py recognized as a package file")
	}
	if IsPackageFile("/proj/src/a/b/c.py", SourceSuffixes) {
		t.Error("expected c.py not recognized as a package file")
	}
}

func TestImportPathEarliestRootWins(t *testing.T) {
	roots := []SourceRoot{
		{Rel: "src", Abs: "/proj/src"},
		{Rel: "src/vendor", Abs: "/proj/src/vendor"},
	}
	path, ok := ImportPathForFile(roots, "/proj/src/vendor/pkg/m.py", SourceSuffixes)
	if !ok || path != "vendor.pkg.m" {
		t.Fatalf("expected earliest root to win: got %q ok=%v", path, ok)
	}
}
