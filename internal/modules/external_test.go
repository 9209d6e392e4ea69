package modules

import (
	"os"
	"path/filepath"
	"testing"
)

func writePyproject(t *testing.T, dir, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "pyproject.toml"), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestExternalIndexPep621DependenciesDeclaredAndPinned(t *testing.T) {
	dir := t.TempDir()
	writePyproject(t, dir, `
[project]
dependencies = ["requests>=2.31", "PyYAML==6.0"]
`)
	idx := NewExternalIndex(dir, nil)

	if !idx.IsDeclared("requests") {
		t.Error("expected requests declared")
	}
	if !idx.IsDeclared("pyyaml") {
		t.Error("expected PyYAML normalized to pyyaml and declared")
	}

	pins := idx.Pins()
	want := []string{"PyYAML==6.0", "requests>=2.31"}
	if len(pins) != len(want) {
		t.Fatalf("expected pins %v, got %v", want, pins)
	}
	for i := range want {
		if pins[i] != want[i] {
			t.Errorf("pin %d: expected %q, got %q", i, want[i], pins[i])
		}
	}
}

func TestExternalIndexPoetryDependenciesFallback(t *testing.T) {
	dir := t.TempDir()
	writePyproject(t, dir, `
[tool.poetry.dependencies]
python = "^3.11"
requests = "^2.31"

[tool.poetry.dependencies.numpy]
version = "^1.26"
`)
	idx := NewExternalIndex(dir, nil)

	if idx.IsDeclared("python") {
		t.Error("python constraint should not count as a declared dependency")
	}
	if !idx.IsDeclared("requests") {
		t.Error("expected requests declared via poetry table")
	}
	if !idx.IsDeclared("numpy") {
		t.Error("expected numpy declared via poetry table entry")
	}

	pins := idx.Pins()
	want := map[string]bool{"requests@^2.31": true, "numpy@^1.26": true}
	if len(pins) != len(want) {
		t.Fatalf("expected 2 pins, got %v", pins)
	}
	for _, p := range pins {
		if !want[p] {
			t.Errorf("unexpected pin %q", p)
		}
	}
}

func TestExternalIndexPinsSortedAndCopied(t *testing.T) {
	dir := t.TempDir()
	writePyproject(t, dir, `
[project]
dependencies = ["zeta==1.0", "alpha==1.0"]
`)
	idx := NewExternalIndex(dir, nil)

	pins := idx.Pins()
	if len(pins) != 2 || pins[0] != "alpha==1.0" || pins[1] != "zeta==1.0" {
		t.Fatalf("expected sorted pins, got %v", pins)
	}

	pins[0] = "mutated"
	if idx.Pins()[0] == "mutated" {
		t.Error("Pins should return a copy, not the internal slice")
	}
}

func TestExternalIndexNoManifestHasNoPins(t *testing.T) {
	idx := NewExternalIndex(t.TempDir(), nil)
	if len(idx.Pins()) != 0 {
		t.Errorf("expected no pins without a manifest, got %v", idx.Pins())
	}
}

func TestExternalIndexRenameAndDistributionName(t *testing.T) {
	idx := NewExternalIndex(t.TempDir(), map[string]string{"PIL": "pillow"})
	if idx.DistributionName("PIL") != "pillow" {
		t.Errorf("expected renamed distribution name, got %q", idx.DistributionName("PIL"))
	}
	if idx.DistributionName("Requests") != "requests" {
		t.Errorf("expected normalized distribution name, got %q", idx.DistributionName("Requests"))
	}
}

func TestExternalIndexStdlib(t *testing.T) {
	idx := NewExternalIndex(t.TempDir(), nil)
	if !idx.IsStdlib("os") {
		t.Error("expected os recognized as stdlib")
	}
	if idx.IsStdlib("requests") {
		t.Error("expected requests not recognized as stdlib")
	}
}
