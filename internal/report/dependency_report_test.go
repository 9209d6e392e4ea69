package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gauge-sh/boundary/internal/check"
	"github.com/gauge-sh/boundary/internal/config"
	"github.com/gauge-sh/boundary/internal/types"
)

func writeTestFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	full := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return full
}

func TestBuildDependencyReportSplitsDepsAndUsages(t *testing.T) {
	dir := t.TempDir()
	aPath := writeTestFile(t, dir, "a/x.py", "import b\n")
	bPath := writeTestFile(t, dir, "b/y.py", "import a\n")

	cfg := config.Default()
	tasks := []check.FileTask{
		{AbsPath: aPath, ImportPath: types.NewDottedPath("a.x")},
		{AbsPath: bPath, ImportPath: types.NewDottedPath("b.y")},
	}

	rep, err := BuildDependencyReport(context.Background(), &cfg, dir, tasks, types.NewDottedPath("a"))
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Dependencies) != 1 || rep.Dependencies[0].ImportPath != "b" {
		t.Fatalf("expected one dependency on b, got %+v", rep.Dependencies)
	}
	if len(rep.Usages) != 1 || rep.Usages[0].ImportPath != "a" {
		t.Fatalf("expected one usage from b, got %+v", rep.Usages)
	}
}

func TestDependencyReportRenderSkipsSections(t *testing.T) {
	rep := DependencyReport{Path: "a", Dependencies: []Dependency{{FilePath: "a/x.py", LineNumber: 1, ImportPath: "b"}}}
	out := rep.Render(true, false, false)
	if strings.Contains(out, "Dependencies of") {
		t.Fatalf("expected dependencies section to be skipped, got: %s", out)
	}
}
