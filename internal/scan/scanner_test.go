package scan

import (
	"testing"

	"github.com/gauge-sh/boundary/internal/types"
)

func mustScan(t *testing.T, src string, modPath string) Result {
	t.Helper()
	return mustScanOpts(t, src, Options{ModulePath: types.NewDottedPath(modPath)})
}

func mustScanOpts(t *testing.T, src string, opts Options) Result {
	t.Helper()
	s, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()
	res, err := s.Scan("mod.py", []byte(src), opts)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	return res
}

func TestScanPlainImport(t *testing.T) {
	res := mustScan(t, "import a.b.c\n", "pkg.mod")
	if len(res.Imports) != 1 {
		t.Fatalf("expected 1 import, got %d: %+v", len(res.Imports), res.Imports)
	}
	if got := res.Imports[0].ModulePath.String(); got != "a.b.c" {
		t.Errorf("expected a.b.c, got %s", got)
	}
	if !res.Imports[0].IsGlobalScope {
		t.Error("expected global scope")
	}
}

func TestScanAliasedImport(t *testing.T) {
	res := mustScan(t, "import a.b as ab\n", "pkg.mod")
	if len(res.Imports) != 1 {
		t.Fatalf("expected 1 import, got %d", len(res.Imports))
	}
	if got := res.Imports[0].Alias.String(); got != "ab" {
		t.Errorf("expected alias ab, got %s", got)
	}
}

func TestScanFromImportMultiple(t *testing.T) {
	res := mustScan(t, "from a.b import c, d as dd\n", "pkg.mod")
	if len(res.Imports) != 2 {
		t.Fatalf("expected 2 imports, got %d: %+v", len(res.Imports), res.Imports)
	}
	if got := res.Imports[0].ModulePath.String(); got != "a.b.c" {
		t.Errorf("expected a.b.c, got %s", got)
	}
	if got := res.Imports[1].ModulePath.String(); got != "a.b.d" {
		t.Errorf("expected a.b.d, got %s", got)
	}
	if got := res.Imports[1].Alias.String(); got != "dd" {
		t.Errorf("expected alias dd, got %s", got)
	}
}

func TestScanWildcardImport(t *testing.T) {
	res := mustScan(t, "from a.b import *\n", "pkg.mod")
	if len(res.Imports) != 1 || !res.Imports[0].Opaque {
		t.Fatalf("expected 1 opaque import, got %+v", res.Imports)
	}
}

func TestScanRelativeImport(t *testing.T) {
	res := mustScan(t, "from . import sibling\nfrom .. import cousin\n", "pkg.sub.mod")
	if len(res.Imports) != 2 {
		t.Fatalf("expected 2 imports, got %d: %+v", len(res.Imports), res.Imports)
	}
	if got := res.Imports[0].ModulePath.String(); got != "pkg.sub.sibling" {
		t.Errorf("expected pkg.sub.sibling, got %s", got)
	}
	if got := res.Imports[1].ModulePath.String(); got != "pkg.cousin" {
		t.Errorf("expected pkg.cousin, got %s", got)
	}
}

func TestScanRelativeImportInPackageFile(t *testing.T) {
	// "pkg.sub" is the collapsed import path of pkg/sub/__init__.py: a
	// single leading dot there means "this package", one segment fewer
	// stripped than the same import in an ordinary pkg/sub.py module.
	res := mustScanOpts(t, "from . import sibling\nfrom .. import cousin\n", Options{
		ModulePath: types.NewDottedPath("pkg.sub"),
		IsPackage:  true,
	})
	if len(res.Imports) != 2 {
		t.Fatalf("expected 2 imports, got %d: %+v", len(res.Imports), res.Imports)
	}
	if got := res.Imports[0].ModulePath.String(); got != "pkg.sub.sibling" {
		t.Errorf("expected pkg.sub.sibling, got %s", got)
	}
	if got := res.Imports[1].ModulePath.String(); got != "pkg.cousin" {
		t.Errorf("expected pkg.cousin, got %s", got)
	}
}

func TestScanRelativeImportUnresolvable(t *testing.T) {
	res := mustScan(t, "from .... import unreachable\n", "pkg.mod")
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Kind != types.KindConfiguration {
		t.Fatalf("expected 1 configuration diagnostic, got %+v", res.Diagnostics)
	}
	if res.Diagnostics[0].FilePath != "mod.py" {
		t.Errorf("expected diagnostic to carry the scanned file's path, got %q", res.Diagnostics[0].FilePath)
	}
}

func TestScanTypeCheckingBlock(t *testing.T) {
	src := "from typing import TYPE_CHECKING\nif TYPE_CHECKING:\n    import a.b\n"
	res := mustScan(t, src, "pkg.mod")
	if len(res.Imports) != 2 {
		t.Fatalf("expected 2 imports, got %d: %+v", len(res.Imports), res.Imports)
	}
	if res.Imports[1].Kind != types.KindTypeChecking {
		t.Errorf("expected second import to be TYPE_CHECKING kind, got %v", res.Imports[1].Kind)
	}
}

func TestScanLocalImportScope(t *testing.T) {
	src := "def f():\n    import a.b\n"
	res := mustScan(t, src, "pkg.mod")
	if len(res.Imports) != 1 {
		t.Fatalf("expected 1 import, got %d", len(res.Imports))
	}
	if res.Imports[0].IsGlobalScope {
		t.Error("expected non-global scope for import nested in function body")
	}
}

func TestScanIgnoreDirectiveSameLine(t *testing.T) {
	src := "import a.b  # boundary-ignore: legacy shim\n"
	res := mustScan(t, src, "pkg.mod")
	if len(res.Imports) != 1 || res.Imports[0].Ignore == nil {
		t.Fatalf("expected ignore directive attached, got %+v", res.Imports)
	}
	if res.Imports[0].Ignore.Reason != "legacy shim" {
		t.Errorf("expected reason 'legacy shim', got %q", res.Imports[0].Ignore.Reason)
	}
}

func TestScanIgnoreDirectivePrecedingLine(t *testing.T) {
	src := "# boundary-ignore[b]\nfrom a import b, c\n"
	res := mustScan(t, src, "pkg.mod")
	if len(res.Imports) != 2 {
		t.Fatalf("expected 2 imports, got %d", len(res.Imports))
	}
	if res.Imports[0].Ignore == nil || !res.Imports[0].Ignore.AppliesTo("b") {
		t.Errorf("expected directive scoped to b to apply to first import")
	}
}

func TestScanStringImportOptIn(t *testing.T) {
	src := "import importlib\nimportlib.import_module(\"a.b\")\n"
	s, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()
	res, err := s.Scan("mod.py", []byte(src), Options{
		ModulePath:           types.NewDottedPath("pkg.mod"),
		IncludeStringImports: true,
	})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	found := false
	for _, imp := range res.Imports {
		if imp.Kind == types.KindString && imp.ModulePath.String() == "a.b" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected string import a.b, got %+v", res.Imports)
	}
}

func TestScanSyntaxErrorTolerant(t *testing.T) {
	res := mustScan(t, "import a.b\ndef broken(:\n", "pkg.mod")
	found := false
	for _, imp := range res.Imports {
		if imp.ModulePath.String() == "a.b" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected partial import extraction despite syntax error, got %+v", res.Imports)
	}
	if len(res.Diagnostics) == 0 {
		t.Error("expected a configuration diagnostic for the syntax error")
	}
}
