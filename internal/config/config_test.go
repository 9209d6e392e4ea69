package config

import "testing"

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(``))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RootModuleTreatment != RootIgnore {
		t.Errorf("expected default root treatment ignore, got %s", cfg.RootModuleTreatment)
	}
	if !cfg.IgnoreTypeCheckingImports {
		t.Error("expected ignore_type_checking_imports default true")
	}
	if len(cfg.SourceRoots) != 1 || cfg.SourceRoots[0] != "." {
		t.Errorf("expected default source root '.', got %v", cfg.SourceRoots)
	}
}

func TestParseDependencyStringOrTable(t *testing.T) {
	doc := `
[[modules]]
path = "a"
depends_on = ["b", { path = "c", deprecated = true }]
`
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Modules) != 1 {
		t.Fatalf("expected 1 module, got %d", len(cfg.Modules))
	}
	deps := *cfg.Modules[0].DependsOn
	if len(deps) != 2 {
		t.Fatalf("expected 2 deps, got %d", len(deps))
	}
	if deps[0].Path != "b" || deps[0].Deprecated {
		t.Errorf("unexpected first dep: %+v", deps[0])
	}
	if deps[1].Path != "c" || !deps[1].Deprecated {
		t.Errorf("unexpected second dep: %+v", deps[1])
	}
}

func TestParseRejectsDuplicateModules(t *testing.T) {
	doc := `
[[modules]]
path = "a"

[[modules]]
path = "a"
`
	if _, err := Parse([]byte(doc)); err == nil {
		t.Fatal("expected duplicate module path to error")
	}
}

func TestParseUnknownTopLevelKeyIsWarningNotError(t *testing.T) {
	cfg, err := Parse([]byte(`bogus_key = true`))
	if err != nil {
		t.Fatalf("unexpected error for unknown key: %v", err)
	}
	if len(cfg.UnknownKeys) != 1 || cfg.UnknownKeys[0] != "bogus_key" {
		t.Errorf("expected bogus_key recorded as unknown, got %v", cfg.UnknownKeys)
	}
}

func TestParseDisableDefaultExcludesIsKnownKey(t *testing.T) {
	cfg, err := Parse([]byte(`disable_default_excludes = true`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.UnknownKeys) != 0 {
		t.Errorf("expected disable_default_excludes to be a recognized key, got unknown: %v", cfg.UnknownKeys)
	}
	if !cfg.DisableDefaultExcludes {
		t.Error("expected DisableDefaultExcludes to be true")
	}
}

func TestParseRejectsRootAsDependencyUnderDependenciesOnly(t *testing.T) {
	doc := `
root_module_treatment = "dependencies_only"

[[modules]]
path = "a"
depends_on = ["<root>"]
`
	if _, err := Parse([]byte(doc)); err == nil {
		t.Fatal("expected depends_on <root> under dependencies_only to error")
	}
}

func TestParseAllowsRootAsDependencyUnderAllow(t *testing.T) {
	doc := `
root_module_treatment = "allow"

[[modules]]
path = "a"
depends_on = ["<root>"]
`
	if _, err := Parse([]byte(doc)); err != nil {
		t.Fatalf("unexpected error under root_module_treatment=allow: %v", err)
	}
}

func TestModuleVisibleTo(t *testing.T) {
	m := ModuleConfig{Path: "b", Visibility: []string{"a.*"}}
	if !m.VisibleTo("a.sub") {
		t.Error("expected a.sub visible")
	}
	if m.VisibleTo("c.sub") {
		t.Error("expected c.sub not visible")
	}
}
