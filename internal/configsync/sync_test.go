package configsync

import (
	"testing"

	"github.com/gauge-sh/boundary/internal/config"
	"github.com/gauge-sh/boundary/internal/modules"
	"github.com/gauge-sh/boundary/internal/types"
)

func TestPruneDropsMissingModulesAndClearsDeps(t *testing.T) {
	empty := []config.DependencyConfig{{Path: "b", Deprecated: true}}
	cfg := config.Default()
	cfg.Modules = []config.ModuleConfig{
		{Path: "a", DependsOn: &empty},
		{Path: "gone"},
	}
	known := modules.NewKnownPaths([]string{"a.x"})

	pruned, deprecated := Prune(&cfg, known)
	if len(pruned.Modules) != 1 || pruned.Modules[0].Path != "a" {
		t.Fatalf("expected only 'a' to survive pruning, got %+v", pruned.Modules)
	}
	if pruned.Modules[0].DependsOn == nil || len(*pruned.Modules[0].DependsOn) != 0 {
		t.Fatalf("expected depends_on reset to empty, got %+v", pruned.Modules[0].DependsOn)
	}
	if !deprecated["a"]["b"] {
		t.Fatalf("expected deprecated edge a->b to be remembered, got %+v", deprecated)
	}
}

func TestAddFromDiagnosticsAddsMissingEdgeAndRestoresDeprecation(t *testing.T) {
	empty := []config.DependencyConfig{}
	cfg := config.ProjectConfig{Modules: []config.ModuleConfig{
		{Path: "a", DependsOn: &empty},
		{Path: "b"},
	}}
	diags := []types.Diagnostic{
		{Kind: types.KindDependency, ImporterModulePath: "a", TargetModulePath: "b"},
	}
	deprecated := DeprecatedEdges{"a": {"b": true}}

	AddFromDiagnostics(&cfg, diags, deprecated)

	found, isDeprecated := cfg.Modules[0].DependsOnPath("b")
	if !found || !isDeprecated {
		t.Fatalf("expected a->b restored as deprecated, found=%v deprecated=%v", found, isDeprecated)
	}
}

func TestAddFromDiagnosticsIgnoresNonDependencyList(t *testing.T) {
	empty := []config.DependencyConfig{}
	cfg := config.ProjectConfig{Modules: []config.ModuleConfig{{Path: "a", DependsOn: &empty}}}
	diags := []types.Diagnostic{
		{Kind: types.KindInterfaceViolation, ImporterModulePath: "a", TargetModulePath: "b"},
	}
	AddFromDiagnostics(&cfg, diags, nil)
	if found, _ := cfg.Modules[0].DependsOnPath("b"); found {
		t.Fatal("expected interface violations not to add a dependency edge")
	}
}

func TestAddFromDiagnosticsIdempotent(t *testing.T) {
	deps := []config.DependencyConfig{{Path: "b"}}
	cfg := config.ProjectConfig{Modules: []config.ModuleConfig{{Path: "a", DependsOn: &deps}}}
	diags := []types.Diagnostic{
		{Kind: types.KindDependency, ImporterModulePath: "a", TargetModulePath: "b"},
	}
	AddFromDiagnostics(&cfg, diags, nil)
	if len(*cfg.Modules[0].DependsOn) != 1 {
		t.Fatalf("expected no duplicate edge, got %+v", *cfg.Modules[0].DependsOn)
	}
}
