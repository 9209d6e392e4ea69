package check

import (
	"fmt"
	"sort"

	"github.com/gauge-sh/boundary/internal/config"
	"github.com/gauge-sh/boundary/internal/types"
)

// UnusedDependencyDiagnostics implements the --exact flag: every
// declared depends_on edge that no real import exercised is reported.
func UnusedDependencyDiagnostics(cfg *config.ProjectConfig, edges []Edge) []types.Diagnostic {
	used := map[string]bool{}
	for _, e := range edges {
		if e.External {
			continue
		}
		used[e.From+"\x00"+e.To] = true
	}

	var diags []types.Diagnostic
	for _, m := range cfg.Modules {
		if m.DependsOn == nil {
			continue
		}
		for _, dep := range *m.DependsOn {
			if dep.Deprecated {
				continue
			}
			if !used[m.Path+"\x00"+dep.Path] {
				diags = append(diags, types.Diagnostic{
					ImportModPath: dep.Path,
					Severity:      types.SeverityError,
					Kind:          types.KindUnused,
					Message:       fmt.Sprintf("module %q declares a dependency on %q that no import uses", m.Path, dep.Path),
				})
			}
		}
	}
	sort.Slice(diags, func(i, j int) bool { return diags[i].Message < diags[j].Message })
	return diags
}

// UnusedExternalDependencyDiagnostics implements `check-external`: every
// declared depends_on_external entry that no real import exercised is
// reported, mirroring UnusedDependencyDiagnostics for third-party
// packages.
func UnusedExternalDependencyDiagnostics(cfg *config.ProjectConfig, edges []Edge) []types.Diagnostic {
	used := map[string]bool{}
	for _, e := range edges {
		if !e.External {
			continue
		}
		used[e.From+"\x00"+e.To] = true
	}

	var diags []types.Diagnostic
	for _, m := range cfg.Modules {
		if m.DependsOnExternal == nil {
			continue
		}
		for _, dist := range *m.DependsOnExternal {
			if !used[m.Path+"\x00"+dist] {
				diags = append(diags, types.Diagnostic{
					ImportModPath: dist,
					Severity:      types.SeverityError,
					Kind:          types.KindUnused,
					Message:       fmt.Sprintf("module %q declares a dependency on external package %q that no import uses", m.Path, dist),
				})
			}
		}
	}
	sort.Slice(diags, func(i, j int) bool { return diags[i].Message < diags[j].Message })
	return diags
}
