// Package configsync implements the `sync [--add]` command: turning
// observed import violations back into depends_on declarations.
package configsync

import (
	"github.com/gauge-sh/boundary/internal/config"
	"github.com/gauge-sh/boundary/internal/modules"
	"github.com/gauge-sh/boundary/internal/types"
)

// DeprecatedEdges maps a module path to the set of target paths it
// declared as deprecated dependencies before pruning, so that pruning
// doesn't silently promote a deprecated edge back to a first-class one.
type DeprecatedEdges map[string]map[string]bool

// Prune drops every module whose path no longer resolves to a real
// file or package under the source roots, and resets every surviving
// module's depends_on to an explicit, empty list — the config is about
// to be rebuilt from what check actually observes. The deprecated
// status of any edge that existed before pruning is preserved in the
// returned map so AddFromDiagnostics can restore it.
func Prune(cfg *config.ProjectConfig, known *modules.KnownPaths) (config.ProjectConfig, DeprecatedEdges) {
	pruned := *cfg
	deprecated := DeprecatedEdges{}

	kept := make([]config.ModuleConfig, 0, len(cfg.Modules))
	for _, m := range cfg.Modules {
		if !known.Contains(types.NewDottedPath(m.Path)) {
			continue
		}
		if m.DependsOn != nil {
			for _, dep := range *m.DependsOn {
				if dep.Deprecated {
					if deprecated[m.Path] == nil {
						deprecated[m.Path] = map[string]bool{}
					}
					deprecated[m.Path][dep.Path] = true
				}
			}
		}
		empty := []config.DependencyConfig{}
		m.DependsOn = &empty
		kept = append(kept, m)
	}
	pruned.Modules = kept
	return pruned, deprecated
}

// AddFromDiagnostics folds every dependency-list violation back into
// its importer's depends_on list. Only diagnostics carrying
// ImporterModulePath/TargetModulePath are eligible — those are exactly
// the ones raised by the dependency-list rule (4.5e), never visibility,
// layer, cannot_depend_on, or interface violations, which sync must
// never silently paper over by declaring a dependency.
func AddFromDiagnostics(cfg *config.ProjectConfig, diags []types.Diagnostic, deprecated DeprecatedEdges) {
	byPath := make(map[string]*config.ModuleConfig, len(cfg.Modules))
	for i := range cfg.Modules {
		byPath[cfg.Modules[i].Path] = &cfg.Modules[i]
	}

	for _, d := range diags {
		if d.Kind != types.KindDependency || d.ImporterModulePath == "" || d.TargetModulePath == "" {
			continue
		}
		m, ok := byPath[d.ImporterModulePath]
		if !ok {
			continue
		}
		if m.DependsOn == nil {
			empty := []config.DependencyConfig{}
			m.DependsOn = &empty
		}
		if found, _ := m.DependsOnPath(d.TargetModulePath); found {
			continue
		}
		wasDeprecated := deprecated[d.ImporterModulePath][d.TargetModulePath]
		*m.DependsOn = append(*m.DependsOn, config.DependencyConfig{
			Path:       d.TargetModulePath,
			Deprecated: wasDeprecated,
		})
	}
}
