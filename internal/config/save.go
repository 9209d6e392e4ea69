package config

import (
	"os"
	"sort"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/gauge-sh/boundary/internal/boundaryerr"
)

// Save writes cfg to path as TOML, with modules sorted by path so that
// two syncs of the same effective config produce a byte-identical file
// (the idempotence property in spec.md §8).
func Save(cfg *ProjectConfig, path string) error {
	sorted := *cfg
	sorted.Modules = append([]ModuleConfig(nil), cfg.Modules...)
	sort.Slice(sorted.Modules, func(i, j int) bool {
		return sorted.Modules[i].Path < sorted.Modules[j].Path
	})
	for i := range sorted.Modules {
		if sorted.Modules[i].DependsOn != nil {
			deps := append([]DependencyConfig(nil), *sorted.Modules[i].DependsOn...)
			sort.Slice(deps, func(a, b int) bool { return deps[a].Path < deps[b].Path })
			sorted.Modules[i].DependsOn = &deps
		}
	}
	sorted.UnknownKeys = nil

	data, err := toml.Marshal(&sorted)
	if err != nil {
		return boundaryerr.NewConfigError(path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return boundaryerr.NewConfigError(path, err)
	}
	return nil
}
