package config

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/gauge-sh/boundary/internal/boundaryerr"
	"github.com/gauge-sh/boundary/internal/types"
)

// ConfigFileName is the project configuration file's canonical name.
const ConfigFileName = "tach.toml"

var knownTopLevelKeys = map[string]bool{
	"modules": true, "interfaces": true, "layers": true, "source_roots": true,
	"exclude": true, "rules": true, "root_module_treatment": true,
	"forbid_circular_dependencies": true, "ignore_type_checking_imports": true,
	"include_string_imports": true, "respect_gitignore": true, "cache": true,
	"external": true, "disable_default_excludes": true,
}

// Load reads and validates the project configuration at path. A missing
// file is not an error: Load returns Default() plus a nil error, letting
// callers run against an as-yet-unconfigured project (the config only
// gates the boundary rules, not discovery).
func Load(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		return &cfg, nil
	}
	if err != nil {
		return nil, boundaryerr.NewConfigError(path, err)
	}
	return Parse(data)
}

// Parse decodes raw TOML bytes into a validated ProjectConfig.
func Parse(data []byte) (*ProjectConfig, error) {
	cfg := Default()

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, boundaryerr.NewConfigError("", err)
	}

	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err == nil {
		for key := range raw {
			if !knownTopLevelKeys[key] {
				cfg.UnknownKeys = append(cfg.UnknownKeys, key)
			}
		}
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks a ProjectConfig's invariants, among them non-empty,
// unique module paths and at most one "<root>" entry. Visibility and
// layer references are not checked here. It does not mutate cfg beyond filling documented defaults
// on nested structs that TOML left zero-valued.
func Validate(cfg *ProjectConfig) error {
	seen := map[string]bool{}
	rootSeen := false
	for i := range cfg.Modules {
		m := &cfg.Modules[i]
		if m.Path == "" {
			return boundaryerr.NewConfigError("modules[].path", fmt.Errorf("module path cannot be empty"))
		}
		if seen[m.Path] {
			return boundaryerr.NewConfigError("modules", fmt.Errorf("duplicate module path %q", m.Path))
		}
		seen[m.Path] = true
		if m.IsRoot() {
			if rootSeen {
				return boundaryerr.NewConfigError("modules", fmt.Errorf("%q may appear at most once", m.Path))
			}
			rootSeen = true
		}
	}

	if cfg.RootModuleTreatment == "" {
		cfg.RootModuleTreatment = RootIgnore
	}
	switch cfg.RootModuleTreatment {
	case RootAllow, RootForbid, RootIgnore, RootDependenciesOnly:
	default:
		return boundaryerr.NewConfigError("root_module_treatment",
			fmt.Errorf("unknown value %q", cfg.RootModuleTreatment))
	}

	// dependencies_only allows importing unmoduled files as an implicit
	// target, but a module may never list "<root>" itself as something
	// it depends on: there's no module to declare a dependency on.
	if cfg.RootModuleTreatment == RootDependenciesOnly {
		for i := range cfg.Modules {
			if found, _ := cfg.Modules[i].DependsOnPath(types.RootSentinel); found {
				return boundaryerr.NewConfigError("modules[].depends_on",
					fmt.Errorf("module %q cannot declare a dependency on %q under dependencies_only root_module_treatment",
						cfg.Modules[i].Path, types.RootSentinel))
			}
		}
	}

	if len(cfg.SourceRoots) == 0 {
		cfg.SourceRoots = []string{"."}
	}

	fillRuleDefaults(&cfg.Rules)

	for i := range cfg.Interfaces {
		if cfg.Interfaces[i].DataTypes == "" {
			cfg.Interfaces[i].DataTypes = DataTypesAll
		}
		if len(cfg.Interfaces[i].FromModules) == 0 {
			cfg.Interfaces[i].FromModules = []string{"*"}
		}
	}

	return nil
}

func fillRuleDefaults(r *RulesConfig) {
	if r.UnusedIgnoreDirectives == "" {
		r.UnusedIgnoreDirectives = RuleWarn
	}
	if r.RequireIgnoreDirectiveReasons == "" {
		r.RequireIgnoreDirectiveReasons = RuleOff
	}
	if r.UnusedExternalDependencies == "" {
		r.UnusedExternalDependencies = RuleError
	}
	if r.LocalImports == "" {
		r.LocalImports = RuleError
	}
}

// AbsoluteSourceRoots resolves every configured source root against
// projectRoot, per §3's SourceRoot definition ("."  maps to projectRoot
// itself rather than a literal "./." join).
func AbsoluteSourceRoots(cfg *ProjectConfig, projectRoot string) []string {
	out := make([]string, len(cfg.SourceRoots))
	for i, root := range cfg.SourceRoots {
		if root == "." {
			out[i] = projectRoot
			continue
		}
		out[i] = filepath.Join(projectRoot, root)
	}
	return out
}
