// Package config defines the project configuration schema (ProjectConfig
// and its nested types) and loads/validates it from tach.toml.
package config

import (
	"fmt"

	"github.com/gauge-sh/boundary/internal/types"
)

// RootModuleTreatment controls how imports that resolve to the implicit
// root module (code inside a source root but outside every declared
// module) are handled.
type RootModuleTreatment string

const (
	RootAllow            RootModuleTreatment = "allow"
	RootForbid           RootModuleTreatment = "forbid"
	RootIgnore           RootModuleTreatment = "ignore"
	RootDependenciesOnly RootModuleTreatment = "dependencies_only"
)

// RuleSetting is the three-way severity knob used throughout RulesConfig.
type RuleSetting string

const (
	RuleError RuleSetting = "error"
	RuleWarn  RuleSetting = "warn"
	RuleOff   RuleSetting = "off"
)

// Severity converts a RuleSetting into the diagnostic severity to use,
// returning ok=false when the setting is "off" (no diagnostic at all).
func (r RuleSetting) Severity() (types.Severity, bool) {
	switch r {
	case RuleError:
		return types.SeverityError, true
	case RuleWarn:
		return types.SeverityWarning, true
	default:
		return 0, false
	}
}

// InterfaceDataTypes restricts which symbol types an interface's expose
// patterns may match.
type InterfaceDataTypes string

const (
	DataTypesAll       InterfaceDataTypes = "all"
	DataTypesPrimitive InterfaceDataTypes = "primitive"
)

// CacheBackend names the storage strategy for the computation cache.
// "disk" is the only backend today; the field exists so a future
// backend doesn't require a config-schema break.
type CacheBackend string

const CacheBackendDisk CacheBackend = "disk"

// DependencyConfig is one entry of a module's depends_on /
// cannot_depend_on list. In TOML it may be written as a bare string
// ("pkg.sub") or as a table ({ path = "pkg.sub", deprecated = true }).
type DependencyConfig struct {
	Path       string
	Deprecated bool
}

// UnmarshalTOML implements go-toml/v2's Unmarshaler so a DependencyConfig
// can come from either a bare string or a {path, deprecated} table.
func (d *DependencyConfig) UnmarshalTOML(value interface{}) error {
	switch v := value.(type) {
	case string:
		d.Path = v
		d.Deprecated = false
		return nil
	case map[string]interface{}:
		path, ok := v["path"].(string)
		if !ok {
			return fmt.Errorf("dependency table missing string \"path\" field")
		}
		d.Path = path
		if dep, ok := v["deprecated"].(bool); ok {
			d.Deprecated = dep
		}
		for k := range v {
			if k != "path" && k != "deprecated" {
				return fmt.Errorf("unknown field %q in dependency table", k)
			}
		}
		return nil
	default:
		return fmt.Errorf("dependency entry must be a string or table, got %T", value)
	}
}

// MarshalTOML round-trips a DependencyConfig back to its minimal form:
// a bare string when not deprecated, a table otherwise. Used by `sync`
// to keep generated config diffs small.
func (d DependencyConfig) MarshalTOML() ([]byte, error) {
	if !d.Deprecated {
		return []byte(fmt.Sprintf("%q", d.Path)), nil
	}
	return []byte(fmt.Sprintf("{ path = %q, deprecated = true }", d.Path)), nil
}

// ModuleConfig declares one module: its dotted path and the rules that
// govern what it may import and who may import it.
type ModuleConfig struct {
	Path                    string             `toml:"path"`
	DependsOn               *[]DependencyConfig `toml:"depends_on"`
	CannotDependOn          []DependencyConfig `toml:"cannot_depend_on"`
	DependsOnExternal       *[]string          `toml:"depends_on_external"`
	CannotDependOnExternal  []string           `toml:"cannot_depend_on_external"`
	Visibility              []string           `toml:"visibility"`
	Layer                   string             `toml:"layer"`
	Strict                  bool               `toml:"strict"`
	Utility                 bool               `toml:"utility"`
	Unchecked               bool               `toml:"unchecked"`
}

// IsRoot reports whether this ModuleConfig is the "<root>" sentinel.
func (m *ModuleConfig) IsRoot() bool {
	return m.Path == types.RootSentinel
}

// DependsOnPath reports whether path appears (as a plain string) in
// DependsOn, and whether that entry is marked deprecated.
func (m *ModuleConfig) DependsOnPath(path string) (found, deprecated bool) {
	if m.DependsOn == nil {
		return false, false
	}
	for _, dep := range *m.DependsOn {
		if dep.Path == path {
			return true, dep.Deprecated
		}
	}
	return false, false
}

// Forbids reports whether path appears in CannotDependOn.
func (m *ModuleConfig) Forbids(path string) bool {
	for _, dep := range m.CannotDependOn {
		if dep.Path == path {
			return true
		}
	}
	return false
}

// VisibleTo reports whether importerPath is permitted to see this
// module, per its Visibility glob list. An empty list means everyone.
func (m *ModuleConfig) VisibleTo(importerPath string) bool {
	if len(m.Visibility) == 0 {
		return true
	}
	for _, pattern := range m.Visibility {
		if visibilityMatches(pattern, importerPath) {
			return true
		}
	}
	return false
}

// visibilityMatches implements the dotted-path glob semantics used by
// module visibility lists: "*" matches anything, otherwise the pattern
// and the candidate path must have the same segment count, and each
// pattern segment must be "*" or an exact match.
func visibilityMatches(pattern, path string) bool {
	if pattern == "*" {
		return true
	}
	patternSegs := splitDotted(pattern)
	pathSegs := splitDotted(path)
	if len(patternSegs) != len(pathSegs) {
		return false
	}
	for i, seg := range patternSegs {
		if seg != "*" && seg != pathSegs[i] {
			return false
		}
	}
	return true
}

func splitDotted(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

// InterfaceConfig declares the symbols a set of modules exposes to the
// rest of the project.
type InterfaceConfig struct {
	Expose      []string           `toml:"expose"`
	FromModules []string           `toml:"from"`
	Visibility  []string           `toml:"visibility"`
	DataTypes   InterfaceDataTypes `toml:"data_types"`
	// Exclusive, when true, makes this interface's expose patterns the
	// only legal surface for its from_modules — even non-strict
	// importers are held to it. Supplemented from the original Rust
	// implementation's interfaces.rs (see SPEC_FULL.md).
	Exclusive bool `toml:"exclusive"`
}

// AppliesTo reports whether this interface's from_modules covers
// modulePath.
func (i *InterfaceConfig) AppliesTo(modulePath string) bool {
	for _, from := range i.FromModules {
		if visibilityMatches(from, modulePath) {
			return true
		}
	}
	return false
}

// VisibleToInterface reports whether importerPath may rely on this
// interface's exposure at all, per its own Visibility glob list. An
// empty list means every importer may.
func (i *InterfaceConfig) VisibleToInterface(importerPath string) bool {
	if len(i.Visibility) == 0 {
		return true
	}
	for _, pattern := range i.Visibility {
		if visibilityMatches(pattern, importerPath) {
			return true
		}
	}
	return false
}

// RulesConfig configures the severity of a handful of secondary checks.
type RulesConfig struct {
	UnusedIgnoreDirectives      RuleSetting `toml:"unused_ignore_directives"`
	RequireIgnoreDirectiveReasons RuleSetting `toml:"require_ignore_directive_reasons"`
	UnusedExternalDependencies  RuleSetting `toml:"unused_external_dependencies"`
	// LocalImports controls the severity applied to a dependency
	// violation whose triggering import is not at module scope (nested
	// inside a function or method body). Supplemented from the original
	// implementation's rules.rs (see SPEC_FULL.md).
	LocalImports RuleSetting `toml:"local_imports"`
}

func defaultRules() RulesConfig {
	return RulesConfig{
		UnusedIgnoreDirectives:        RuleWarn,
		RequireIgnoreDirectiveReasons: RuleOff,
		UnusedExternalDependencies:    RuleError,
		LocalImports:                  RuleError,
	}
}

// CacheConfig configures the computation cache's fingerprint inputs.
type CacheConfig struct {
	Backend         CacheBackend `toml:"backend"`
	FileDependencies []string    `toml:"file_dependencies"`
	EnvDependencies  []string    `toml:"env_dependencies"`
}

// ExternalConfig configures third-party package resolution.
type ExternalConfig struct {
	Exclude []string          `toml:"exclude"`
	Rename  map[string]string `toml:"rename"`
}

// ProjectConfig is the fully parsed tach.toml document.
type ProjectConfig struct {
	Modules                     []ModuleConfig      `toml:"modules"`
	Interfaces                  []InterfaceConfig   `toml:"interfaces"`
	Layers                      []string            `toml:"layers"`
	SourceRoots                 []string            `toml:"source_roots"`
	Exclude                     []string            `toml:"exclude"`
	Rules                       RulesConfig         `toml:"rules"`
	RootModuleTreatment         RootModuleTreatment `toml:"root_module_treatment"`
	ForbidCircularDependencies  bool                `toml:"forbid_circular_dependencies"`
	IgnoreTypeCheckingImports   bool                `toml:"ignore_type_checking_imports"`
	IncludeStringImports        bool                `toml:"include_string_imports"`
	RespectGitignore            bool                `toml:"respect_gitignore"`
	Cache                       CacheConfig         `toml:"cache"`
	External                    ExternalConfig      `toml:"external"`
	// DisableDefaultExcludes opts out of pathmatch.DefaultExcludes (the
	// always-on __pycache__/venv/build-artifact patterns). Off by
	// default: the default excludes are always added unless the user
	// opts out here.
	DisableDefaultExcludes bool `toml:"disable_default_excludes"`

	// UnknownKeys is populated during Load with the top-level keys the
	// schema didn't recognize; the caller turns each into a
	// Configuration warning instead of a hard failure.
	UnknownKeys []string `toml:"-"`
}

// DefaultExcludePaths are always folded into ProjectConfig.Exclude.
var DefaultExcludePaths = []string{
	"**/tests",
	"**/docs",
	"**/*__pycache__",
	"**/*egg-info",
	"**/venv",
}

// Default returns a ProjectConfig with every field at its documented
// default value.
func Default() ProjectConfig {
	return ProjectConfig{
		SourceRoots:                []string{"."},
		Exclude:                    append([]string{}, DefaultExcludePaths...),
		Rules:                      defaultRules(),
		RootModuleTreatment:        RootIgnore,
		IgnoreTypeCheckingImports:  true,
		Cache:                      CacheConfig{Backend: CacheBackendDisk},
	}
}

// ModulePaths returns the declared path of every module.
func (p *ProjectConfig) ModulePaths() []string {
	paths := make([]string, len(p.Modules))
	for i, m := range p.Modules {
		paths[i] = m.Path
	}
	return paths
}

// UtilityPaths returns the path of every module marked utility.
func (p *ProjectConfig) UtilityPaths() []string {
	var paths []string
	for _, m := range p.Modules {
		if m.Utility {
			paths = append(paths, m.Path)
		}
	}
	return paths
}

// InterfacesFor returns every interface whose from_modules covers
// modulePath — the union of exposed patterns for that module (§3
// InterfaceConfig).
func (p *ProjectConfig) InterfacesFor(modulePath string) []*InterfaceConfig {
	var out []*InterfaceConfig
	for i := range p.Interfaces {
		if p.Interfaces[i].AppliesTo(modulePath) {
			out = append(out, &p.Interfaces[i])
		}
	}
	return out
}
