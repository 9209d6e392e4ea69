// Package check implements C5, the boundary checker: applying a
// project's module rules to every (file, Import) pair the scanner
// produced and turning violations into diagnostics.
package check

import (
	"fmt"
	"regexp"

	"github.com/gauge-sh/boundary/internal/config"
	"github.com/gauge-sh/boundary/internal/modules"
	"github.com/gauge-sh/boundary/internal/types"
)

// Checker applies one project's rules. Immutable after construction;
// safe to share across the worker pool that dispatches per-file work.
type Checker struct {
	cfg      *config.ProjectConfig
	resolver *modules.Resolver
	tree     *modules.Tree
	external *modules.ExternalIndex
	exact    bool
}

// Options configures one check run.
type Options struct {
	// Exact enables the --exact unused-dependency check.
	Exact bool
	// External enables the check-external unused-external-dependency
	// check in place of the internal one.
	External bool
}

// New builds a Checker over an already-resolved module tree.
func New(cfg *config.ProjectConfig, tree *modules.Tree, resolver *modules.Resolver, external *modules.ExternalIndex, opts Options) *Checker {
	return &Checker{cfg: cfg, resolver: resolver, tree: tree, external: external, exact: opts.Exact}
}

// FileResult is one file's worth of diagnostics plus the dependency
// edges it actually exercised, used afterward for the unused-dependency
// and circular-dependency checks.
type FileResult struct {
	Diagnostics []types.Diagnostic
	EdgesUsed   []Edge
}

// Edge is one exercised, non-deprecated dependency, importer -> target.
// External is set when To names a third-party distribution rather than
// another internal module path.
type Edge struct {
	From, To string
	External bool
}

// CheckFile applies the boundary rules to every import found in one
// file. filePath is used only for diagnostic messages; importerPath is
// the file's own derived dotted import path.
func (c *Checker) CheckFile(filePath string, importerPath types.DottedPath, imports []types.Import) FileResult {
	var result FileResult

	importerCfg, importerFound, _ := c.tree.NearestAncestor(importerPath)
	if importerFound && importerCfg.Unchecked {
		return result
	}

	for _, imp := range imports {
		if imp.Kind == types.KindTypeChecking && c.cfg.IgnoreTypeCheckingImports {
			continue
		}
		diags, edge := c.checkImport(filePath, importerPath, importerCfg, importerFound, imp)
		result.Diagnostics = append(result.Diagnostics, diags...)
		if edge != nil {
			result.EdgesUsed = append(result.EdgesUsed, *edge)
		}
	}
	return result
}

func (c *Checker) checkImport(filePath string, importerPath types.DottedPath, importerCfg *config.ModuleConfig, importerFound bool, imp types.Import) ([]types.Diagnostic, *Edge) {
	res := c.resolver.Resolve(imp.ModulePath)

	// (a) Utility bypass.
	if res.Kind == modules.KindInternal && res.Module.Utility {
		return nil, edgeFor(importerCfg, res.Module)
	}

	// (b) Same-module: importing your own package tree is always fine.
	if res.Kind == modules.KindInternal && importerFound && res.Module.Path == importerCfg.Path {
		return nil, nil
	}
	if res.Kind == modules.KindInternal && importerFound &&
		types.NewDottedPath(importerCfg.Path).IsAncestorOf(types.NewDottedPath(res.Module.Path)) {
		return nil, nil
	}

	switch res.Kind {
	case modules.KindInternal:
		return c.checkInternalTarget(filePath, importerPath, importerCfg, importerFound, imp, res)
	case modules.KindExternal:
		return c.checkExternalTarget(filePath, importerCfg, importerFound, imp, res)
	case modules.KindRootModule:
		return c.checkRootTarget(filePath, importerCfg, importerFound, imp)
	default:
		return nil, nil
	}
}

// severityFor applies the local_imports rule override: a non-global
// import downgrades an otherwise-error diagnostic to whatever
// rules.local_imports says (including suppressing it entirely when
// that's "off").
func (c *Checker) severityFor(defaultSeverity types.Severity, imp types.Import) (types.Severity, bool) {
	if imp.IsGlobalScope || defaultSeverity != types.SeverityError {
		return defaultSeverity, true
	}
	return c.cfg.Rules.LocalImports.Severity()
}

func (c *Checker) diagnostic(filePath string, imp types.Import, kind types.DiagnosticKind, defaultSeverity types.Severity, message string) *types.Diagnostic {
	severity, ok := c.severityFor(defaultSeverity, imp)
	if !ok {
		return nil
	}
	line := imp.LineNumber
	if imp.OriginalLineOffset != nil {
		line = *imp.OriginalLineOffset
	}
	if imp.Ignore.AppliesTo(imp.LeafSymbol()) {
		imp.Ignore.Used = true
		return nil
	}
	return &types.Diagnostic{
		FilePath:      filePath,
		LineNumber:    line,
		ImportModPath: imp.ModulePath.String(),
		Severity:      severity,
		Kind:          kind,
		Message:       message,
	}
}

func (c *Checker) checkInternalTarget(filePath string, importerPath types.DottedPath, importerCfg *config.ModuleConfig, importerFound bool, imp types.Import, res modules.Resolution) ([]types.Diagnostic, *Edge) {
	target := res.Module

	if !importerFound {
		// A file with no module config of its own is only reachable
		// here when root_module_treatment permits unmoduled files to
		// import freely; nothing further to enforce against it as an
		// importer.
		return nil, edgeFor(importerCfg, target)
	}

	// (c) Visibility.
	if !target.VisibleTo(importerCfg.Path) {
		if d := c.diagnostic(filePath, imp, types.KindDependency, types.SeverityError,
			fmt.Sprintf("module %q is not permitted to see %q", importerCfg.Path, target.Path)); d != nil {
			return []types.Diagnostic{*d}, nil
		}
		return nil, nil
	}

	// (d) Layer.
	if importerCfg.Layer != "" && target.Layer != "" {
		srcIdx := layerIndex(c.cfg.Layers, importerCfg.Layer)
		dstIdx := layerIndex(c.cfg.Layers, target.Layer)
		switch {
		case srcIdx < 0 || dstIdx < 0:
			if d := c.diagnostic(filePath, imp, types.KindConfiguration, types.SeverityError,
				fmt.Sprintf("layer %q is not declared in project layers", pickUnknownLayer(srcIdx, dstIdx, importerCfg.Layer, target.Layer))); d != nil {
				return []types.Diagnostic{*d}, nil
			}
			return nil, nil
		case srcIdx > dstIdx:
			if d := c.diagnostic(filePath, imp, types.KindDependency, types.SeverityError,
				fmt.Sprintf("layer %q is above %q", target.Layer, importerCfg.Layer)); d != nil {
				return []types.Diagnostic{*d}, nil
			}
			return nil, nil
		case srcIdx < dstIdx:
			return nil, edgeFor(importerCfg, target)
		}
		// srcIdx == dstIdx: same layer, fall through to the dependency
		// list check below, which is what actually decides it.
	}

	// (e) Dependency list. cannot_depend_on takes precedence.
	if importerCfg.Forbids(target.Path) {
		if d := c.diagnostic(filePath, imp, types.KindDependency, types.SeverityError,
			fmt.Sprintf("Cannot import '%s'. Module '%s' cannot depend on '%s'.", imp.ModulePath.String(), importerCfg.Path, target.Path)); d != nil {
			return []types.Diagnostic{*d}, nil
		}
		return nil, nil
	}
	if importerCfg.DependsOn != nil {
		found, deprecated := importerCfg.DependsOnPath(target.Path)
		if !found {
			if d := c.diagnostic(filePath, imp, types.KindDependency, types.SeverityError,
				fmt.Sprintf("Cannot import '%s'. Module '%s' cannot depend on '%s'.", imp.ModulePath.String(), importerCfg.Path, target.Path)); d != nil {
				d.ImporterModulePath = importerCfg.Path
				d.TargetModulePath = target.Path
				return []types.Diagnostic{*d}, nil
			}
			return nil, nil
		}
		if deprecated {
			d := c.diagnostic(filePath, imp, types.KindDeprecated, types.SeverityWarning,
				fmt.Sprintf("%q depends on deprecated module %q", importerCfg.Path, target.Path))
			var diags []types.Diagnostic
			if d != nil {
				d.ImporterModulePath = importerCfg.Path
				d.TargetModulePath = target.Path
				diags = append(diags, *d)
			}
			return diags, nil
		}
	}

	// (f) Interface strictness. A module opts into this via `strict`; an
	// exclusive interface covering the target imposes the same
	// requirement on every importer, strict or not.
	if (target.Strict || c.tree.HasExclusiveInterface(target.Path)) && !res.Exact {
		if d := c.checkInterfaceStrictness(filePath, importerCfg, target, imp); d != nil {
			return []types.Diagnostic{*d}, edgeFor(importerCfg, target)
		}
	}

	return nil, edgeFor(importerCfg, target)
}

func pickUnknownLayer(srcIdx, dstIdx int, srcLayer, dstLayer string) string {
	if srcIdx < 0 {
		return srcLayer
	}
	return dstLayer
}

func layerIndex(layers []string, layer string) int {
	for i, l := range layers {
		if l == layer {
			return i
		}
	}
	return -1
}

// checkInterfaceStrictness implements rule (f): the imported leaf name
// (matched by original name, not alias — see DESIGN.md's open-question
// decision) must be exposed by some interface declaring target in
// from_modules.
func (c *Checker) checkInterfaceStrictness(filePath string, importerCfg *config.ModuleConfig, target *config.ModuleConfig, imp types.Import) *types.Diagnostic {
	if imp.Opaque {
		// A star-import's exposure is the target's whole surface.
		return nil
	}
	interfaces := c.tree.InterfacesFor(target.Path)
	symbol := imp.ImportedName
	if symbol == "" {
		symbol = imp.LeafSymbol()
	}
	for _, iface := range interfaces {
		if !iface.VisibleToInterface(importerCfg.Path) {
			continue
		}
		for _, pattern := range iface.Expose {
			if matchExposePattern(pattern, symbol) {
				return nil
			}
		}
	}
	return c.diagnostic(filePath, imp, types.KindInterfaceViolation, types.SeverityError,
		fmt.Sprintf("module %q is strict, and %q is not exposed by any interface", target.Path, symbol))
}

func matchExposePattern(pattern, symbol string) bool {
	if pattern == symbol {
		return true
	}
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return false
	}
	return re.MatchString(symbol)
}

func (c *Checker) checkExternalTarget(filePath string, importerCfg *config.ModuleConfig, importerFound bool, imp types.Import, res modules.Resolution) ([]types.Diagnostic, *Edge) {
	dist := c.external.DistributionName(res.PackageName)

	if c.external.IsStdlib(res.PackageName) {
		return nil, nil
	}
	if contains(c.cfg.External.Exclude, dist) {
		return nil, nil
	}

	if !importerFound {
		return nil, nil
	}

	forbidden := contains(importerCfg.CannotDependOnExternal, dist)
	if forbidden {
		if d := c.diagnostic(filePath, imp, types.KindDependency, types.SeverityError,
			fmt.Sprintf("module %q cannot depend on external package %q", importerCfg.Path, dist)); d != nil {
			return []types.Diagnostic{*d}, nil
		}
		return nil, nil
	}

	if importerCfg.DependsOnExternal != nil && !contains(*importerCfg.DependsOnExternal, dist) {
		if d := c.diagnostic(filePath, imp, types.KindDependency, types.SeverityError,
			fmt.Sprintf("module %q does not declare a dependency on external package %q", importerCfg.Path, dist)); d != nil {
			return []types.Diagnostic{*d}, nil
		}
		return nil, nil
	}
	return nil, &Edge{From: importerCfg.Path, To: dist, External: true}
}

func (c *Checker) checkRootTarget(filePath string, importerCfg *config.ModuleConfig, importerFound bool, imp types.Import) ([]types.Diagnostic, *Edge) {
	switch c.cfg.RootModuleTreatment {
	case config.RootIgnore:
		return nil, nil
	case config.RootForbid:
		if d := c.diagnostic(filePath, imp, types.KindDependency, types.SeverityError,
			"imports of unmoduled project files are forbidden by root_module_treatment"); d != nil {
			return []types.Diagnostic{*d}, nil
		}
		return nil, nil
	case config.RootDependenciesOnly:
		return nil, nil
	case config.RootAllow:
		if importerFound {
			found, _ := importerCfg.DependsOnPath(types.RootSentinel)
			if !found {
				if d := c.diagnostic(filePath, imp, types.KindDependency, types.SeverityError,
					fmt.Sprintf("module %q must declare a dependency on %q to import unmoduled files", importerCfg.Path, types.RootSentinel)); d != nil {
					return []types.Diagnostic{*d}, nil
				}
			}
		}
		return nil, nil
	default:
		return nil, nil
	}
}

func edgeFor(importer *config.ModuleConfig, target *config.ModuleConfig) *Edge {
	if importer == nil || target == nil || importer.Path == target.Path {
		return nil
	}
	return &Edge{From: importer.Path, To: target.Path}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
