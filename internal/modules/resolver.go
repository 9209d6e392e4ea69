package modules

import (
	"github.com/gauge-sh/boundary/internal/config"
	"github.com/gauge-sh/boundary/internal/types"
)

// ResolutionKind classifies where a dotted path landed.
type ResolutionKind uint8

const (
	// KindInternal targets a module declared in the project's own tree.
	KindInternal ResolutionKind = iota
	// KindExternal targets a known third-party or stdlib package.
	KindExternal
	// KindRootModule lies inside the project but under no declared
	// module.
	KindRootModule
	// KindUnknown is neither internal nor external.
	KindUnknown
)

// Resolution is the result of resolving one dotted import path.
type Resolution struct {
	Kind ResolutionKind
	// Module is set for KindInternal: the nearest ancestor module
	// config, which may be an ancestor of the literal import target
	// rather than the target itself.
	Module *config.ModuleConfig
	// Exact is true when the import targets Module itself rather than
	// one of its descendants.
	Exact bool
	// PackageName is set for KindExternal: the top-level import name
	// (e.g. "yaml" for "import yaml.loader").
	PackageName string
}

// Resolver answers resolve queries against a built module Tree and
// external package index. Immutable after construction and safe to
// share across goroutines.
type Resolver struct {
	tree     *Tree
	external *ExternalIndex
	known    *KnownPaths
	treated  config.RootModuleTreatment
}

// New builds a Resolver over an already-built Tree, ExternalIndex and
// the set of import paths file discovery actually found on disk.
func New(tree *Tree, external *ExternalIndex, known *KnownPaths, rootTreatment config.RootModuleTreatment) *Resolver {
	return &Resolver{tree: tree, external: external, known: known, treated: rootTreatment}
}

// Resolve classifies a single dotted import path. O(len(path.Segments())).
func (r *Resolver) Resolve(path types.DottedPath) Resolution {
	if path.Empty() {
		return Resolution{Kind: KindUnknown}
	}

	if m, ok, exact := r.tree.NearestAncestor(path); ok {
		return Resolution{Kind: KindInternal, Module: m, Exact: exact}
	}

	top := path.Segments()[0]
	if r.external.IsStdlib(top) {
		return Resolution{Kind: KindExternal, PackageName: top}
	}
	if r.external.IsDeclared(r.external.DistributionName(top)) {
		return Resolution{Kind: KindExternal, PackageName: top}
	}

	if r.treated != config.RootForbid && r.known != nil && r.known.Contains(path) {
		return Resolution{Kind: KindRootModule}
	}

	return Resolution{Kind: KindUnknown}
}
