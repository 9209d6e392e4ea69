// Package modules builds the module resolver (an arena of trie nodes
// keyed by dotted-path segment) and answers "what does this import
// target" queries against it, per the design notes: strictly top-down,
// no pointer cycles, interfaces reference modules by dotted path and
// are resolved once at build time.
package modules

import (
	"github.com/gauge-sh/boundary/internal/config"
	"github.com/gauge-sh/boundary/internal/types"
)

// node is one trie position. A node exists for every segment prefix
// that appears in some configured module path, whether or not that
// prefix itself carries a ModuleConfig — e.g. configuring "a.b.c" alone
// still creates transient nodes for "a" and "a.b" so descent works, but
// only "a.b.c" carries Config.
type node struct {
	segment  string
	children map[string]*node
	config   *config.ModuleConfig
	// interfaces is the union of InterfaceConfig entries declaring this
	// module path in from_modules, resolved once at build time.
	interfaces []config.InterfaceConfig
}

// Tree is the immutable trie of configured modules. Safe to share
// across goroutines: nothing on it is mutated after Build returns.
type Tree struct {
	root *node
	// byPath indexes every module-carrying node directly, so path
	// equality lookups skip the segment walk.
	byPath map[string]*node
}

func newNode(segment string) *node {
	return &node{segment: segment, children: map[string]*node{}}
}

// Build inserts every ModuleConfig from cfg into a fresh Tree and
// resolves the interface index against it.
func Build(cfg *config.ProjectConfig) *Tree {
	t := &Tree{root: newNode(""), byPath: map[string]*node{}}
	for i := range cfg.Modules {
		m := &cfg.Modules[i]
		n := t.insert(m.Path)
		n.config = m
		t.byPath[m.Path] = n
	}
	for i := range cfg.Interfaces {
		iface := cfg.Interfaces[i]
		for path, n := range t.byPath {
			if iface.AppliesTo(path) {
				n.interfaces = append(n.interfaces, iface)
			}
		}
	}
	return t
}

func (t *Tree) insert(path string) *node {
	if path == "" || path == types.RootSentinel {
		key := types.RootSentinel
		if existing, ok := t.byPath[key]; ok {
			return existing
		}
		n := newNode(key)
		t.root.children[key] = n
		return n
	}
	segments := types.NewDottedPath(path).Segments()
	cur := t.root
	for _, seg := range segments {
		child, ok := cur.children[seg]
		if !ok {
			child = newNode(seg)
			cur.children[seg] = child
		}
		cur = child
	}
	return cur
}

// Lookup returns the node carrying a ModuleConfig exactly at path, if
// any.
func (t *Tree) Lookup(path types.DottedPath) (*config.ModuleConfig, bool) {
	n, ok := t.byPath[path.String()]
	if !ok || n.config == nil {
		return nil, false
	}
	return n.config, true
}

// NearestAncestor walks path's segments from the root, returning the
// deepest node along the way that carries a ModuleConfig, and whether
// path lands exactly on it.
func (t *Tree) NearestAncestor(path types.DottedPath) (*config.ModuleConfig, bool, bool) {
	segments := path.Segments()
	cur := t.root
	var best *config.ModuleConfig
	depth := 0
	for i, seg := range segments {
		child, ok := cur.children[seg]
		if !ok {
			break
		}
		cur = child
		if cur.config != nil {
			best = cur.config
			depth = i + 1
		}
	}
	if best == nil {
		return nil, false, false
	}
	return best, true, depth == len(segments)
}

// InterfacesFor returns the interfaces declaring modulePath in their
// from_modules list.
func (t *Tree) InterfacesFor(modulePath string) []config.InterfaceConfig {
	n, ok := t.byPath[modulePath]
	if !ok {
		return nil
	}
	return n.interfaces
}

// HasExclusiveInterface reports whether some interface declaring
// modulePath in its from_modules list is marked exclusive, meaning even
// a non-strict importer of modulePath is held to that interface's
// expose patterns.
func (t *Tree) HasExclusiveInterface(modulePath string) bool {
	for _, iface := range t.InterfacesFor(modulePath) {
		if iface.Exclusive {
			return true
		}
	}
	return false
}
