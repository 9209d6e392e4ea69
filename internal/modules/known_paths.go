package modules

import "github.com/gauge-sh/boundary/internal/types"

// KnownPaths indexes every dotted import path file discovery actually
// found under the project's source roots. The resolver consults it to
// tell a merely-unmoduled project file (KindRootModule) apart from a
// name that resolves to nothing at all (KindUnknown) — a distinction
// the trie of configured modules alone can't make, since an unmoduled
// file by definition has no trie entry.
type KnownPaths struct {
	root *pathNode
}

type pathNode struct {
	children map[string]*pathNode
	terminal bool
}

// NewKnownPaths builds an index from every file's derived import path
// (as produced by the discovery walk).
func NewKnownPaths(filePaths []string) *KnownPaths {
	kp := &KnownPaths{root: &pathNode{children: map[string]*pathNode{}}}
	for _, p := range filePaths {
		kp.insert(types.NewDottedPath(p))
	}
	return kp
}

func (kp *KnownPaths) insert(path types.DottedPath) {
	cur := kp.root
	for _, seg := range path.Segments() {
		child, ok := cur.children[seg]
		if !ok {
			child = &pathNode{children: map[string]*pathNode{}}
			cur.children[seg] = child
		}
		cur = child
	}
	cur.terminal = true
}

// Contains reports whether path is a real file's import path, or a
// package prefix of one (so "a.b" is contained when "a.b.c" was
// inserted, matching how a package directory itself is importable).
func (kp *KnownPaths) Contains(path types.DottedPath) bool {
	cur := kp.root
	for _, seg := range path.Segments() {
		child, ok := cur.children[seg]
		if !ok {
			return false
		}
		cur = child
	}
	return true
}
