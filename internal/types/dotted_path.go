// Package types holds the small value types shared across the boundary
// checker: dotted import paths and the sentinel used for the implicit
// root module.
package types

import "strings"

// RootSentinel is the dotted path that denotes the catch-all module for
// code outside every declared module.
const RootSentinel = "<root>"

// DottedPath is an ordered sequence of identifier segments separated by
// ".". Equality is segment-wise.
type DottedPath struct {
	segments []string
}

// NewDottedPath splits a raw "a.b.c" string into a DottedPath. An empty
// string produces a zero-segment path (the project root itself).
func NewDottedPath(raw string) DottedPath {
	if raw == "" {
		return DottedPath{}
	}
	return DottedPath{segments: strings.Split(raw, ".")}
}

// FromSegments builds a DottedPath directly from its segments, taking
// ownership of the slice.
func FromSegments(segments []string) DottedPath {
	return DottedPath{segments: segments}
}

// String renders the path back to dotted form.
func (p DottedPath) String() string {
	return strings.Join(p.segments, ".")
}

// Segments returns the underlying segment slice. Callers must not mutate
// it.
func (p DottedPath) Segments() []string {
	return p.segments
}

// Len returns the number of segments.
func (p DottedPath) Len() int {
	return len(p.segments)
}

// Empty reports whether the path has no segments.
func (p DottedPath) Empty() bool {
	return len(p.segments) == 0
}

// Equal reports segment-wise equality.
func (p DottedPath) Equal(other DottedPath) bool {
	if len(p.segments) != len(other.segments) {
		return false
	}
	for i, s := range p.segments {
		if s != other.segments[i] {
			return false
		}
	}
	return true
}

// IsAncestorOf reports whether p's segments are a strict prefix of
// other's segments.
func (p DottedPath) IsAncestorOf(other DottedPath) bool {
	if len(p.segments) >= len(other.segments) {
		return false
	}
	for i, s := range p.segments {
		if s != other.segments[i] {
			return false
		}
	}
	return true
}

// IsAncestorOrSelf reports IsAncestorOf(other) || Equal(other).
func (p DottedPath) IsAncestorOrSelf(other DottedPath) bool {
	return p.Equal(other) || p.IsAncestorOf(other)
}

// Parent returns the path with its last segment removed, and whether a
// parent exists (false for a zero-segment path).
func (p DottedPath) Parent() (DottedPath, bool) {
	if len(p.segments) == 0 {
		return DottedPath{}, false
	}
	return DottedPath{segments: p.segments[:len(p.segments)-1]}, true
}

// Join appends a single segment and returns the new path.
func (p DottedPath) Join(segment string) DottedPath {
	next := make([]string, len(p.segments)+1)
	copy(next, p.segments)
	next[len(p.segments)] = segment
	return DottedPath{segments: next}
}

// JoinDotted appends a raw "a.b" string as one or more segments and
// returns the new path.
func (p DottedPath) JoinDotted(raw string) DottedPath {
	if raw == "" {
		return p
	}
	parts := strings.Split(raw, ".")
	next := make([]string, len(p.segments)+len(parts))
	copy(next, p.segments)
	copy(next[len(p.segments):], parts)
	return DottedPath{segments: next}
}

// Leaf returns the final segment, or "" for a zero-segment path.
func (p DottedPath) Leaf() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// IsRoot reports whether this path is the root-module sentinel.
func (p DottedPath) IsRoot() bool {
	return len(p.segments) == 1 && p.segments[0] == RootSentinel
}

// RootPath returns the sentinel DottedPath for the implicit root module.
func RootPath() DottedPath {
	return NewDottedPath(RootSentinel)
}
