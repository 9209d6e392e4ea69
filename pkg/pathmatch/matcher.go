// Package pathmatch compiles the project's exclude globs and tests
// whether a candidate path is excluded. Patterns are glob-style: "*"
// matches any run of non-separator characters, "**" matches any run
// including separators. A path is excluded if any pattern matches it as
// a prefix of the path's segments from the project root.
package pathmatch

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludes covers compiled-artifact directories, build outputs,
// and virtual-environment directories. They are always added to a
// Matcher unless the caller passes WithoutDefaults to NewMatcher.
var DefaultExcludes = []string{
	"**/__pycache__/**",
	"**/__pycache__",
	"**/*.egg-info/**",
	"**/*.egg-info",
	"**/.venv/**",
	"**/venv/**",
	"**/node_modules/**",
	"**/.git/**",
	"**/build/**",
	"**/dist/**",
	"**/.tox/**",
	"**/.mypy_cache/**",
	"**/.pytest_cache/**",
}

// Matcher tests paths against a compiled set of glob exclude patterns.
type Matcher struct {
	patterns []string
}

// Option configures NewMatcher.
type Option func(*matcherConfig)

type matcherConfig struct {
	skipDefaults bool
}

// WithoutDefaults disables the always-on default exclude set.
func WithoutDefaults() Option {
	return func(c *matcherConfig) { c.skipDefaults = true }
}

// NewMatcher compiles patterns (in addition to DefaultExcludes, unless
// WithoutDefaults is passed) into a Matcher. Patterns are validated
// eagerly: an invalid glob is dropped rather than causing every match to
// panic, matching the teacher's tolerant-parse convention.
func NewMatcher(patterns []string, opts ...Option) *Matcher {
	cfg := matcherConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	all := make([]string, 0, len(patterns)+len(DefaultExcludes))
	if !cfg.skipDefaults {
		all = append(all, DefaultExcludes...)
	}
	all = append(all, patterns...)

	compiled := make([]string, 0, len(all))
	for _, p := range all {
		norm := normalize(p)
		if _, err := doublestar.Match(norm, "sanity/check"); err != nil {
			continue
		}
		compiled = append(compiled, norm)
	}

	return &Matcher{patterns: compiled}
}

// normalize forces forward slashes regardless of host OS, per the
// matching contract: paths are normalized before matching.
func normalize(p string) string {
	return filepath.ToSlash(strings.TrimPrefix(p, "./"))
}

// Excluded reports whether path (relative to the project root, forward
// or backward slashes accepted) matches any compiled pattern, either as
// a whole-path match or as a match against a leading prefix of its
// segments — so a directory-level exclude also excludes every path
// beneath it without ever having to walk into it.
func (m *Matcher) Excluded(path string) bool {
	norm := normalize(path)
	segments := strings.Split(norm, "/")

	for _, pattern := range m.patterns {
		if ok, _ := doublestar.Match(pattern, norm); ok {
			return true
		}
		// Prefix check: does the pattern match any ancestor directory of
		// path? This lets a bare "build" or "**/build" style pattern
		// exclude an entire subtree without requiring a trailing "/**".
		for i := 1; i <= len(segments); i++ {
			prefix := strings.Join(segments[:i], "/")
			if ok, _ := doublestar.Match(pattern, prefix); ok {
				return true
			}
			if ok, _ := doublestar.Match(strings.TrimSuffix(pattern, "/**"), prefix); ok {
				return true
			}
		}
	}
	return false
}
