// Package discovery walks the project's source roots and yields
// candidate source files, respecting configured excludes and (when
// enabled) .gitignore rules. It never descends into an excluded
// directory, so excluded subtrees cost nothing beyond the initial stat.
package discovery

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/gauge-sh/boundary/pkg/pathmatch"
)

// SourceSuffixes are the file extensions this tool treats as target
// language source. ".pyi" stub files are excluded: they never contain
// runtime import statements worth checking.
var SourceSuffixes = []string{".py"}

// Options configures a Walk.
type Options struct {
	Matcher          *pathmatch.Matcher
	Gitignore        *pathmatch.GitignoreParser
	RespectGitignore bool
	FollowSymlinks   bool
}

// Walk enumerates every regular source file under root (a project-root
// relative or absolute directory), in deterministic lexicographic order
// per directory, skipping excluded subtrees entirely.
func Walk(root string, opts Options) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var files []string
	visitedDirs := map[string]bool{}

	var visit func(dir string) error
	visit = func(dir string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil // unreadable directory: skip, don't abort the run
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			info, err := entry.Info()
			if err != nil {
				continue
			}

			isSymlink := info.Mode()&os.ModeSymlink != 0
			if isSymlink {
				if !opts.FollowSymlinks {
					continue
				}
				resolved, err := filepath.EvalSymlinks(path)
				if err != nil {
					continue
				}
				real, err := os.Stat(resolved)
				if err != nil {
					continue
				}
				info = real
				path = resolved
			}

			rel, err := filepath.Rel(absRoot, path)
			if err != nil {
				rel = path
			}
			rel = filepath.ToSlash(rel)

			if info.IsDir() {
				if opts.Matcher != nil && opts.Matcher.Excluded(rel) {
					continue
				}
				if opts.RespectGitignore && opts.Gitignore != nil && opts.Gitignore.ShouldIgnore(rel, true) {
					continue
				}
				canon, err := filepath.EvalSymlinks(path)
				if err == nil {
					if visitedDirs[canon] {
						continue // guard against symlink cycles
					}
					visitedDirs[canon] = true
				}
				if err := visit(path); err != nil {
					return err
				}
				continue
			}

			if !hasSourceSuffix(entry.Name()) {
				continue
			}
			if opts.Matcher != nil && opts.Matcher.Excluded(rel) {
				continue
			}
			if opts.RespectGitignore && opts.Gitignore != nil && opts.Gitignore.ShouldIgnore(rel, false) {
				continue
			}
			files = append(files, path)
		}
		return nil
	}

	if err := visit(absRoot); err != nil {
		return nil, err
	}
	return files, nil
}

func hasSourceSuffix(name string) bool {
	for _, suffix := range SourceSuffixes {
		if len(name) > len(suffix) && name[len(name)-len(suffix):] == suffix {
			return true
		}
	}
	return false
}
