package pathmatch

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// GitignoreParser applies .gitignore rules found at the project root,
// additively on top of the configured exclude patterns, when the
// project config sets respect_gitignore.
type GitignoreParser struct {
	patterns []gitignorePattern
}

type gitignorePattern struct {
	raw       string
	negate    bool
	directory bool
	absolute  bool
}

// NewGitignoreParser returns an empty parser; call LoadGitignore to
// populate it.
func NewGitignoreParser() *GitignoreParser {
	return &GitignoreParser{}
}

// LoadGitignore reads rootPath/.gitignore, if present. A missing file is
// not an error — it simply contributes no patterns.
func (gp *GitignoreParser) LoadGitignore(rootPath string) error {
	f, err := os.Open(filepath.Join(rootPath, ".gitignore"))
	if err != nil {
		return nil
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		gp.patterns = append(gp.patterns, parsePattern(line))
	}
	return scanner.Err()
}

// AddPattern registers a single raw gitignore-syntax line, primarily for
// tests.
func (gp *GitignoreParser) AddPattern(line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}
	gp.patterns = append(gp.patterns, parsePattern(line))
}

func parsePattern(line string) gitignorePattern {
	p := gitignorePattern{}
	if strings.HasPrefix(line, "!") {
		p.negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.directory = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		p.absolute = true
		line = line[1:]
	}
	p.raw = line
	return p
}

// ShouldIgnore reports whether path (relative to the project root,
// forward slashes) is ignored, applying patterns in file order so a
// later "!" negation can override an earlier match.
func (gp *GitignoreParser) ShouldIgnore(path string, isDir bool) bool {
	path = filepath.ToSlash(path)
	ignored := false
	for _, p := range gp.patterns {
		if matchesGitignorePattern(p, path, isDir) {
			ignored = !p.negate
		}
	}
	return ignored
}

func matchesGitignorePattern(p gitignorePattern, path string, isDir bool) bool {
	candidate := path
	pattern := p.raw
	if !strings.Contains(pattern, "/") {
		// Unanchored pattern: matches at any depth, like git does.
		pattern = "**/" + pattern
	} else if p.absolute {
		// already anchored to root
	} else if !strings.HasPrefix(pattern, "**/") {
		pattern = "**/" + pattern
	}

	if ok, _ := doublestar.Match(pattern, candidate); ok {
		return true
	}
	// Directory patterns also match anything nested beneath them.
	if ok, _ := doublestar.Match(pattern+"/**", candidate); ok {
		return true
	}
	_ = isDir
	return false
}
