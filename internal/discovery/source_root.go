package discovery

import (
	"path/filepath"
	"strings"
)

// SourceRoot is a directory path, relative to the project root, under
// which dotted import paths are resolved.
type SourceRoot struct {
	// Rel is the source root as configured (relative to the project
	// root, "." for the project root itself).
	Rel string
	// Abs is Rel resolved against the project root.
	Abs string
}

// packageInitBasenames names the file whose trailing segment collapses
// out of a derived import path — "a/b/__init__.py" is module "a.b", not
// "a.b.__init__".
var packageInitBasenames = map[string]bool{
	"__init__": true,
}

// ImportPathForFile derives a file's dotted import path from the first
// source root (in configured order) that contains it. Returns false if
// no configured root contains the file.
func ImportPathForFile(roots []SourceRoot, absFile string, sourceSuffixes []string) (string, bool) {
	slashFile := filepath.ToSlash(absFile)
	for _, root := range roots {
		rootSlash := filepath.ToSlash(root.Abs)
		rel, ok := relativeUnder(rootSlash, slashFile)
		if !ok {
			continue
		}
		return deriveImportPath(rel, sourceSuffixes), true
	}
	return "", false
}

func relativeUnder(root, file string) (string, bool) {
	root = strings.TrimSuffix(root, "/")
	if root == "" {
		return strings.TrimPrefix(file, "/"), true
	}
	if !strings.HasPrefix(file, root+"/") {
		return "", false
	}
	return strings.TrimPrefix(file, root+"/"), true
}

func deriveImportPath(rel string, sourceSuffixes []string) string {
	for _, suffix := range sourceSuffixes {
		if strings.HasSuffix(rel, suffix) {
			rel = strings.TrimSuffix(rel, suffix)
			break
		}
	}
	segments := strings.Split(rel, "/")
	if len(segments) > 0 && packageInitBasenames[segments[len(segments)-1]] {
		segments = segments[:len(segments)-1]
	}
	return strings.Join(segments, ".")
}

// IsPackageFile reports whether absFile is a package marker file
// (__init__.py) rather than an ordinary module file. A relative import
// inside a package file resolves one segment lower than the same import
// in a plain module, since the collapsed import path already dropped
// the __init__ segment.
func IsPackageFile(absFile string, sourceSuffixes []string) bool {
	base := filepath.Base(filepath.ToSlash(absFile))
	for _, suffix := range sourceSuffixes {
		if strings.HasSuffix(base, suffix) {
			return packageInitBasenames[strings.TrimSuffix(base, suffix)]
		}
	}
	return false
}
