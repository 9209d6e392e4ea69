package modules

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// stdlibTopLevel names the top-level importable packages of a recent
// CPython standard library. Not exhaustive, but covers the modules a
// real project's imports actually hit; anything missing here just
// falls through to the declared-dependency check, which is the safer
// direction to be wrong in.
var stdlibTopLevel = buildStdlibSet(
	"abc", "argparse", "array", "ast", "asyncio", "atexit", "base64", "bisect",
	"builtins", "bz2", "calendar", "collections", "colorsys", "compileall",
	"concurrent", "configparser", "contextlib", "contextvars", "copy",
	"copyreg", "csv", "ctypes", "dataclasses", "datetime", "decimal",
	"difflib", "dis", "doctest", "email", "encodings", "enum", "errno",
	"faulthandler", "fcntl", "filecmp", "fileinput", "fnmatch", "fractions",
	"ftplib", "functools", "gc", "getopt", "getpass", "gettext", "glob",
	"graphlib", "gzip", "hashlib", "heapq", "hmac", "html", "http", "idlelib",
	"imaplib", "importlib", "inspect", "io", "ipaddress", "itertools", "json",
	"keyword", "lib2to3", "linecache", "locale", "logging", "lzma",
	"mailbox", "mimetypes", "mmap", "multiprocessing", "netrc", "numbers",
	"operator", "os", "pathlib", "pdb", "pickle", "pickletools", "pkgutil",
	"platform", "plistlib", "poplib", "pprint", "profile", "pstats", "pty",
	"pwd", "py_compile", "pyclbr", "pydoc", "queue", "quopri", "random",
	"re", "reprlib", "resource", "sched", "secrets", "select", "selectors",
	"shelve", "shlex", "shutil", "signal", "site", "smtplib", "socket",
	"socketserver", "sqlite3", "ssl", "stat", "statistics", "string",
	"stringprep", "struct", "subprocess", "sunau", "symtable", "sys",
	"sysconfig", "syslog", "tarfile", "tempfile", "termios", "textwrap",
	"threading", "time", "timeit", "tkinter", "token", "tokenize", "tomllib",
	"trace", "traceback", "tracemalloc", "tty", "turtle", "types",
	"typing", "unicodedata", "unittest", "urllib", "uuid", "venv",
	"warnings", "wave", "weakref", "webbrowser", "wsgiref", "xml", "xmlrpc",
	"zipapp", "zipfile", "zipimport", "zlib", "zoneinfo", "__future__",
	"_thread", "_typeshed",
)

func buildStdlibSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// ExternalIndex answers "is this top-level import name a known
// third-party or standard-library package, and under what distribution
// name". Built once from the project's manifest and immutable after.
type ExternalIndex struct {
	// declared maps a normalized distribution name to itself, for
	// membership checks against a module's depends_on_external list.
	declared map[string]bool
	// rename maps an import-time top-level name to its distribution
	// name, from external.rename entries (e.g. "PIL" -> "pillow").
	rename map[string]string
	// pins holds every dependency spec string exactly as the manifest
	// wrote it (name plus version constraint), so a cache fingerprint
	// can be sensitive to a pin change without re-reading the manifest.
	pins []string
}

var packageNameSplit = regexp.MustCompile(`[ =<>~;\[]`)

// NewExternalIndex parses projectRoot/pyproject.toml (if present) for
// declared dependencies and applies the given rename table.
func NewExternalIndex(projectRoot string, rename map[string]string) *ExternalIndex {
	idx := &ExternalIndex{declared: map[string]bool{}, rename: map[string]string{}}
	for k, v := range rename {
		idx.rename[k] = v
	}

	data, err := os.ReadFile(filepath.Join(projectRoot, "pyproject.toml"))
	if err != nil {
		return idx
	}
	var doc struct {
		Project struct {
			Dependencies []string `toml:"dependencies"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Dependencies map[string]interface{} `toml:"dependencies"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return idx
	}
	for _, dep := range doc.Project.Dependencies {
		idx.declared[normalizePackageName(extractPackageName(dep))] = true
		idx.pins = append(idx.pins, dep)
	}
	if len(doc.Project.Dependencies) == 0 {
		for name, constraint := range doc.Tool.Poetry.Dependencies {
			norm := normalizePackageName(name)
			if norm == "python" {
				continue
			}
			idx.declared[norm] = true
			idx.pins = append(idx.pins, name+"@"+poetryConstraintString(constraint))
		}
	}
	sort.Strings(idx.pins)
	return idx
}

// poetryConstraintString renders a Poetry dependency table entry (a
// bare version string, or a table with a "version" key) as text for
// pinning purposes.
func poetryConstraintString(v interface{}) string {
	switch c := v.(type) {
	case string:
		return c
	case map[string]interface{}:
		if version, ok := c["version"].(string); ok {
			return version
		}
	}
	return fmt.Sprintf("%v", v)
}

// Pins returns every declared dependency's raw version spec, sorted for
// determinism. Used as a computation-cache fingerprint ingredient so a
// changed pin invalidates cached results even when no source file did.
func (idx *ExternalIndex) Pins() []string {
	return append([]string(nil), idx.pins...)
}

// IsStdlib reports whether topLevelName is a standard-library package.
func (idx *ExternalIndex) IsStdlib(topLevelName string) bool {
	return stdlibTopLevel[topLevelName]
}

// DistributionName returns the distribution name a top-level import
// name maps to, applying the rename table when present.
func (idx *ExternalIndex) DistributionName(topLevelName string) string {
	if renamed, ok := idx.rename[topLevelName]; ok {
		return renamed
	}
	return normalizePackageName(topLevelName)
}

// IsDeclared reports whether a distribution name appears in the
// project's manifest.
func (idx *ExternalIndex) IsDeclared(distributionName string) bool {
	return idx.declared[distributionName]
}

func extractPackageName(dep string) string {
	loc := packageNameSplit.FindStringIndex(dep)
	if loc == nil {
		return dep
	}
	return dep[:loc[0]]
}

// normalizePackageName follows PyPI's distribution-name normalization:
// lowercase, with runs of whitespace/hyphen/underscore collapsed to a
// single underscore.
func normalizePackageName(name string) string {
	var b strings.Builder
	prevSep := true
	for _, r := range strings.ToLower(name) {
		if r == ' ' || r == '-' || r == '_' {
			if !prevSep {
				b.WriteByte('_')
			}
			prevSep = true
			continue
		}
		b.WriteRune(r)
		prevSep = false
	}
	return strings.Trim(b.String(), "_")
}
