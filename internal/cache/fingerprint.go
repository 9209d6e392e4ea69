// Package cache implements C6, the on-disk computation cache: a
// content-addressed store keyed by a fingerprint over every input that
// can change an action's output.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"os"
	"path/filepath"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/gauge-sh/boundary/internal/config"
)

// Fingerprint is the 256-bit key an entry is stored under.
type Fingerprint [32]byte

// String renders the fingerprint as lowercase hex.
func (f Fingerprint) String() string {
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, len(f)*2)
	for i, b := range f {
		buf[i*2] = hexDigits[b>>4]
		buf[i*2+1] = hexDigits[b&0x0f]
	}
	return string(buf)
}

// FileHash is one source file's fast content hash, ordered by path.
type FileHash struct {
	Path string
	Sum  uint64
}

// Inputs carries every fingerprint ingredient. SourceFiles may be in any
// order; Compute sorts a copy by Path before hashing.
type Inputs struct {
	InterpreterVersion string
	SourceFiles        []FileHash
	DependencyPins     []string
	FileDependencies   map[string][]byte
	EnvDependencies    map[string]string
	Action             string
}

// Compute derives the fingerprint from Inputs following the ordered
// concatenation the specification lays out: interpreter version, sorted
// per-file content hashes, dependency pins, resolved file_dependencies
// globs, listed env_dependencies values, and the action label. Each
// section is length-prefixed so that no ambiguity crosses a boundary
// (e.g. an empty env var value can't be confused with a missing one).
func Compute(in Inputs) Fingerprint {
	h := sha256.New()

	writeString(h, in.InterpreterVersion)

	files := append([]FileHash(nil), in.SourceFiles...)
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	writeUint(h, uint64(len(files)))
	for _, f := range files {
		writeString(h, f.Path)
		writeUint(h, f.Sum)
	}

	pins := append([]string(nil), in.DependencyPins...)
	sort.Strings(pins)
	writeUint(h, uint64(len(pins)))
	for _, p := range pins {
		writeString(h, p)
	}

	fileDepKeys := make([]string, 0, len(in.FileDependencies))
	for k := range in.FileDependencies {
		fileDepKeys = append(fileDepKeys, k)
	}
	sort.Strings(fileDepKeys)
	writeUint(h, uint64(len(fileDepKeys)))
	for _, k := range fileDepKeys {
		writeString(h, k)
		writeBytes(h, in.FileDependencies[k])
	}

	envKeys := make([]string, 0, len(in.EnvDependencies))
	for k := range in.EnvDependencies {
		envKeys = append(envKeys, k)
	}
	sort.Strings(envKeys)
	writeUint(h, uint64(len(envKeys)))
	for _, k := range envKeys {
		writeString(h, k)
		writeString(h, in.EnvDependencies[k])
	}

	writeString(h, in.Action)

	var out Fingerprint
	copy(out[:], h.Sum(nil))
	return out
}

func writeString(h interface{ Write([]byte) (int, error) }, s string) {
	writeBytes(h, []byte(s))
}

func writeBytes(h interface{ Write([]byte) (int, error) }, b []byte) {
	writeUint(h, uint64(len(b)))
	_, _ = h.Write(b)
}

func writeUint(h interface{ Write([]byte) (int, error) }, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = h.Write(buf[:])
}

// HashFile computes a file's fast xxhash content sum, the same
// algorithm the teacher's content store uses for cheap equality checks
// ahead of the slower SHA-256 fingerprint pass.
func HashFile(content []byte) uint64 {
	return xxhash.Sum64(content)
}

// EnvValues reads the current process environment for every listed
// name, using an empty string for anything unset so that "unset" and
// "set to empty" are still distinguished from "not listed" by the
// caller's key set.
func EnvValues(names []string) map[string]string {
	out := make(map[string]string, len(names))
	for _, name := range names {
		out[name] = os.Getenv(name)
	}
	return out
}

// FileDependencyContents resolves every cache.file_dependencies glob
// against projectRoot and reads each matched file's bytes.
func FileDependencyContents(cfg *config.CacheConfig, projectRoot string) (map[string][]byte, error) {
	out := map[string][]byte{}
	for _, pattern := range cfg.FileDependencies {
		matches, err := filepath.Glob(filepath.Join(projectRoot, pattern))
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			content, err := os.ReadFile(m)
			if err != nil {
				return nil, err
			}
			rel, err := filepath.Rel(projectRoot, m)
			if err != nil {
				rel = m
			}
			out[filepath.ToSlash(rel)] = content
		}
	}
	return out, nil
}
