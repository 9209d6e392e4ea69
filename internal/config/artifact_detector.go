// Build artifact detection, adapted from a multi-language detector down
// to this tool's single target language: read pyproject.toml (if
// present) to learn the distribution name, so its generated
// "<name>.egg-info" build directory can be added to the default
// excludes without the user having to spell it out.
package config

import (
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// ArtifactDetector finds this project's own build-output directory
// names from its packaging metadata.
type ArtifactDetector struct {
	projectRoot string
}

// NewArtifactDetector returns a detector rooted at projectRoot.
func NewArtifactDetector(projectRoot string) *ArtifactDetector {
	return &ArtifactDetector{projectRoot: projectRoot}
}

// DetectExcludes returns extra glob exclude patterns inferred from
// pyproject.toml's [project].name, or nil if no such metadata is found
// or it can't be parsed. Failure to read/parse is never fatal — this is
// a convenience, not a correctness requirement.
func (d *ArtifactDetector) DetectExcludes() []string {
	data, err := os.ReadFile(filepath.Join(d.projectRoot, "pyproject.toml"))
	if err != nil {
		return nil
	}

	var doc struct {
		Project struct {
			Name string `toml:"name"`
		} `toml:"project"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil
	}
	if doc.Project.Name == "" {
		return nil
	}

	eggInfo := strings.ReplaceAll(doc.Project.Name, "-", "_") + ".egg-info"
	return []string{"**/" + eggInfo, "**/build", "**/dist"}
}
