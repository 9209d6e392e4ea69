package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gauge-sh/boundary/internal/check"
	"github.com/gauge-sh/boundary/internal/config"
	"github.com/gauge-sh/boundary/internal/scan"
	"github.com/gauge-sh/boundary/internal/types"
)

// Dependency is one import statement tying two files together, either
// as a dependency of the reported module (an import it makes) or a
// usage of it (an import someone else makes into it).
type Dependency struct {
	FilePath   string
	AbsPath    string
	LineNumber int
	ImportPath string
}

// DependencyReport is one module's worth of dependency/usage data.
type DependencyReport struct {
	Path         string
	Dependencies []Dependency
	Usages       []Dependency
	Warnings     []string
}

func sortDependencies(deps []Dependency) {
	sort.Slice(deps, func(i, j int) bool {
		if deps[i].FilePath != deps[j].FilePath {
			return deps[i].FilePath < deps[j].FilePath
		}
		return deps[i].LineNumber < deps[j].LineNumber
	})
}

// BuildDependencyReport scans every discovered file once, splitting
// import edges into dependencies of path (imports path's own files
// make) and usages of path (imports elsewhere in the project that
// target path or one of its descendants).
func BuildDependencyReport(ctx context.Context, cfg *config.ProjectConfig, projectRoot string, tasks []check.FileTask, path types.DottedPath) (DependencyReport, error) {
	report := DependencyReport{Path: path.String()}

	for _, task := range tasks {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		underPath := path.IsAncestorOrSelf(task.ImportPath)

		scanner, err := scan.New()
		if err != nil {
			return report, err
		}
		content, err := os.ReadFile(task.AbsPath)
		if err != nil {
			scanner.Close()
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s: %v", task.AbsPath, err))
			continue
		}
		result, err := scanner.Scan(task.AbsPath, content, scan.Options{
			ModulePath:           task.ImportPath,
			IncludeStringImports: cfg.IncludeStringImports,
		})
		scanner.Close()
		if err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s: %v", task.AbsPath, err))
			continue
		}
		for _, d := range result.Diagnostics {
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s:%d: %s", d.FilePath, d.LineNumber, d.Message))
		}

		relPath, relErr := filepath.Rel(projectRoot, task.AbsPath)
		if relErr != nil {
			relPath = task.AbsPath
		}
		relPath = filepath.ToSlash(relPath)

		for _, imp := range result.Imports {
			targetsPath := path.IsAncestorOrSelf(imp.ModulePath)
			line := imp.LineNumber
			if imp.OriginalLineOffset != nil {
				line = *imp.OriginalLineOffset
			}
			dep := Dependency{
				FilePath:   relPath,
				AbsPath:    task.AbsPath,
				LineNumber: line,
				ImportPath: imp.ModulePath.String(),
			}
			switch {
			case underPath:
				report.Dependencies = append(report.Dependencies, dep)
			case targetsPath:
				report.Usages = append(report.Usages, dep)
			}
		}
	}

	sortDependencies(report.Dependencies)
	sortDependencies(report.Usages)
	return report, nil
}

// Render produces the human-readable text the `report` command prints,
// following the same three-section layout (dependencies, usages,
// warnings) the original tool used, minus ANSI color since this
// codebase has no terminal-color dependency to reach for.
func (r DependencyReport) Render(skipDependencies, skipUsages bool, hyperlinks bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[ Dependency Report for %q ]\n-------------------------------\n", r.Path)

	renderSection := func(title string, deps []Dependency) {
		fmt.Fprintf(&b, "[ %s ]\n", title)
		if len(deps) == 0 {
			b.WriteString("No results found.\n")
		} else {
			for _, d := range deps {
				location := fmt.Sprintf("%s:%d", d.FilePath, d.LineNumber)
				if hyperlinks {
					location = Hyperlink(d.FilePath, d.AbsPath, d.LineNumber, location)
				}
				fmt.Fprintf(&b, "%s: import %q\n", location, d.ImportPath)
			}
		}
		b.WriteString("-------------------------------\n")
	}

	if !skipDependencies {
		renderSection(fmt.Sprintf("Dependencies of %q", r.Path), r.Dependencies)
	}
	if !skipUsages {
		renderSection(fmt.Sprintf("Usages of %q", r.Path), r.Usages)
	}
	if len(r.Warnings) > 0 {
		b.WriteString("[ Warnings ]\n")
		for _, w := range r.Warnings {
			b.WriteString(w)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
