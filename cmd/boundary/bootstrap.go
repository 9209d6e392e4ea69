package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gauge-sh/boundary/internal/check"
	"github.com/gauge-sh/boundary/internal/config"
	"github.com/gauge-sh/boundary/internal/modules"
	"github.com/gauge-sh/boundary/internal/report"
	"github.com/gauge-sh/boundary/internal/types"
	"github.com/gauge-sh/boundary/pkg/pathmatch"
)

// project bundles everything a command needs after configuration has
// been loaded and the source tree has been discovered once.
type project struct {
	cfg      *config.ProjectConfig
	root     string
	tree     *modules.Tree
	resolver *modules.Resolver
	external *modules.ExternalIndex
	tasks    []check.FileTask
}

// loadProject loads tach.toml (or the given path), folds in extra
// exclude patterns from the --exclude flag, walks every source root,
// and builds the module tree/resolver those files resolve against.
func loadProject(configPath, projectRoot string, extraExcludes []string) (*project, error) {
	absRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve project root %q: %w", projectRoot, err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	warnUnknownConfigKeys(configPath, cfg.UnknownKeys)
	cfg.Exclude = append(cfg.Exclude, extraExcludes...)

	var matcherOpts []pathmatch.Option
	if cfg.DisableDefaultExcludes {
		matcherOpts = append(matcherOpts, pathmatch.WithoutDefaults())
	}
	matcher := pathmatch.NewMatcher(cfg.Exclude, matcherOpts...)
	var gitignore *pathmatch.GitignoreParser
	if cfg.RespectGitignore {
		gitignore = pathmatch.NewGitignoreParser()
		_ = gitignore.LoadGitignore(absRoot)
	}

	tasks, err := check.DiscoverTasks(cfg, absRoot, matcher, gitignore)
	if err != nil {
		return nil, fmt.Errorf("discover source files: %w", err)
	}

	paths := make([]string, len(tasks))
	for i, t := range tasks {
		paths[i] = t.ImportPath.String()
	}
	known := modules.NewKnownPaths(paths)
	tree := modules.Build(cfg)
	external := modules.NewExternalIndex(absRoot, cfg.External.Rename)
	resolver := modules.New(tree, external, known, cfg.RootModuleTreatment)

	return &project{
		cfg:      cfg,
		root:     absRoot,
		tree:     tree,
		resolver: resolver,
		external: external,
		tasks:    tasks,
	}, nil
}

// warnUnknownConfigKeys surfaces every top-level key Parse didn't
// recognize as a Configuration warning, per spec.md §6 ("unknown keys
// produce a Configuration warning, not an error"), rather than letting
// them pass through silently.
func warnUnknownConfigKeys(configPath string, unknownKeys []string) {
	if len(unknownKeys) == 0 {
		return
	}
	diags := make([]types.Diagnostic, len(unknownKeys))
	for i, key := range unknownKeys {
		diags[i] = types.Diagnostic{
			FilePath: configPath,
			Severity: types.SeverityWarning,
			Kind:     types.KindConfiguration,
			Message:  fmt.Sprintf("unknown configuration key %q", key),
		}
	}
	report.PrintDiagnostics(os.Stderr, diags, report.PrintOptions{})
}
