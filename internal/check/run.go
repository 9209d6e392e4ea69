package check

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gauge-sh/boundary/internal/config"
	"github.com/gauge-sh/boundary/internal/discovery"
	"github.com/gauge-sh/boundary/internal/modules"
	"github.com/gauge-sh/boundary/internal/scan"
	"github.com/gauge-sh/boundary/internal/types"
	"github.com/gauge-sh/boundary/pkg/pathmatch"
)

// FileTask is one unit of dispatched work: a discovered source file
// plus its already-derived import path.
type FileTask struct {
	AbsPath    string
	ImportPath types.DottedPath
	// IsPackage is true for a __init__.py, whose collapsed ImportPath
	// already names the package itself rather than a child module.
	IsPackage bool
}

// RunResult is the fully assembled outcome of one check run.
type RunResult struct {
	Diagnostics []types.Diagnostic
	// Interrupted is true when a SIGINT cut the run short after the
	// in-flight batch finished.
	Interrupted bool
}

// Run dispatches scan+check across a bounded worker pool, one goroutine
// per available CPU, matching the concurrency model in spec.md §5: file
// discovery has already happened by the time Run is called, so only
// per-file scan+check work is parallelized here.
func Run(ctx context.Context, cfg *config.ProjectConfig, tree *modules.Tree, resolver *modules.Resolver, external *modules.ExternalIndex, tasks []FileTask, opts Options) (RunResult, error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	checker := New(cfg, tree, resolver, external, opts)

	var mu sync.Mutex
	var allDiags []types.Diagnostic
	var allEdges []Edge
	directivesSeen := map[string]*types.IgnoreDirective{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	interrupted := false
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			select {
			case <-gctx.Done():
				interrupted = true
				return nil
			default:
			}

			scanner, err := scan.New()
			if err != nil {
				return fmt.Errorf("check: %s: %w", task.AbsPath, err)
			}
			defer scanner.Close()

			content, err := os.ReadFile(task.AbsPath)
			if err != nil {
				return fmt.Errorf("check: %s: %w", task.AbsPath, err)
			}

			scanResult, err := scanner.Scan(task.AbsPath, content, scan.Options{
				ModulePath:           task.ImportPath,
				IsPackage:            task.IsPackage,
				IncludeStringImports: cfg.IncludeStringImports,
			})
			if err != nil {
				mu.Lock()
				allDiags = append(allDiags, types.Diagnostic{
					FilePath: task.AbsPath,
					Severity: types.SeverityError,
					Kind:     types.KindConfiguration,
					Message:  err.Error(),
				})
				mu.Unlock()
				return nil
			}

			fileResult := checker.CheckFile(task.AbsPath, task.ImportPath, scanResult.Imports)

			mu.Lock()
			allDiags = append(allDiags, scanResult.Diagnostics...)
			allDiags = append(allDiags, fileResult.Diagnostics...)
			allEdges = append(allEdges, fileResult.EdgesUsed...)
			for _, imp := range scanResult.Imports {
				if imp.Ignore != nil {
					key := fmt.Sprintf("%s:%d", task.AbsPath, imp.Ignore.CommentLine)
					directivesSeen[key] = imp.Ignore
				}
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return RunResult{}, err
	}

	allDiags = append(allDiags, unusedIgnoreDiagnostics(cfg, directivesSeen)...)

	if cfg.ForbidCircularDependencies {
		allDiags = append(allDiags, FindCycles(allEdges)...)
	}
	if opts.Exact {
		allDiags = append(allDiags, UnusedDependencyDiagnostics(cfg, allEdges)...)
	}
	if opts.External {
		allDiags = append(allDiags, UnusedExternalDependencyDiagnostics(cfg, allEdges)...)
	}

	sortDiagnostics(allDiags)
	allDiags = dedupeDiagnostics(allDiags)

	return RunResult{Diagnostics: allDiags, Interrupted: interrupted}, nil
}

// unusedIgnoreDiagnostics reports every boundary-ignore comment that
// never suppressed a diagnostic, and every directive missing a reason
// when rules.require_ignore_directive_reasons is enabled.
func unusedIgnoreDiagnostics(cfg *config.ProjectConfig, seen map[string]*types.IgnoreDirective) []types.Diagnostic {
	var diags []types.Diagnostic
	unusedSeverity, unusedEnabled := cfg.Rules.UnusedIgnoreDirectives.Severity()
	reasonSeverity, reasonEnabled := cfg.Rules.RequireIgnoreDirectiveReasons.Severity()

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		d := seen[k]
		if unusedEnabled && !d.Used {
			diags = append(diags, types.Diagnostic{
				LineNumber: d.CommentLine,
				Severity:   unusedSeverity,
				Kind:       types.KindUnused,
				Message:    "boundary-ignore directive did not suppress any diagnostic",
			})
		}
		if reasonEnabled && !d.HasReason {
			diags = append(diags, types.Diagnostic{
				LineNumber: d.CommentLine,
				Severity:   reasonSeverity,
				Kind:       types.KindConfiguration,
				Message:    "boundary-ignore directive is missing a reason",
			})
		}
	}
	return diags
}

func sortDiagnostics(diags []types.Diagnostic) {
	sort.Slice(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		if a.LineNumber != b.LineNumber {
			return a.LineNumber < b.LineNumber
		}
		if a.ImportModPath != b.ImportModPath {
			return a.ImportModPath < b.ImportModPath
		}
		return a.Severity < b.Severity
	})
}

func dedupeDiagnostics(diags []types.Diagnostic) []types.Diagnostic {
	out := diags[:0]
	var prev *types.Diagnostic
	for i := range diags {
		d := diags[i]
		if prev != nil && *prev == d {
			continue
		}
		out = append(out, d)
		prevCopy := d
		prev = &prevCopy
	}
	return out
}

// DiscoverTasks walks every configured source root and derives each
// file's dotted import path, ready for Run.
func DiscoverTasks(cfg *config.ProjectConfig, projectRoot string, matcher *pathmatch.Matcher, gitignore *pathmatch.GitignoreParser) ([]FileTask, error) {
	absRoots := config.AbsoluteSourceRoots(cfg, projectRoot)
	roots := make([]discovery.SourceRoot, 0, len(cfg.SourceRoots))
	for i, rel := range cfg.SourceRoots {
		roots = append(roots, discovery.SourceRoot{Rel: rel, Abs: absRoots[i]})
	}

	var tasks []FileTask
	for _, root := range roots {
		files, err := discovery.Walk(root.Abs, discovery.Options{
			Matcher:          matcher,
			Gitignore:        gitignore,
			RespectGitignore: cfg.RespectGitignore,
			FollowSymlinks:   true,
		})
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			path, ok := discovery.ImportPathForFile(roots, f, discovery.SourceSuffixes)
			if !ok {
				continue
			}
			tasks = append(tasks, FileTask{
				AbsPath:    f,
				ImportPath: types.NewDottedPath(path),
				IsPackage:  discovery.IsPackageFile(f, discovery.SourceSuffixes),
			})
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].AbsPath < tasks[j].AbsPath })
	return tasks, nil
}
