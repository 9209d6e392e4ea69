package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/gauge-sh/boundary/internal/check"
	"github.com/gauge-sh/boundary/internal/report"
	"github.com/gauge-sh/boundary/internal/types"
	"github.com/gauge-sh/boundary/internal/watch"
)

var checkCommand = &cli.Command{
	Name:  "check",
	Usage: "Check every import against the project's boundary rules",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "dependencies", Usage: "Show only Dependency/Deprecated diagnostics"},
		&cli.BoolFlag{Name: "interfaces", Usage: "Show only Interface diagnostics"},
		&cli.BoolFlag{Name: "exact", Usage: "Also report depends_on entries no import actually uses"},
		&cli.BoolFlag{Name: "json", Usage: "Print diagnostics as a schema-validated JSON document"},
		&cli.BoolFlag{Name: "watch", Usage: "Re-run the check whenever a source file changes"},
	},
	Action: withPanicRecovery("check", runCheck),
}

var checkExternalCommand = &cli.Command{
	Name:  "check-external",
	Usage: "Check every import against depends_on_external / cannot_depend_on_external",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "json", Usage: "Print diagnostics as a schema-validated JSON document"},
	},
	Action: withPanicRecovery("check-external", runCheckExternal),
}

func runCheck(c *cli.Context) error {
	proj, err := loadProject(c.String("config"), c.String("root"), c.StringSlice("exclude"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	run := func() (check.RunResult, error) {
		return check.Run(context.Background(), proj.cfg, proj.tree, proj.resolver, proj.external, proj.tasks,
			check.Options{Exact: c.Bool("exact")})
	}

	if c.Bool("watch") {
		return runCheckWatch(c, proj, run)
	}

	result, err := run()
	if err != nil {
		return cli.Exit(err.Error(), 3)
	}
	diags := filterCheckDiagnostics(result.Diagnostics, c.Bool("dependencies"), c.Bool("interfaces"))
	return emitCheckResult(c, proj, diags)
}

func runCheckExternal(c *cli.Context) error {
	proj, err := loadProject(c.String("config"), c.String("root"), nil)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	result, err := check.Run(context.Background(), proj.cfg, proj.tree, proj.resolver, proj.external, proj.tasks,
		check.Options{External: true})
	if err != nil {
		return cli.Exit(err.Error(), 3)
	}
	return emitCheckResult(c, proj, result.Diagnostics)
}

func runCheckWatch(c *cli.Context, proj *project, run func() (check.RunResult, error)) error {
	roots := make([]string, 0, len(proj.cfg.SourceRoots))
	for _, r := range proj.cfg.SourceRoots {
		if r == "." {
			roots = append(roots, proj.root)
			continue
		}
		roots = append(roots, proj.root+string(os.PathSeparator)+r)
	}

	renderOnce := func(changed []string) {
		if len(changed) > 0 {
			fmt.Printf("--- rerunning check (%d file(s) changed) ---\n", len(changed))
		}
		result, err := run()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		diags := filterCheckDiagnostics(result.Diagnostics, c.Bool("dependencies"), c.Bool("interfaces"))
		report.PrintDiagnostics(os.Stdout, diags, report.PrintOptions{ProjectRoot: proj.root, Hyperlinks: report.IsTerminal(os.Stdout)})
	}

	w, err := watch.New(roots, watch.DefaultDebounce, renderOnce)
	if err != nil {
		return cli.Exit(err.Error(), 3)
	}
	defer w.Close()

	renderOnce(nil)

	if err := w.Run(context.Background()); err != nil {
		return cli.Exit(err.Error(), 3)
	}
	return nil
}

func filterCheckDiagnostics(diags []types.Diagnostic, dependenciesOnly, interfacesOnly bool) []types.Diagnostic {
	if !dependenciesOnly && !interfacesOnly {
		return diags
	}
	var out []types.Diagnostic
	for _, d := range diags {
		switch {
		case dependenciesOnly && (d.Kind == types.KindDependency || d.Kind == types.KindDeprecated):
			out = append(out, d)
		case interfacesOnly && d.Kind == types.KindInterfaceViolation:
			out = append(out, d)
		}
	}
	return out
}

// emitCheckResult prints diags per --json and returns a cli.Exit whose
// code matches §7: 1 when any error diagnostic is present, 0 otherwise.
func emitCheckResult(c *cli.Context, proj *project, diags []types.Diagnostic) error {
	if c.Bool("json") {
		out, err := report.MarshalValidated(report.ToReport(diags))
		if err != nil {
			return cli.Exit(err.Error(), 3)
		}
		fmt.Println(string(out))
	} else {
		report.PrintDiagnostics(os.Stdout, diags, report.PrintOptions{
			ProjectRoot: proj.root,
			Hyperlinks:  report.IsTerminal(os.Stdout),
		})
	}

	for _, d := range diags {
		if d.Severity == types.SeverityError {
			return cli.Exit("", 1)
		}
	}
	return nil
}
