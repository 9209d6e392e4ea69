package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/gauge-sh/boundary/internal/report"
	"github.com/gauge-sh/boundary/internal/types"
)

var reportCommand = &cli.Command{
	Name:      "report",
	Usage:     "Print a module's dependencies, usages, and warnings",
	ArgsUsage: "PATH",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "no-deps", Usage: "Omit the dependencies section"},
		&cli.BoolFlag{Name: "no-usages", Usage: "Omit the usages section"},
	},
	Action: withPanicRecovery("report", runReport),
}

func runReport(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("usage: boundary report PATH", 2)
	}
	rawPath := c.Args().First()
	path := types.NewDottedPath(rawPath)

	proj, err := loadProject(c.String("config"), c.String("root"), c.StringSlice("exclude"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	if _, ok := proj.tree.Lookup(path); !ok {
		if suggestion := report.SuggestModulePath(rawPath, proj.cfg.ModulePaths()); suggestion != "" {
			return cli.Exit(fmt.Sprintf("unknown module %q; did you mean %q?", rawPath, suggestion), 2)
		}
	}

	dr, err := report.BuildDependencyReport(context.Background(), proj.cfg, proj.root, proj.tasks, path)
	if err != nil {
		return cli.Exit(err.Error(), 3)
	}

	fmt.Fprint(os.Stdout, dr.Render(c.Bool("no-deps"), c.Bool("no-usages"), report.IsTerminal(os.Stdout)))
	return nil
}
