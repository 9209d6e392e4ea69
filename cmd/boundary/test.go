package main

import (
	"context"
	"os"
	"runtime"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/gauge-sh/boundary/internal/cache"
)

var testCommand = &cli.Command{
	Name:      "test",
	Usage:     "Run an action through the computation cache, replaying a hit verbatim",
	ArgsUsage: "<action> [-- args...]",
	Action:    withPanicRecovery("test", runTest),
}

func runTest(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("usage: boundary test <action> [args...]", 2)
	}
	action := c.Args().First()
	actionArgs := c.Args().Tail()

	proj, err := loadProject(c.String("config"), c.String("root"), c.StringSlice("exclude"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	files := make([]cache.FileHash, 0, len(proj.tasks))
	for _, t := range proj.tasks {
		content, err := os.ReadFile(t.AbsPath)
		if err != nil {
			return cli.Exit(err.Error(), 3)
		}
		files = append(files, cache.FileHash{Path: t.ImportPath.String(), Sum: cache.HashFile(content)})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	fileDeps, err := cache.FileDependencyContents(&proj.cfg.Cache, proj.root)
	if err != nil {
		return cli.Exit(err.Error(), 3)
	}

	fp := cache.Compute(cache.Inputs{
		InterpreterVersion: runtime.Version(),
		SourceFiles:        files,
		DependencyPins:     proj.external.Pins(),
		FileDependencies:   fileDeps,
		EnvDependencies:    cache.EnvValues(proj.cfg.Cache.EnvDependencies),
		Action:             action,
	})

	store, err := cache.Open(cache.Root(proj.root))
	if err != nil {
		return cli.Exit(err.Error(), 3)
	}

	result, err := cache.RunAction(context.Background(), store, fp, action, actionArgs, os.Stdout, os.Stderr)
	if err != nil {
		return cli.Exit(err.Error(), 3)
	}
	if result.Entry.ExitCode != 0 {
		return cli.Exit("", result.Entry.ExitCode)
	}
	return nil
}
