package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/gauge-sh/boundary/internal/check"
	"github.com/gauge-sh/boundary/internal/config"
	"github.com/gauge-sh/boundary/internal/configsync"
	"github.com/gauge-sh/boundary/internal/modules"
)

var syncCommand = &cli.Command{
	Name:  "sync",
	Usage: "Rewrite depends_on to match the project's actual import graph",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "add", Usage: "Only add missing dependency edges; never prune stale modules"},
	},
	Action: withPanicRecovery("sync", runSync),
}

func runSync(c *cli.Context) error {
	configPath := c.String("config")
	proj, err := loadProject(configPath, c.String("root"), c.StringSlice("exclude"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	cfg := proj.cfg
	var deprecated configsync.DeprecatedEdges
	if !c.Bool("add") {
		paths := make([]string, len(proj.tasks))
		for i, t := range proj.tasks {
			paths[i] = t.ImportPath.String()
		}
		known := modules.NewKnownPaths(paths)
		var prunedCfg config.ProjectConfig
		prunedCfg, deprecated = configsync.Prune(cfg, known)
		cfg = &prunedCfg

		// Rebuild the module tree/resolver against the pruned config so
		// the diagnostics AddFromDiagnostics folds back in reflect the
		// modules that actually survived pruning.
		tree := modules.Build(cfg)
		resolver := modules.New(tree, proj.external, known, cfg.RootModuleTreatment)
		proj.tree = tree
		proj.resolver = resolver
	}

	result, err := check.Run(context.Background(), cfg, proj.tree, proj.resolver, proj.external, proj.tasks, check.Options{})
	if err != nil {
		return cli.Exit(err.Error(), 3)
	}

	configsync.AddFromDiagnostics(cfg, result.Diagnostics, deprecated)

	if err := config.Save(cfg, configPath); err != nil {
		return cli.Exit(err.Error(), 3)
	}
	return nil
}
