// Command boundary enforces the dependency, layer, visibility, and
// interface rules declared in a project's tach.toml against its actual
// import graph.
package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/urfave/cli/v2"

	"github.com/gauge-sh/boundary/internal/diaglog"
	"github.com/gauge-sh/boundary/internal/version"
)

func main() {
	app := &cli.App{
		Name:                   "boundary",
		Usage:                  "Enforce module boundaries in a Python codebase",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to the project configuration file",
				Value: "tach.toml",
			},
			&cli.StringFlag{
				Name:  "root",
				Usage: "Project root directory",
				Value: ".",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Additional glob patterns to exclude, comma or repeat separated",
			},
			&cli.StringFlag{
				Name:   "profile-cpu",
				Usage:  "Write a CPU profile to this file",
				Hidden: true,
			},
		},
		Before: func(c *cli.Context) error {
			if p := c.String("profile-cpu"); p != "" {
				f, err := os.Create(p)
				if err != nil {
					return cli.Exit(fmt.Sprintf("failed to create CPU profile: %v", err), 3)
				}
				if err := pprof.StartCPUProfile(f); err != nil {
					f.Close()
					return cli.Exit(fmt.Sprintf("failed to start CPU profile: %v", err), 3)
				}
			}
			return nil
		},
		After: func(c *cli.Context) error {
			if c.String("profile-cpu") != "" {
				pprof.StopCPUProfile()
			}
			return nil
		},
		Commands: []*cli.Command{
			checkCommand,
			checkExternalCommand,
			reportCommand,
			syncCommand,
			testCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withPanicRecovery wraps a cli.ActionFunc so that a panic anywhere in
// the core surfaces as exit code 3 (§7) instead of crashing the process
// or being mistaken for exit code 1.
func withPanicRecovery(name string, action cli.ActionFunc) cli.ActionFunc {
	return func(c *cli.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				diaglog.Log(name, "panic recovered: %v", r)
				err = cli.Exit(fmt.Sprintf("internal error in %s: %v", name, r), 3)
			}
		}()
		return action(c)
	}
}
