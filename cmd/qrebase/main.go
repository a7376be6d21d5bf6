package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/urfave/cli/v3"

	"github.com/kobzarvs/qrebase/internal/app"
)

var version = "dev"

func main() {
	cmd := newCommand(func(ctx context.Context, opts app.Options) error {
		return app.New(opts).Run(ctx)
	})

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintln(os.Stderr, "qrebase:", err)
		os.Exit(1)
	}
}

func newCommand(run func(ctx context.Context, opts app.Options) error) *cli.Command {
	opts := app.Options{}

	return &cli.Command{
		Name:      "qrebase",
		Usage:     "Interactive editor for git rebase todo lists",
		UsageText: "qrebase [options] <path>",
		Description: `Set it as git's sequence editor:

    git config --global sequence.editor qrebase

Files that are not rebase todo lists are handed to the fallback editor.`,
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "command",
				Aliases:     []string{"c"},
				Usage:       "force an editor mode (rebase)",
				Destination: &opts.Command,
			},
			&cli.StringFlag{
				Name:        "editor",
				Usage:       "fallback editor command for non-todo files",
				Destination: &opts.Editor,
			},
			&cli.StringFlag{
				Name:        "config",
				Usage:       "path to config file",
				Sources:     cli.EnvVars("QREBASE_CONFIG"),
				Destination: &opts.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Sources:     cli.EnvVars("QREBASE_LOG_LEVEL"),
				Value:       "info",
				Destination: &opts.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <config-dir>/qrebase.log)",
				Destination: &opts.LogFile,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("expected one file argument, got %d. Run 'qrebase --help' for usage", c.Args().Len())
			}
			opts.Path = c.Args().First()
			return run(ctx, opts)
		},
	}
}
