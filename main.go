// moe - millwork answers in the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/abdulazeez2247/moe/internal/app"
	"github.com/abdulazeez2247/moe/internal/cli"
	"github.com/abdulazeez2247/moe/internal/config"
	"github.com/abdulazeez2247/moe/internal/ui"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes one invocation and returns the process exit code.
func run(argv []string) int {
	cmd, args, err := cli.Parse(argv)
	if err != nil {
		cli.DisplayError(os.Stderr, err, args.JSON)
		if !args.JSON {
			fmt.Fprintln(os.Stderr, "Run 'moe help' for usage.")
		}
		return cli.GetExitCode(err)
	}

	if !cmd.NeedsApp() {
		if err := cli.Execute(context.Background(), cli.NewEnv(nil, args), cmd); err != nil {
			cli.DisplayError(os.Stderr, err, args.JSON)
			return cli.GetExitCode(err)
		}
		return cli.ExitSuccess
	}

	cfg, err := loadConfig(args)
	if err != nil {
		cli.DisplayError(os.Stderr, err, args.JSON)
		return cli.ExitConfigError
	}

	a, err := app.New(cfg, app.Options{Version: Version, Verbose: args.Verbose})
	if err != nil {
		cli.DisplayError(os.Stderr, err, args.JSON)
		return cli.ExitConfigError
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cmd == cli.CmdTUI {
		err = ui.Run(ctx, a)
	} else {
		err = cli.Execute(ctx, cli.NewEnv(a, args), cmd)
	}
	if err != nil {
		cli.DisplayError(os.Stderr, err, args.JSON)
		return cli.GetExitCode(err)
	}
	return cli.ExitSuccess
}

// loadConfig reads .env files, then the config file (--config or the
// default location), then applies --origin on top.
func loadConfig(args cli.Args) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}

	var cfg *config.Config
	var err error
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if args.Origin != "" {
		cfg.API.Origin = args.Origin
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid --origin: %w", err)
		}
	}
	return cfg, nil
}
