// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the one-shot commands of the
// moe client.
//
// Every command runs against the same app.App the terminal UI uses, so a
// 401 from any command clears the stored session exactly as it would in the
// UI.
//
// # Key Types
//
//   - Command: enumeration of the available commands
//   - Args: global flags plus the command's own arguments
//   - ArgParser: flag and positional parsing shared by every command
//   - Env: the app, output streams and prompter a command runs with
//   - JSONResponse: the envelope printed in --json mode
//
// # Usage
//
//	cmd, args, err := cli.Parse(os.Args[1:])
//	if err != nil {
//	    cli.DisplayError(os.Stderr, err, false)
//	    os.Exit(cli.GetExitCode(err))
//	}
//	env := cli.NewEnv(a, args)
//	err = cli.Execute(ctx, env, cmd)
//
// # Commands Overview
//
// Questions: ask, chat, catalog, knowledge.
// Account: login, logout, signup, forgot-password, reset-password, whoami,
// refresh, profile.
// Plans: plans, subscribe, usage.
// Files: upload, history.
// Client: status, config, version, help.
//
// All commands accept --json.
package cli
