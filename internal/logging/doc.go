// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the zap logger used across moe.
//
// Logs are JSON lines written to a lumberjack-rotated file under the config
// directory (~/.moe/logs/moe.log by default). Nothing is written to the
// terminal because the TUI owns it.
//
// # Key Types
//
//   - Options: file path, level and rotation settings
//
// # Usage
//
//	log, closeLog, err := logging.New(logging.DefaultOptions(path))
//	if err != nil {
//	    return err
//	}
//	defer closeLog()
//	log.Info("started", zap.String("version", version))
package logging
