// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration management commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/abdulazeez2247/moe/internal/config"
)

// ConfigEntry is one key/value pair in config output.
type ConfigEntry struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// HandleConfig handles the config command.
//
//	moe config [list]
//	moe config get api.origin
//	moe config set ask.platform cabinet-vision
//	moe config path
func HandleConfig(ctx context.Context, env *Env) error {
	f := env.Args.Flags()
	sub := strings.ToLower(f.Positional(0))

	switch sub {
	case "", "list", "ls", "show":
		return configList(env)
	case "get":
		key := f.Positional(1)
		if key == "" {
			return ErrMissingArgument("key", "moe config get <key>")
		}
		return configGet(env, key)
	case "set":
		key, value := f.Positional(1), JoinPositionalArgs(f, 2)
		if key == "" || value == "" {
			return ErrMissingArgument("key and value", "moe config set <key> <value>")
		}
		return configSet(env, key, value)
	case "path":
		path, err := configFilePath(env)
		if err != nil {
			return err
		}
		return env.emit("config", map[string]string{"path": path}, func() {
			env.println(path)
		})
	}

	return &ValidationError{
		Field:   "subcommand",
		Value:   sub,
		Reason:  "unknown config subcommand",
		Example: "moe config list | get <key> | set <key> <value> | path",
	}
}

func configList(env *Env) error {
	cfg := env.App.Config
	entries := make([]ConfigEntry, 0, len(config.AllKeys()))
	for _, key := range config.AllKeys() {
		v, err := cfg.Get(key)
		if err != nil {
			continue
		}
		entries = append(entries, ConfigEntry{Key: key, Value: v})
	}
	return env.emit("config", entries, func() {
		for _, e := range entries {
			env.printf("%s %v\n", padStyled(RenderConditional(LabelStyle, e.Key), 28), displayValue(e.Value))
		}
	})
}

func configGet(env *Env, key string) error {
	v, err := env.App.Config.Get(key)
	if err != nil {
		return &ValidationError{Field: "key", Value: key, Reason: err.Error(), Example: "moe config list"}
	}
	return env.emit("config", ConfigEntry{Key: key, Value: v}, func() {
		env.println(displayValue(v))
	})
}

// configSet edits the file on disk rather than the loaded config, so
// environment overrides are never persisted.
func configSet(env *Env, key, value string) error {
	path, err := configFilePath(env)
	if err != nil {
		return err
	}

	cfg := config.Default()
	if _, statErr := os.Stat(path); statErr == nil {
		if err := config.LoadTOML(cfg, path); err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if !errors.Is(statErr, os.ErrNotExist) {
		return statErr
	}

	if err := cfg.Set(key, value); err != nil {
		return &ValidationError{Field: key, Value: value, Reason: err.Error(), Example: "moe config list"}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.SaveTOML(cfg, path); err != nil {
		return err
	}

	// Keep the running config in step for anything executed after this.
	_ = env.App.Config.Set(key, value)

	v, _ := cfg.Get(key)
	return env.emit("config", ConfigEntry{Key: key, Value: v}, func() {
		env.info("%s Set %s = %v\n", RenderConditional(SuccessStyle, "✓"), key, displayValue(v))
	})
}

func configFilePath(env *Env) (string, error) {
	if env.Args.ConfigPath != "" {
		return env.Args.ConfigPath, nil
	}
	return config.ConfigPathTOML()
}

func displayValue(v interface{}) string {
	if s, ok := v.(string); ok && s == "" {
		return RenderConditional(DimStyle, "(empty)")
	}
	return fmt.Sprint(v)
}
