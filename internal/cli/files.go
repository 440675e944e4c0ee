// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// files.go - File upload commands (paid plans).
package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/abdulazeez2247/moe/internal/model"
	"github.com/abdulazeez2247/moe/internal/upload"
)

// UploadData is the payload of the upload command.
type UploadData struct {
	Uploaded []model.UploadedFile `json:"uploaded"`
	Failed   []FailureData        `json:"failed,omitempty"`
}

// FailureData is one file that did not upload.
type FailureData struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// expandPaths applies shell-style globs the shell left alone (quoted
// arguments, Windows). Patterns matching nothing are kept so the upload
// reports them as unreadable.
func expandPaths(args []string) []string {
	var out []string
	for _, a := range args {
		if strings.ContainsAny(a, "*?[") {
			if matches, err := filepath.Glob(a); err == nil && len(matches) > 0 {
				out = append(out, matches...)
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

// HandleUpload uploads project files for analysis. The free plan is refused
// before any file is read or sent.
//
//	moe upload kitchen.cabx export.xml
func HandleUpload(ctx context.Context, env *Env) error {
	f := env.Args.Flags()
	paths := expandPaths(f.PositionalFrom(0))
	if len(paths) == 0 {
		return ErrMissingArgument("file", "moe upload project.cabx")
	}
	if err := env.requireSession(); err != nil {
		return err
	}
	syncPlan(ctx, env)

	up := env.App.NewUploader()
	if err := up.Gate(); err != nil {
		return &PlanError{Message: upload.UpgradePrompt, Err: err}
	}

	cctx, cancel := env.call(ctx)
	defer cancel()
	batch := up.UploadPaths(cctx, paths)
	up.Apply(batch)

	data := UploadData{Uploaded: up.Files()}
	for _, fl := range batch.Failures {
		data.Failed = append(data.Failed, FailureData{Name: fl.Name, Message: fl.Message})
	}
	if err := env.emit("upload", data, func() {
		for _, file := range data.Uploaded {
			env.printf("%s %s (%s)\n", RenderStatus("ok"), file.Name, file.HumanSize())
			env.printf("    %s\n", RenderConditional(DimStyle, file.Analysis))
		}
		for _, fl := range data.Failed {
			env.printf("%s %s\n", RenderStatus("fail"), fl.Message)
		}
	}); err != nil {
		return err
	}

	if len(batch.Failures) > 0 {
		return &CommandError{
			Command: "upload",
			Action:  "send",
			Reason:  batch.Message(),
			Err:     batch.Failures[0].Err,
		}
	}
	return nil
}

// HandleHistory lists files uploaded earlier.
func HandleHistory(ctx context.Context, env *Env) error {
	if err := env.requireSession(); err != nil {
		return err
	}
	cctx, cancel := env.call(ctx)
	defer cancel()
	files, err := env.App.NewUploader().History(cctx)
	if err != nil {
		return err
	}
	return env.emit("history", files, func() {
		if len(files) == 0 {
			env.println("No uploads yet.")
			return
		}
		for _, file := range files {
			env.printf("%s  %s  %s  %s\n",
				padStyled(file.Name, 32),
				padStyled(file.HumanSize(), 9),
				RenderStatus(file.Status),
				RenderConditional(DimStyle, humanize.Time(file.UploadedAt)))
		}
	})
}
