// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/abdulazeez2247/moe/internal/util"
)

// AnalysisPending is shown for every uploaded file. The client does not poll
// for real results.
const AnalysisPending = "Processing started. Results will be available soon."

// UploadedFile is one entry in the upload view's file list.
type UploadedFile struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"mime_type"`
	Status     string    `json:"status"`
	Analysis   string    `json:"analysis"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// HumanSize renders Size for display ("1.2 MB").
func (f UploadedFile) HumanSize() string {
	return util.HumanBytes(f.Size)
}
