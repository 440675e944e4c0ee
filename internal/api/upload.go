// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// Upload sends one file as the "file" field of a multipart form. The part's
// content type is sniffed from content.
func (c *Client) Upload(ctx context.Context, name string, content []byte) (*UploadRecord, error) {
	payload, contentType, err := multipartFile(name, content)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	body, err := c.do(ctx, request{
		op:          "upload",
		method:      http.MethodPost,
		path:        "/upload/upload",
		raw:         payload,
		contentType: contentType,
	}, nil)
	if err != nil {
		return nil, err
	}
	var out UploadRecord
	if err := decodeField(body, &out, "file"); err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	return &out, nil
}

// History lists the caller's previous uploads.
func (c *Client) History(ctx context.Context) ([]UploadRecord, error) {
	body, err := c.do(ctx, request{op: "upload-history", method: http.MethodGet, path: "/upload/history"}, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[UploadRecord](body, "files", "uploads", "history")
}

func multipartFile(name string, content []byte) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(name)))
	h.Set("Content-Type", mimetype.Detect(content).String())

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(content); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
