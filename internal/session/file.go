// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/abdulazeez2247/moe/internal/util"
)

// tokenKey is the field name inside the session file.
const tokenKey = "token"

// storageKey is the fixed key used by the key/value backends.
const storageKey = "moe.session.token"

// FileBackend stores the token in a small JSON document with 0600 permissions.
type FileBackend struct {
	path string
}

// NewFileBackend returns a backend writing to path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the session file location.
func (b *FileBackend) Path() string {
	return b.path
}

// Load reads the token. A missing file means signed out.
func (b *FileBackend) Load() (string, error) {
	data, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session file: %w", err)
	}

	var doc map[string]string
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("corrupt session file %s: %w", b.path, err)
	}
	return doc[tokenKey], nil
}

// Save writes the token atomically.
func (b *FileBackend) Save(token string) error {
	data, err := json.Marshal(map[string]string{tokenKey: token})
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(b.path, data, 0600)
}

// Delete removes the session file.
func (b *FileBackend) Delete() error {
	return util.RemoveIfExists(b.path)
}
