// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"fmt"
	"io"
)

// OpenBackend constructs the backend named by kind ("file", "sqlite" or
// "memory"). The returned closer is non-nil for backends holding resources.
func OpenBackend(kind, path string) (Backend, io.Closer, error) {
	switch kind {
	case "", "file":
		if path == "" {
			return nil, nil, fmt.Errorf("file session backend needs a path")
		}
		return NewFileBackend(path), nil, nil
	case "sqlite":
		if path == "" {
			return nil, nil, fmt.Errorf("sqlite session backend needs a path")
		}
		b, err := OpenSQLiteBackend(path)
		if err != nil {
			return nil, nil, err
		}
		return b, b, nil
	case "memory":
		return NewMemoryBackend(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", kind)
	}
}
