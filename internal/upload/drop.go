// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

import (
	"net/url"
	"path/filepath"
	"strings"
	"unicode"
)

// ParseDropped splits text pasted by a terminal drag-and-drop into paths.
// Terminals quote paths with spaces or escape them with backslashes, and
// some send file:// URLs. On Windows a backslash is a path separator and is
// kept as is.
func ParseDropped(text string) []string {
	return parseDropped(text, filepath.Separator != '\\')
}

func parseDropped(text string, escapes bool) []string {
	var (
		paths []string
		cur   strings.Builder
		quote rune
		esc   bool
	)
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		paths = append(paths, cleanPath(cur.String()))
		cur.Reset()
	}

	for _, r := range text {
		switch {
		case esc:
			cur.WriteRune(r)
			esc = false
		case escapes && r == '\\' && quote != '\'':
			esc = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
		case unicode.IsSpace(r):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return paths
}

func cleanPath(p string) string {
	if strings.HasPrefix(p, "file://") {
		if u, err := url.Parse(p); err == nil {
			return u.Path
		}
	}
	return p
}
