// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pages

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the page-level key bindings.
type KeyMap struct {
	Submit   key.Binding
	Next     key.Binding
	Prev     key.Binding
	Back     key.Binding
	Left     key.Binding
	Right    key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Upgrade  key.Binding
	VoteUp   key.Binding
	VoteDown key.Binding
	Clear    key.Binding
	Remove   key.Binding
	Cycle    key.Binding
	Card     key.Binding
	Forgot   key.Binding
	Switch   key.Binding
}

// DefaultKeyMap returns the default page bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Next:     key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "choose")),
		Right:    key.NewBinding(key.WithKeys("right", "l")),
		Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓", "select")),
		Down:     key.NewBinding(key.WithKeys("down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup/pgdn", "scroll")),
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		Upgrade:  key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "view plans")),
		VoteUp:   key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "helpful")),
		VoteDown: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "not helpful")),
		Clear:    key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "clear")),
		Remove:   key.NewBinding(key.WithKeys("ctrl+x", "delete"), key.WithHelp("ctrl+x", "remove")),
		Cycle:    key.NewBinding(key.WithKeys("c", "ctrl+b"), key.WithHelp("c", "monthly/yearly")),
		Card:     key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "pay by card")),
		Forgot:   key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "forgot password")),
		Switch:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "switch")),
	}
}

// help flattens bindings into key/description pairs.
func help(bindings ...key.Binding) []string {
	out := make([]string, 0, len(bindings)*2)
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		out = append(out, h.Key, h.Desc)
	}
	return out
}
