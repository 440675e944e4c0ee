// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings handled before the page sees a key.
type KeyMap struct {
	Quit       key.Binding
	Menu       key.Binding
	Logout     key.Binding
	SwitchPlan key.Binding
	Up         key.Binding
	Down       key.Binding
	Select     key.Binding
	Close      key.Binding
}

// DefaultKeyMap returns the default global bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Menu:       key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "menu")),
		Logout:     key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "sign out")),
		SwitchPlan: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "switch plan")),
		Up:         key.NewBinding(key.WithKeys("up", "k")),
		Down:       key.NewBinding(key.WithKeys("down", "j")),
		Select:     key.NewBinding(key.WithKeys("enter")),
		Close:      key.NewBinding(key.WithKeys("esc", "ctrl+e")),
	}
}
