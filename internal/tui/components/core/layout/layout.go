// Package layout defines the sizing and focus contracts components share.
package layout

import (
	tea "github.com/charmbracelet/bubbletea/v2"
)

// Sizeable is implemented by components that can be resized.
type Sizeable interface {
	SetSize(width, height int) tea.Cmd
	GetSize() (int, int)
}

// Focusable is implemented by components that track focus.
type Focusable interface {
	Focus() tea.Cmd
	Blur() tea.Cmd
	IsFocused() bool
}
