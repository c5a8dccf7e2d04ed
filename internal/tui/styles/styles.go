// Package styles holds the lipgloss theme for the TUI.
package styles

import (
	"image/color"

	"github.com/charmbracelet/lipgloss/v2"
)

// Theme holds the color palette and derived styles.
type Theme struct {
	Primary color.Color
	Accent  color.Color
	Muted   color.Color
	Success color.Color
	Error   color.Color
	Warning color.Color

	styles *Styles
}

// Styles are the pre-built lipgloss styles components render with.
type Styles struct {
	Base         lipgloss.Style
	Title        lipgloss.Style
	Muted        lipgloss.Style
	Focused      lipgloss.Style
	FocusMarker  lipgloss.Style
	SwipeApprove lipgloss.Style
	SwipeReject  lipgloss.Style
	Toast        lipgloss.Style
	StatusBar    lipgloss.Style
}

var current = func() *Theme {
	t := &Theme{
		Primary: lipgloss.Color("15"),
		Accent:  lipgloss.Color("141"),
		Muted:   lipgloss.Color("243"),
		Success: lipgloss.Color("78"),
		Error:   lipgloss.Color("203"),
		Warning: lipgloss.Color("215"),
	}
	t.styles = &Styles{
		Base:         lipgloss.NewStyle().Foreground(t.Primary),
		Title:        lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		Muted:        lipgloss.NewStyle().Foreground(t.Muted),
		Focused:      lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		FocusMarker:  lipgloss.NewStyle().Foreground(t.Accent),
		SwipeApprove: lipgloss.NewStyle().Foreground(t.Success),
		SwipeReject:  lipgloss.NewStyle().Foreground(t.Error),
		Toast:        lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		StatusBar:    lipgloss.NewStyle().Foreground(t.Muted),
	}
	return t
}()

// CurrentTheme returns the active theme.
func CurrentTheme() *Theme {
	return current
}

// S returns the theme's styles.
func (t *Theme) S() *Styles {
	return t.styles
}
