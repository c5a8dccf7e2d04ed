// Package util holds small helpers shared by TUI components.
package util

import (
	tea "github.com/charmbracelet/bubbletea/v2"
)

// Model is the interface all components implement.
type Model interface {
	Init() tea.Cmd
	Update(tea.Msg) (tea.Model, tea.Cmd)
	View() string
}

// CmdHandler wraps a message in a command.
func CmdHandler(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

// InfoType classifies transient status messages.
type InfoType int

const (
	InfoTypeInfo InfoType = iota
	InfoTypeWarn
	InfoTypeError
)

// InfoMsg is a transient status message for the user.
type InfoMsg struct {
	Type InfoType
	Msg  string
}

// ReportError surfaces an error to the user as an InfoMsg.
func ReportError(err error) tea.Cmd {
	return CmdHandler(InfoMsg{
		Type: InfoTypeError,
		Msg:  err.Error(),
	})
}

// ReportInfo surfaces an informational message to the user.
func ReportInfo(msg string) tea.Cmd {
	return CmdHandler(InfoMsg{
		Type: InfoTypeInfo,
		Msg:  msg,
	})
}
