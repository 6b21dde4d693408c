// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program for the instrument dashboard
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the dashboard program for the given device address. The
// caller feeds it StatusMsg/RecordingsMsg/... via Program.Send and waits
// on Program.Run.
func Run(addr string) *tea.Program {
	return tea.NewProgram(NewModel(addr), tea.WithAltScreen())
}
