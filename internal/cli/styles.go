package cli

import "github.com/charmbracelet/lipgloss"

// Styles for human-readable command output. Lipgloss degrades to plain
// text on non-TTY writers, so --json stays the format for machines.
var (
	styleHeader = lipgloss.NewStyle().Bold(true)
	stylePass   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleFail   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleWarn   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleMuted  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
