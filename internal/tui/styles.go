package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/hostmon/internal/ui"
)

// Style variables for the terminal dashboard.
// Initialized from the ui theme system via initTUIStyles().
var (
	panelStyle       lipgloss.Style
	headerStyle      lipgloss.Style
	titleStyle       lipgloss.Style
	versionStyle     lipgloss.Style
	labelStyle       lipgloss.Style
	valueStyle       lipgloss.Style
	sparklineStyle   lipgloss.Style
	errorStyle       lipgloss.Style
	footerKeyStyle   lipgloss.Style
	footerDescStyle  lipgloss.Style
	statusLiveStyle  lipgloss.Style
	statusPauseStyle lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all dashboard styles from the current ui theme.
// Called at package init and again from Run() after InitTheme has run.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text).
		Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	versionStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	labelStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	valueStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	sparklineStyle = lipgloss.NewStyle().
		Foreground(t.Accent)

	errorStyle = lipgloss.NewStyle().
		Foreground(t.Error).
		Bold(true)

	footerKeyStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	footerDescStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	statusLiveStyle = lipgloss.NewStyle().
		Foreground(t.Success).
		Bold(true)

	statusPauseStyle = lipgloss.NewStyle().
		Foreground(t.Warning).
		Bold(true)
}
