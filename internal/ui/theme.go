package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/haryoiro/tunepanel/internal/structures"
)

// ThemeManager manages the styles of the text around the panel
type ThemeManager struct {
	theme structures.Theme

	// Cached styles
	baseStyle   lipgloss.Style
	helpStyle   lipgloss.Style
	keyStyle    lipgloss.Style
	statusStyle lipgloss.Style
}

// NewThemeManager creates a new theme manager with the given theme
func NewThemeManager(theme structures.Theme) *ThemeManager {
	tm := &ThemeManager{theme: theme}
	tm.initStyles()
	return tm
}

func (tm *ThemeManager) initStyles() {
	tm.baseStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(tm.theme.Foreground))

	tm.helpStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(tm.theme.Help)).
		Faint(true)

	tm.keyStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(tm.theme.Foreground)).
		Bold(true)

	tm.statusStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(tm.theme.Status)).
		Bold(true)
}

// Update updates the theme and reinitializes styles
func (tm *ThemeManager) Update(theme structures.Theme) {
	tm.theme = theme
	tm.initStyles()
}

func (tm *ThemeManager) BaseStyle() lipgloss.Style {
	return tm.baseStyle
}

func (tm *ThemeManager) HelpStyle() lipgloss.Style {
	return tm.helpStyle
}

// RenderHint renders one "key action" pair of the help line.
func (tm *ThemeManager) RenderHint(key, action string) string {
	return tm.keyStyle.Render(key) + " " + tm.helpStyle.Render(action)
}

// RenderStatus renders a short marker such as PAUSED.
func (tm *ThemeManager) RenderStatus(text string) string {
	return tm.statusStyle.Render(text)
}
