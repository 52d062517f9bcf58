package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/haryoiro/tunepanel/internal/constants"
	"github.com/haryoiro/tunepanel/internal/logger"
	"github.com/haryoiro/tunepanel/internal/panel"
	"github.com/haryoiro/tunepanel/internal/structures"
	"github.com/haryoiro/tunepanel/internal/systems"
)

// colorStateKey is the app_state key remembering the color toggle.
const colorStateKey = "color"

type Model struct {
	systems      *systems.Systems
	config       *structures.Config
	panel        *panel.Panel
	warnings     *panel.WarningLog
	themeManager *ThemeManager
	shortcuts    *ShortcutFormatter
	debouncer    *KeyDebouncer

	colorEnabled bool
	width        int
	height       int
	refresh      time.Duration
}

type tickMsg time.Time

// NewModel creates the live panel view. colorEnabled is the detected
// color setting; in auto mode a toggle saved by an earlier run wins.
func NewModel(sys *systems.Systems, config *structures.Config, p *panel.Panel, colorEnabled bool) *Model {
	m := &Model{
		systems:      sys,
		config:       config,
		panel:        p,
		warnings:     panel.NewWarningLog(),
		themeManager: NewThemeManager(config.Theme),
		shortcuts:    NewShortcutFormatter(config),
		debouncer:    NewKeyDebouncer(nil),
		colorEnabled: colorEnabled,
		width:        constants.DefaultWidth,
		refresh:      refreshInterval(config.Panel.RefreshMs),
	}

	if config.Panel.Color == constants.ColorAuto && sys.Database != nil {
		if v, ok := sys.Database.GetAppState(colorStateKey); ok {
			m.colorEnabled = v == "on"
		}
	}
	return m
}

// Run runs the live panel until the user quits
func Run(sys *systems.Systems, config *structures.Config, p *panel.Panel, colorEnabled bool) error {
	m := NewModel(sys, config, p, colorEnabled)
	prog := tea.NewProgram(m)
	if _, err := prog.Run(); err != nil {
		return err
	}
	return nil
}

func refreshInterval(ms int) time.Duration {
	if ms <= 0 {
		return constants.DefaultRefresh
	}
	return max(time.Duration(ms)*time.Millisecond, constants.MinRefresh)
}

func (m *Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		logger.Debug("Window resized to %dx%d", msg.Width, msg.Height)

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tickMsg:
		return m, m.tickCmd()
	}

	return m, nil
}

// panelWidth is the configured width, or the window width when unset.
func (m *Model) panelWidth() int {
	if m.config.Panel.Width > 0 {
		return m.config.Panel.Width
	}
	return max(m.width, constants.MinPanelWidth)
}

func (m *Model) View() string {
	width := m.panelWidth()
	md := m.systems.Session.Metadata()

	// One row is kept for the help line.
	frame := m.panel.RenderRows(md, width, m.height-1, m.colorEnabled)
	m.warnings.Report(frame.Warnings)

	var b strings.Builder
	b.WriteString(frame.String())
	b.WriteString("\n")
	b.WriteString(m.helpLine(width))
	return b.String()
}

func (m *Model) helpLine(width int) string {
	line := m.shortcuts.FormatHints(m.shortcuts.PanelHints(), m.themeManager)
	if st := m.systems.Session.State(); st.Paused && len(st.Queue) > 0 {
		line = m.themeManager.RenderStatus("PAUSED") + "  " + line
	}
	if !m.colorEnabled {
		line = ansi.Strip(line)
	}
	return ansi.Truncate(line, width, "…")
}

func (m *Model) toggleColor() {
	m.colorEnabled = !m.colorEnabled
	value := "off"
	if m.colorEnabled {
		value = "on"
	}
	if db := m.systems.Database; db != nil {
		if err := db.SaveAppState(colorStateKey, value); err != nil {
			logger.Warn("Failed to save color setting: %v", err)
		}
	}
}
