package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/haryoiro/tunepanel/internal/logger"
	"github.com/haryoiro/tunepanel/internal/structures"
)

// isKey checks if the pressed key matches the configured keybinding
func (m *Model) isKey(msg tea.KeyMsg, key string) bool {
	if key == "" {
		return false
	}

	switch key {
	case "ctrl+c":
		return msg.Type == tea.KeyCtrlC
	case "space":
		return msg.Type == tea.KeySpace
	case "enter":
		return msg.Type == tea.KeyEnter
	case "esc":
		return msg.Type == tea.KeyEsc
	case "up":
		return msg.Type == tea.KeyUp
	case "down":
		return msg.Type == tea.KeyDown
	case "left":
		return msg.Type == tea.KeyLeft
	case "right":
		return msg.Type == tea.KeyRight
	default:
		return msg.String() == key
	}
}

// isKeyInList checks if the pressed key matches any of the configured keybindings
func (m *Model) isKeyInList(msg tea.KeyMsg, bindings []string) bool {
	for _, binding := range bindings {
		if m.isKey(msg, binding) {
			return true
		}
	}
	return false
}

// handleKeyPress maps a key to a session action
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kb := m.config.KeyBindings
	logger.Debug("Key event: type=%d, string=%s", msg.Type, msg.String())

	if m.isKeyInList(msg, kb.Quit) {
		return m, tea.Quit
	}

	switch {
	case m.isKey(msg, kb.Pause):
		m.systems.Session.SendAction(structures.PlayPauseAction{})

	case m.isKeyInList(msg, kb.Next):
		if m.debouncer.ShouldProcess(getKeyString(msg)) {
			m.systems.Session.SendAction(structures.NextAction{Skip: 1})
		}

	case m.isKeyInList(msg, kb.Prev):
		if m.debouncer.ShouldProcess(getKeyString(msg)) {
			m.systems.Session.SendAction(structures.PreviousAction{Skip: 1})
		}

	case m.isKey(msg, kb.ToggleColor):
		m.toggleColor()
	}

	return m, nil
}
