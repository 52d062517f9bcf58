package ui

import (
	"sort"
	"strings"

	"github.com/haryoiro/tunepanel/internal/structures"
)

// ShortcutHint represents a single keyboard shortcut hint
type ShortcutHint struct {
	Key    string
	Action string
}

// ShortcutFormatter handles formatting of keyboard shortcuts for display
type ShortcutFormatter struct {
	config     *structures.Config
	styleCache map[string]string
}

// NewShortcutFormatter creates a new shortcut formatter with the given config
func NewShortcutFormatter(config *structures.Config) *ShortcutFormatter {
	return &ShortcutFormatter{
		config:     config,
		styleCache: make(map[string]string),
	}
}

// formatKey formats a key binding for display
func (sf *ShortcutFormatter) formatKey(key string) string {
	if formatted, ok := sf.styleCache[key]; ok {
		return formatted
	}

	formatted := key
	switch key {
	case "space":
		formatted = "Space"
	case "enter":
		formatted = "Enter"
	case "esc":
		formatted = "Esc"
	case "tab":
		formatted = "Tab"
	case "up":
		formatted = "↑"
	case "down":
		formatted = "↓"
	case "left":
		formatted = "←"
	case "right":
		formatted = "→"
	default:
		if strings.HasPrefix(key, "ctrl+") {
			formatted = "Ctrl+" + strings.ToUpper(strings.TrimPrefix(key, "ctrl+"))
		} else if strings.HasPrefix(key, "alt+") {
			formatted = "Alt+" + strings.ToUpper(strings.TrimPrefix(key, "alt+"))
		}
	}

	sf.styleCache[key] = formatted
	return formatted
}

// formatKeys formats multiple key bindings, arrows first (["n", "right"] -> "→/n")
func (sf *ShortcutFormatter) formatKeys(keys []string) string {
	sorted := append([]string(nil), keys...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ai, aj := isArrowKey(sorted[i]), isArrowKey(sorted[j])
		if ai != aj {
			return ai
		}
		return sorted[i] < sorted[j]
	})

	formatted := make([]string, len(sorted))
	for i, key := range sorted {
		formatted[i] = sf.formatKey(key)
	}
	return strings.Join(formatted, "/")
}

func isArrowKey(key string) bool {
	return key == "up" || key == "down" || key == "left" || key == "right"
}

// PanelHints returns the shortcuts shown under the panel. Unbound actions
// are left out.
func (sf *ShortcutFormatter) PanelHints() []ShortcutHint {
	kb := sf.config.KeyBindings
	candidates := []ShortcutHint{
		{Key: sf.formatKey(kb.Pause), Action: "pause"},
		{Key: sf.formatKeys(kb.Next), Action: "next"},
		{Key: sf.formatKeys(kb.Prev), Action: "prev"},
		{Key: sf.formatKey(kb.ToggleColor), Action: "color"},
		{Key: sf.formatKeys(kb.Quit), Action: "quit"},
	}

	hints := candidates[:0]
	for _, h := range candidates {
		if h.Key != "" {
			hints = append(hints, h)
		}
	}
	return hints
}

// FormatHints renders hints as one line using the theme
func (sf *ShortcutFormatter) FormatHints(hints []ShortcutHint, tm *ThemeManager) string {
	formatted := make([]string, len(hints))
	for i, hint := range hints {
		formatted[i] = tm.RenderHint(hint.Key, hint.Action)
	}
	return strings.Join(formatted, "  ")
}
