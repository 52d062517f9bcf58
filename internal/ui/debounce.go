package ui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// KeyDebouncer helps prevent key repeat flooding.
type KeyDebouncer struct {
	mu           sync.Mutex
	now          func() time.Time
	lastKeyTime  map[string]time.Time
	repeatDelay  time.Duration
	initialDelay time.Duration
	consecutive  map[string]int
}

// NewKeyDebouncer creates a new key debouncer. now defaults to time.Now.
func NewKeyDebouncer(now func() time.Time) *KeyDebouncer {
	if now == nil {
		now = time.Now
	}
	return &KeyDebouncer{
		now:          now,
		lastKeyTime:  make(map[string]time.Time),
		repeatDelay:  50 * time.Millisecond,
		initialDelay: 300 * time.Millisecond,
		consecutive:  make(map[string]int),
	}
}

// ShouldProcess returns true if the key event should be processed. The
// first few repeats of a held key wait initialDelay, later ones repeatDelay.
func (kd *KeyDebouncer) ShouldProcess(key string) bool {
	kd.mu.Lock()
	defer kd.mu.Unlock()

	now := kd.now()
	last, exists := kd.lastKeyTime[key]
	if !exists || now.Sub(last) > 500*time.Millisecond {
		kd.lastKeyTime[key] = now
		kd.consecutive[key] = 1
		return true
	}

	required := kd.repeatDelay
	if kd.consecutive[key] < 3 {
		required = kd.initialDelay
	}
	if now.Sub(last) < required {
		return false
	}

	kd.consecutive[key]++
	kd.lastKeyTime[key] = now
	return true
}

// Reset clears all debouncer state.
func (kd *KeyDebouncer) Reset() {
	kd.mu.Lock()
	defer kd.mu.Unlock()
	kd.lastKeyTime = make(map[string]time.Time)
	kd.consecutive = make(map[string]int)
}

// getKeyString converts a tea.KeyMsg to the name used in key bindings
func getKeyString(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyUp:
		return "up"
	case tea.KeyDown:
		return "down"
	case tea.KeyLeft:
		return "left"
	case tea.KeyRight:
		return "right"
	case tea.KeyEnter:
		return "enter"
	case tea.KeySpace:
		return "space"
	case tea.KeyTab:
		return "tab"
	case tea.KeyEsc:
		return "esc"
	default:
		return msg.String()
	}
}
