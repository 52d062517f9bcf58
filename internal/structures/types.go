package structures

import (
	"time"
)

// Song is a playable file and whatever could be learned about it.
type Song struct {
	Path       string        `json:"path"`
	Title      string        `json:"title,omitempty"`
	Composer   string        `json:"composer,omitempty"`
	Game       string        `json:"game,omitempty"`
	Format     string        `json:"format"` // upper-cased type, e.g. "MP3" or "MOD"
	Length     time.Duration `json:"length"` // zero when unknown
	SampleRate int           `json:"sample_rate,omitempty"`
	SubSongs   int           `json:"sub_songs"`
	ProbedAt   time.Time     `json:"probed_at"`
}

// LoadStatus is the indexing state of the song queue.
type LoadStatus int

const (
	Indexing LoadStatus = iota
	Ready
	LoadFailed
)

// SessionState is a snapshot of the playback session.
type SessionState struct {
	Queue   []Song
	Current int
	Paused  bool
	Elapsed time.Duration
	Status  LoadStatus
	Loaded  int
}

// Config represents the application configuration
type Config struct {
	Panel       PanelConfig `toml:"panel"`
	Theme       Theme       `toml:"theme"`
	KeyBindings KeyBindings `toml:"key_bindings"`

	LogLevel string `toml:"log_level"` // debug/info/warn/error
}

// PanelConfig controls how the status panel is rendered.
type PanelConfig struct {
	TemplatePath string `toml:"template_path"` // empty uses the built-in template
	Notice       string `toml:"notice"`        // one-line notice under the panel
	Color        string `toml:"color"`         // auto, always or never
	Width        int    `toml:"width"`         // 0 follows the terminal
	Height       int    `toml:"height"`        // 0 grows to the window in the live view
	StrictWidth  bool   `toml:"strict_width"`  // reject mismatched lines at startup
	RefreshMs    int    `toml:"refresh_ms"`
	Profile      string `toml:"profile"` // auto, truecolor, ansi256, ansi or ascii
	DefaultColor string `toml:"default_color"`
}

// Theme represents the styling of the text around the panel
type Theme struct {
	Foreground string `toml:"foreground"` // Default text color
	Help       string `toml:"help"`       // Key help line
	Status     string `toml:"status"`     // Pause and error markers
}

// KeyBindings represents configurable keyboard shortcuts
type KeyBindings struct {
	Quit        []string `toml:"quit"`
	Next        []string `toml:"next"`
	Prev        []string `toml:"prev"`
	Pause       string   `toml:"pause"`
	ToggleColor string   `toml:"toggle_color"`
}

// SoundAction represents actions that can be sent to the session
type SoundAction interface{}

// Session actions
type PlayPauseAction struct{}
type NextAction struct{ Skip int }
type PreviousAction struct{ Skip int }
type JumpToIndexAction struct{ Index int }
type ReplaceQueueAction struct{ Songs []Song }
type SongResolvedAction struct {
	Index int
	Song  Song
}
type LoadFinishedAction struct{ Failed int }
