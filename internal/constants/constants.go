package constants

import "time"

const AppName = "tunepanel"

// Timing constants
const (
	DefaultRefresh   = 250 * time.Millisecond
	MinRefresh       = 50 * time.Millisecond
	ProbeTimeout     = 5 * time.Second
	UnknownSongPause = 3 * time.Minute // how long a song of unknown length plays
)

const SecondsPerMinute = 60

// UI constants
const (
	DefaultWidth  = 80
	MinPanelWidth = 10
)

// Color modes accepted by the panel.color setting
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// File names under the XDG directories
const (
	ConfigFileName   = "config.toml"
	DatabaseFileName = "songs.db"
	LogFileName      = "tunepanel.log"
	TemplateFileName = "screen.templ"
)

// Status counter shown while the queue is being indexed
const IndexingText = "indexing..."
