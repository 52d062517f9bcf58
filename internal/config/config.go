package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/haryoiro/tunepanel/internal/constants"
	"github.com/haryoiro/tunepanel/internal/structures"
	"github.com/pelletier/go-toml/v2"
)

// Environment overrides for the XDG locations.
const (
	EnvConfigDir = "TUNEPANEL_CONFIG_DIR"
	EnvDataDir   = "TUNEPANEL_DATA_DIR"
	EnvCacheDir  = "TUNEPANEL_CACHE_DIR"
)

// Dirs holds the directories the application reads and writes.
type Dirs struct {
	Config string
	Data   string
	Cache  string
}

// DefaultDirs resolves the XDG base directories, honouring the
// TUNEPANEL_*_DIR overrides.
func DefaultDirs() Dirs {
	pick := func(env, base string) string {
		if dir := os.Getenv(env); dir != "" {
			return dir
		}
		return filepath.Join(base, constants.AppName)
	}
	return Dirs{
		Config: pick(EnvConfigDir, xdg.ConfigHome),
		Data:   pick(EnvDataDir, xdg.DataHome),
		Cache:  pick(EnvCacheDir, xdg.CacheHome),
	}
}

// Ensure creates the directories.
func (d Dirs) Ensure() error {
	for _, dir := range []string{d.Config, d.Data, d.Cache} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

func (d Dirs) ConfigFile() string   { return filepath.Join(d.Config, constants.ConfigFileName) }
func (d Dirs) DatabaseFile() string { return filepath.Join(d.Data, constants.DatabaseFileName) }
func (d Dirs) LogFile() string      { return filepath.Join(d.Data, constants.LogFileName) }

// TemplateFile is where a user template is looked up when the config does
// not name one.
func (d Dirs) TemplateFile() string { return filepath.Join(d.Config, constants.TemplateFileName) }

// Load loads the configuration from a TOML file
func Load(path string) (*structures.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrCreate loads path, writing the defaults there first when the file
// does not exist yet. created reports whether that happened.
func LoadOrCreate(path string) (cfg *structures.Config, created bool, err error) {
	cfg, err = Load(path)
	if err == nil {
		return cfg, false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, false, err
	}
	cfg = Default()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return cfg, false, err
	}
	if err := Save(cfg, path); err != nil {
		return cfg, false, err
	}
	return cfg, true, nil
}

// Save saves the configuration to a TOML file
func Save(cfg *structures.Config, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings the panel cannot work with.
func Validate(cfg *structures.Config) error {
	var errs []error
	switch strings.ToLower(cfg.Panel.Color) {
	case constants.ColorAuto, constants.ColorAlways, constants.ColorNever:
	default:
		errs = append(errs, fmt.Errorf("panel.color: want auto, always or never, got %q", cfg.Panel.Color))
	}
	switch strings.ToLower(cfg.Panel.Profile) {
	case "", "auto", "truecolor", "ansi256", "ansi", "ascii":
	default:
		errs = append(errs, fmt.Errorf("panel.profile: unknown profile %q", cfg.Panel.Profile))
	}
	if cfg.Panel.Width < 0 {
		errs = append(errs, fmt.Errorf("panel.width: must not be negative"))
	}
	if cfg.Panel.Height < 0 {
		errs = append(errs, fmt.Errorf("panel.height: must not be negative"))
	}
	if cfg.Panel.RefreshMs < 0 {
		errs = append(errs, fmt.Errorf("panel.refresh_ms: must not be negative"))
	}
	return errors.Join(errs...)
}

// Default returns the default configuration
func Default() *structures.Config {
	return &structures.Config{
		LogLevel: "info",
		Panel: structures.PanelConfig{
			Notice:    "NEXT: $next_song",
			Color:     constants.ColorAuto,
			Profile:   "auto",
			RefreshMs: int(constants.DefaultRefresh.Milliseconds()),
		},
		Theme: structures.Theme{
			Foreground: "#c0caf5", // Tokyo Night foreground
			Help:       "#565f89", // Tokyo Night dark gray
			Status:     "#e0af68", // Tokyo Night yellow
		},
		KeyBindings: structures.KeyBindings{
			Quit:        []string{"q", "ctrl+c"},
			Next:        []string{"n", "right"},
			Prev:        []string{"p", "left"},
			Pause:       "space",
			ToggleColor: "c",
		},
	}
}
