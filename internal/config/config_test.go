package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
log_level = "debug"

[panel]
color = "never"
width = 72
strict_width = true

[key_bindings]
quit = ["x"]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "never", cfg.Panel.Color)
	assert.Equal(t, 72, cfg.Panel.Width)
	assert.True(t, cfg.Panel.StrictWidth)
	assert.Equal(t, []string{"x"}, cfg.KeyBindings.Quit)

	// Untouched keys keep their defaults.
	assert.Equal(t, Default().Panel.Notice, cfg.Panel.Notice)
	assert.Equal(t, Default().KeyBindings.Pause, cfg.KeyBindings.Pause)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"color mode", "[panel]\ncolor = \"sometimes\""},
		{"negative width", "[panel]\nwidth = -1"},
		{"profile", "[panel]\nprofile = \"cga\""},
		{"not toml", "[panel\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadOrCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, created, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, Default(), cfg)
	assert.FileExists(t, path)

	cfg.Panel.Width = 40
	require.NoError(t, Save(cfg, path))

	again, created, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 40, again.Panel.Width)
}

func TestDefaultDirsOverrides(t *testing.T) {
	root := t.TempDir()
	t.Setenv(EnvConfigDir, filepath.Join(root, "cfg"))
	t.Setenv(EnvDataDir, filepath.Join(root, "data"))
	t.Setenv(EnvCacheDir, filepath.Join(root, "cache"))

	dirs := DefaultDirs()
	require.NoError(t, dirs.Ensure())
	assert.DirExists(t, dirs.Config)
	assert.DirExists(t, dirs.Data)
	assert.DirExists(t, dirs.Cache)
	assert.Equal(t, filepath.Join(root, "cfg", "config.toml"), dirs.ConfigFile())
	assert.Equal(t, filepath.Join(root, "data", "songs.db"), dirs.DatabaseFile())
	assert.Equal(t, filepath.Join(root, "data", "tunepanel.log"), dirs.LogFile())
	assert.Equal(t, filepath.Join(root, "cfg", "screen.templ"), dirs.TemplateFile())
}
