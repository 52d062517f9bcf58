package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/haryoiro/tunepanel/internal/config"
	"github.com/haryoiro/tunepanel/internal/logger"
	"github.com/haryoiro/tunepanel/pkg/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	root string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	t.Setenv(config.EnvConfigDir, filepath.Join(root, "config"))
	t.Setenv(config.EnvDataDir, filepath.Join(root, "data"))
	t.Setenv(config.EnvCacheDir, filepath.Join(root, "cache"))
	t.Cleanup(func() { logger.CloseLogger() })
	return &testEnv{root: root}
}

func (e *testEnv) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.root, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionAndFiles(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tunepanel")

	out, _, err = run(t, "", "files")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(env.root, "config", "config.toml"))
	assert.Contains(t, out, filepath.Join(env.root, "data", "songs.db"))
	assert.Contains(t, out, "0 songs cached")

	assert.FileExists(t, filepath.Join(env.root, "config", "config.toml"), "default config is written")
	assert.FileExists(t, filepath.Join(env.root, "data", "tunepanel.log"))
}

func TestRender(t *testing.T) {
	env := newTestEnv(t)
	tmpl := env.write(t, "mini.templ", "<$title$>-$isong>")

	out, stderr, err := run(t, "", "render", "--template", tmpl, "--width", "20", "--no-color",
		"--set", "title=Enigma", "--set", "isong=2", "--set", "next_song=Stardust")
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Equal(t, "<Enigma----------02>\nNEXT: Stardust\n", out)
}

func TestRenderDefaultTemplate(t *testing.T) {
	newTestEnv(t)

	out, _, err := run(t, "", "render", "--width", "60", "--no-color")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 8)
	for _, line := range lines[:8] {
		assert.Equal(t, 60, templ.StringWidth(line))
	}
}

func TestRenderWidthMismatchWarns(t *testing.T) {
	env := newTestEnv(t)
	tmpl := env.write(t, "nofill.templ", "|$title|")

	out, stderr, err := run(t, "", "render", "--template", tmpl, "--width", "4", "--no-color", "--set", "title=abcd")
	require.NoError(t, err)
	assert.Contains(t, stderr, "6 columns for width 4")
	assert.True(t, strings.HasPrefix(out, "|ab|"), out)
}

func TestStrictWidth(t *testing.T) {
	env := newTestEnv(t)
	tmpl := env.write(t, "fixed.templ", "|fixed|")
	cfg := env.write(t, "strict.toml", "[panel]\nstrict_width = true\n")

	_, _, err := run(t, "", "render", "--config", cfg, "--template", tmpl, "--width", "20", "--no-color")
	assert.Error(t, err)

	out, _, err := run(t, "", "render", "--config", cfg, "--template", tmpl, "--width", "7", "--no-color")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "|fixed|"))
}

func TestCheck(t *testing.T) {
	env := newTestEnv(t)
	tmpl := env.write(t, "fixed.templ", "|fixed|\n|$title$> |")

	out, _, err := run(t, "", "check", "--template", tmpl, "--width", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "template ok: 2 lines, width 20")
	assert.Contains(t, out, "aliases: full_song_name, full_title, title_and_composer")

	_, _, err = run(t, "", "check", "--template", tmpl, "--width", "20", "--strict")
	assert.Error(t, err)

	broken := env.write(t, "broken.templ", "ok\nab $[red x")
	_, _, err = run(t, "", "check", "--template", broken)
	assert.ErrorContains(t, err, "unterminated color scope")
}

func TestTagAndRender(t *testing.T) {
	env := newTestEnv(t)
	song := env.write(t, "enigma.mod", "M.K.")
	tmpl := env.write(t, "tag.templ", "$title_and_composer$> |")

	out, stderr, err := run(t, "", "tag", song, "--title", "Enigma", "--composer", "Firefox")
	require.NoError(t, err)
	assert.Equal(t, "Enigma / Firefox [mod]\n", out)
	assert.Contains(t, stderr, "MOD files")

	out, _, err = run(t, "", "render", song, "--template", tmpl, "--width", "30", "--no-color")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Enigma / Firefox"), out)

	out, _, err = run(t, "", "tag", song, "--clear")
	require.NoError(t, err)
	assert.Contains(t, out, "cleared")

	out, _, err = run(t, "", "render", song, "--template", tmpl, "--width", "30", "--no-color")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "enigma.mod"), out)
}

func TestClearCache(t *testing.T) {
	env := newTestEnv(t)
	song := env.write(t, "enigma.mod", "M.K.")
	_, _, err := run(t, "", "tag", song, "--title", "Enigma")
	require.NoError(t, err)
	db := filepath.Join(env.root, "data", "songs.db")
	require.FileExists(t, db)

	out, _, err := run(t, "n\n", "clear-cache")
	require.NoError(t, err)
	assert.Contains(t, out, "cancelled")
	assert.FileExists(t, db)

	out, _, err = run(t, "", "clear-cache", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Cache cleared.")
	assert.NoFileExists(t, db)
}

func TestParseSets(t *testing.T) {
	md, err := parseSets([]string{"isong=3", "rate=44.1", "title=a=b", "empty="})
	require.NoError(t, err)
	assert.Equal(t, "03", md.Get("isong"))
	assert.Equal(t, "44.1", md.Get("rate"))
	assert.Equal(t, "a=b", md.Get("title"))
	v, ok := md.Lookup("empty")
	assert.True(t, ok)
	assert.Empty(t, v)

	_, err = parseSets([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseSets([]string{"=x"})
	assert.Error(t, err)
}
