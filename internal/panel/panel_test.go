package panel

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/haryoiro/tunepanel/internal/assets"
	"github.com/haryoiro/tunepanel/internal/config"
	"github.com/haryoiro/tunepanel/internal/structures"
	"github.com/haryoiro/tunepanel/pkg/templ"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPanel(t *testing.T) {
	cfg := config.Default().Panel
	p, err := New(cfg, assets.DefaultTemplate, termenv.TrueColor)
	require.NoError(t, err)
	assert.Empty(t, p.ParseWarnings())

	md := templ.Metadata{
		"title":     templ.Text("Enigma"),
		"file_name": templ.Text("enigma.mod"),
		"next_song": templ.Text("Stardust Memories / Jester"),
	}
	frame := p.Render(md, 60, false)
	assert.Len(t, frame.Lines, 8)
	assert.Equal(t, "NEXT: Stardust Memories / Jester", frame.Notice)
	assert.Empty(t, frame.Warnings)
	for _, line := range frame.Lines {
		assert.Equal(t, 60, templ.StringWidth(line))
	}

	colored := p.Render(md, 60, true)
	assert.Equal(t, frame.String(), ansi.Strip(colored.String()))
}

func TestPanelHeight(t *testing.T) {
	cfg := structures.PanelConfig{Height: 4}
	p, err := New(cfg, "top$>-\n$^mid$>-\nend$>-", termenv.Ascii)
	require.NoError(t, err)

	frame := p.Render(nil, 5, false)
	assert.Equal(t, []string{"top--", "mid--", "mid--", "end--"}, frame.Lines)
	assert.Empty(t, frame.Notice)
	assert.Equal(t, "top--\nmid--\nmid--\nend--", frame.String())
}

func TestPanelRows(t *testing.T) {
	src := "top$>-\n$^mid$>-\nend$>-"
	p, err := New(structures.PanelConfig{}, src, termenv.Ascii)
	require.NoError(t, err)

	assert.Len(t, p.RenderRows(nil, 5, 5, false).Lines, 5)
	assert.Len(t, p.RenderRows(nil, 5, 0, false).Lines, 3)
	assert.Len(t, p.Render(nil, 5, false).Lines, 3)

	withNotice, err := New(structures.PanelConfig{Notice: "next"}, src, termenv.Ascii)
	require.NoError(t, err)
	frame := withNotice.RenderRows(nil, 5, 5, false)
	assert.Equal(t, []string{"top--", "mid--", "mid--", "end--"}, frame.Lines)
	assert.Equal(t, "next", frame.Notice)

	fixed, err := New(structures.PanelConfig{Height: 4}, src, termenv.Ascii)
	require.NoError(t, err)
	assert.Len(t, fixed.RenderRows(nil, 5, 20, false).Lines, 4, "panel.height wins over the window")
}

func TestPanelErrors(t *testing.T) {
	_, err := New(structures.PanelConfig{}, "$[oops", termenv.Ascii)
	assert.Error(t, err)

	_, err = New(structures.PanelConfig{DefaultColor: "nope"}, "x", termenv.Ascii)
	assert.ErrorContains(t, err, "default_color")

	_, err = New(structures.PanelConfig{Notice: "$[oops"}, "x", termenv.Ascii)
	assert.ErrorContains(t, err, "notice")
}

func TestCheckWidth(t *testing.T) {
	src := "|fixed|\n|$title$> |"

	loose, err := New(structures.PanelConfig{}, src, termenv.Ascii)
	require.NoError(t, err)
	assert.NoError(t, loose.CheckWidth(20))

	strict, err := New(structures.PanelConfig{StrictWidth: true}, src, termenv.Ascii)
	require.NoError(t, err)
	assert.NoError(t, strict.CheckWidth(7))
	assert.Error(t, strict.CheckWidth(20))
}

func TestWarningLogReportsOnce(t *testing.T) {
	w := NewWarningLog()
	warnings := []templ.Warning{
		{Kind: templ.WarnWidthMismatch, Line: 2, Msg: "6 columns for width 4"},
		{Kind: templ.WarnWidthMismatch, Line: 3, Msg: "6 columns for width 4"},
	}

	assert.Len(t, w.Report(warnings), 2)
	assert.Empty(t, w.Report(warnings))
	assert.Len(t, w.Report([]templ.Warning{{Kind: templ.WarnWidthMismatch, Line: 2, Msg: "6 columns for width 5"}}), 1)
}
