package templ

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statusLine = "┃ $time / $len ┃ SONG ┃ $a/$b ┃ FORMAT ┃ $fmt $> $count┃"

func TestParseStatusLine(t *testing.T) {
	tmpl, err := Parse(statusLine, nil)
	require.NoError(t, err)
	require.Equal(t, 1, tmpl.Len())

	line := tmpl.Lines()[0]
	want := []Segment{
		{LiteralSegment, "┃ "},
		{VariableSegment, "time"},
		{LiteralSegment, " / "},
		{VariableSegment, "len"},
		{LiteralSegment, " ┃ SONG ┃ "},
		{VariableSegment, "a"},
		{LiteralSegment, "/"},
		{VariableSegment, "b"},
		{LiteralSegment, " ┃ FORMAT ┃ "},
		{VariableSegment, "fmt"},
		{LiteralSegment, " "},
		{FillSegment, " "},
		{VariableSegment, "count"},
		{LiteralSegment, "┃"},
	}
	assert.Equal(t, want, line.Segments)
	assert.Equal(t, 11, line.Fill)
	assert.Equal(t, ' ', line.FillGlyph)
	assert.Equal(t, 1, line.Source)
	assert.Empty(t, tmpl.Warnings())
}

func TestParseFillGlyph(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		glyph rune
		tail  Segment
	}{
		{"border glyph", "┣━$>━┫", '━', Segment{LiteralSegment, "┫"}},
		{"space", "| $> |", ' ', Segment{LiteralSegment, "|"}},
		{"end of line", "abc$>", ' ', Segment{FillSegment, " "}},
		{"before variable", "x$>$v", ' ', Segment{VariableSegment, "v"}},
		{"wide rune is not a glyph", "x$>漢", ' ', Segment{LiteralSegment, "漢"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Parse(tt.src, nil)
			require.NoError(t, err)
			line := tmpl.Lines()[0]
			assert.True(t, line.HasFill())
			assert.Equal(t, tt.glyph, line.FillGlyph)
			assert.Equal(t, tt.tail, line.Segments[len(line.Segments)-1])
		})
	}
}

func TestParseDuplicateFillWarns(t *testing.T) {
	tmpl, err := Parse("first\n[$> x $> ]", nil)
	require.NoError(t, err)

	line := tmpl.Lines()[1]
	assert.Equal(t, 1, line.Fill)
	fills := 0
	for _, seg := range line.Segments {
		if seg.Kind == FillSegment {
			fills++
		}
	}
	assert.Equal(t, 1, fills)

	require.Len(t, tmpl.Warnings(), 1)
	w := tmpl.Warnings()[0]
	assert.Equal(t, WarnDuplicateFill, w.Kind)
	assert.Equal(t, 2, w.Line)
}

func TestParseEscapesAndMarkers(t *testing.T) {
	tmpl, err := Parse("cost: $$5 $^", nil)
	require.NoError(t, err)
	line := tmpl.Lines()[0]
	assert.True(t, line.Grow)
	assert.False(t, line.HasFill())
	assert.Equal(t, []Segment{{LiteralSegment, "cost: $5 "}}, line.Segments)
}

func TestParseColorScope(t *testing.T) {
	tmpl, err := Parse("$[ yellow ]A$[]B", nil)
	require.NoError(t, err)
	assert.Equal(t, []Segment{
		{ColorSegment, "yellow"},
		{LiteralSegment, "A"},
		{ColorSegment, ""},
		{LiteralSegment, "B"},
	}, tmpl.Lines()[0].Segments)
}

func TestParseDefinitions(t *testing.T) {
	src := "@a=isong\n  @hl=:#ff8800\n@song=isong:yellow\n@empty=\n| $a |\n"
	reg := NewRegistry()
	tmpl, err := Parse(src, reg)
	require.NoError(t, err)
	assert.Same(t, reg, tmpl.Registry())

	require.Equal(t, 1, tmpl.Len())
	assert.Equal(t, 5, tmpl.Lines()[0].Source)

	v, ok := reg.Resolve("a", nil)
	require.True(t, ok)
	assert.Equal(t, "isong", v.Text)

	c, ok := reg.Color("hl")
	require.True(t, ok)
	assert.Equal(t, RGB(0xff8800), c)
	v, ok = reg.Resolve("hl", nil)
	require.True(t, ok)
	assert.True(t, v.IsColor)

	v, ok = reg.Resolve("song", nil)
	require.True(t, ok)
	assert.Equal(t, "isong", v.Text)
	c, ok = reg.Color("song")
	require.True(t, ok)
	assert.Equal(t, ANSI(3), c)

	v, ok = reg.Resolve("empty", nil)
	require.True(t, ok)
	assert.Equal(t, "", v.Text)
}

func TestParseLiteralWithColon(t *testing.T) {
	tmpl, err := Parse("@label=Time: now\n@song=isong : yellow\n$label$> |", nil)
	require.NoError(t, err)
	reg := tmpl.Registry()

	v, ok := reg.Resolve("label", nil)
	require.True(t, ok)
	assert.Equal(t, "Time: now", v.Text)
	_, ok = reg.Color("label")
	assert.False(t, ok)

	v, ok = reg.Resolve("song", nil)
	require.True(t, ok)
	assert.Equal(t, "isong", v.Text)
	c, ok := reg.Color("song")
	require.True(t, ok)
	assert.Equal(t, ANSI(3), c)

	assert.Equal(t, []string{"Time: now |"}, Render(tmpl, nil, 11, false).Lines)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind error
		line int
		col  int
	}{
		{"unterminated color", "ok\nab $[red x", ErrUnterminatedColorScope, 2, 4},
		{"digit after dollar", "┃ $1 ┃", ErrInvalidVariableSyntax, 1, 3},
		{"dollar at end", "total $", ErrInvalidVariableSyntax, 1, 7},
		{"punctuation after dollar", "a\nb\n $!", ErrInvalidVariableSyntax, 3, 2},
		{"bad color definition", "@x=:#zz0000", ErrInvalidColor, 1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.line, perr.Line)
			assert.Equal(t, tt.col, perr.Column)
		})
	}
}

func TestParseIntoFrozenRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Freeze()
	_, err := Parse("@a=b", reg)
	assert.ErrorIs(t, err, ErrRegistryFrozen)
}

func TestParseEmptyAndTrailingNewline(t *testing.T) {
	tmpl, err := Parse("", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, tmpl.Len())

	tmpl, err = Parse("a\r\nb\n", nil)
	require.NoError(t, err)
	require.Equal(t, 2, tmpl.Len())
	assert.Equal(t, "a", tmpl.Lines()[0].Segments[0].Text)
}

func TestParseLine(t *testing.T) {
	line, err := ParseLine("NEXT: $next_song\n")
	require.NoError(t, err)
	assert.Equal(t, []Segment{
		{LiteralSegment, "NEXT: "},
		{VariableSegment, "next_song"},
	}, line.Segments)

	_, err = ParseLine("NEXT: $[")
	assert.ErrorIs(t, err, ErrUnterminatedColorScope)
}

func TestValidateWidth(t *testing.T) {
	tmpl, err := Parse("+----+\n| $a |\n+-$>-+", nil)
	require.NoError(t, err)

	assert.NoError(t, tmpl.ValidateWidth(6))

	err = tmpl.ValidateWidth(8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template line 1")

	err = tmpl.ValidateWidth(3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template line 2")
}
