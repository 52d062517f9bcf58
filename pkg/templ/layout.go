package templ

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// widthCond measures display columns. Ambiguous-width runes such as box
// drawing glyphs count as one column regardless of locale.
var widthCond = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// StringWidth returns the display width of s in terminal columns.
func StringWidth(s string) int {
	return widthCond.StringWidth(s)
}

// PieceKind tags a resolved piece of a line.
type PieceKind int

const (
	LiteralPiece PieceKind = iota
	VariablePiece
	FillPiece
)

// Piece is a resolved run of text with the color it will be painted in.
// For a FillPiece, Text holds the fill glyph until Layout expands it.
type Piece struct {
	Kind  PieceKind
	Text  string
	Color Color
}

// Status describes how Layout fitted a line.
type Status int

const (
	Fitted Status = iota
	Truncated
	WidthMismatch
)

func (s Status) String() string {
	switch s {
	case Fitted:
		return "fitted"
	case Truncated:
		return "truncated"
	case WidthMismatch:
		return "width mismatch"
	default:
		return "unknown"
	}
}

// Layout fits pieces to width columns. The first FillPiece absorbs any
// slack. On overflow, variables are trimmed left-most first, then literals
// right-most first, and the final literal (usually the closing border) is
// kept. A line without fill reports WidthMismatch whenever it does not
// match: narrower lines are returned as is, wider ones are truncated.
func Layout(pieces []Piece, width int) ([]Piece, Status) {
	out := make([]Piece, len(pieces))
	copy(out, pieces)
	if width < 0 {
		width = 0
	}

	fill := -1
	fixed := 0
	for i, p := range out {
		if p.Kind == FillPiece {
			if fill < 0 {
				fill = i
			} else {
				out[i].Text = ""
			}
			continue
		}
		fixed += widthCond.StringWidth(p.Text)
	}

	if fill >= 0 {
		glyph := out[fill].Text
		if widthCond.StringWidth(glyph) != 1 {
			glyph = " "
		}
		out[fill].Text = ""
		if width >= fixed {
			out[fill].Text = strings.Repeat(glyph, width-fixed)
			return out, Fitted
		}
	} else if width > fixed {
		return out, WidthMismatch
	} else if width == fixed {
		return out, Fitted
	}

	truncate(out, fixed-width)
	if fill < 0 {
		return out, WidthMismatch
	}
	return out, Truncated
}

// truncate removes excess columns in place.
func truncate(pieces []Piece, excess int) {
	last := -1
	for i := len(pieces) - 1; i >= 0; i-- {
		if pieces[i].Kind == LiteralPiece && pieces[i].Text != "" {
			last = i
			break
		}
	}

	for i := range pieces {
		if excess <= 0 {
			return
		}
		if pieces[i].Kind == VariablePiece {
			excess = trimRight(&pieces[i], excess)
		}
	}
	for i := len(pieces) - 1; i >= 0; i-- {
		if excess <= 0 {
			return
		}
		if pieces[i].Kind == LiteralPiece && i != last {
			excess = trimRight(&pieces[i], excess)
		}
	}
	if excess > 0 && last >= 0 {
		trimLeft(&pieces[last], excess)
	}
}

// trimRight cuts up to excess columns off the end of p and returns the
// columns still to remove. A wide rune that would be split is replaced by
// padding so the cut is exact.
func trimRight(p *Piece, excess int) int {
	w := widthCond.StringWidth(p.Text)
	if w == 0 {
		return excess
	}
	if excess >= w {
		p.Text = ""
		return excess - w
	}
	keep := w - excess
	cut := widthCond.Truncate(p.Text, keep, "")
	if cw := widthCond.StringWidth(cut); cw < keep {
		cut += strings.Repeat(" ", keep-cw)
	}
	p.Text = cut
	return 0
}

// trimLeft drops leading columns of p, keeping its last characters.
func trimLeft(p *Piece, excess int) {
	runes := []rune(p.Text)
	removed := 0
	i := 0
	for i < len(runes) && removed < excess {
		removed += widthCond.RuneWidth(runes[i])
		i++
	}
	p.Text = strings.Repeat(" ", removed-excess) + string(runes[i:])
}

// joinPlain concatenates piece texts without color.
func joinPlain(pieces []Piece) string {
	var b strings.Builder
	for _, p := range pieces {
		b.WriteString(p.Text)
	}
	return b.String()
}
