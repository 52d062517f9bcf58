package templ

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/muesli/termenv"
)

// WarningKind classifies a non-fatal template or render problem.
type WarningKind int

const (
	WarnDuplicateFill WarningKind = iota
	WarnWidthMismatch
)

func (k WarningKind) String() string {
	switch k {
	case WarnDuplicateFill:
		return "duplicate fill"
	case WarnWidthMismatch:
		return "width mismatch"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal problem tied to a template source line.
type Warning struct {
	Kind WarningKind
	Line int
	Msg  string
}

func (w Warning) String() string {
	return fmt.Sprintf("template line %d: %s: %s", w.Line, w.Kind, w.Msg)
}

// Result is the output of one render call.
type Result struct {
	Lines    []string
	Warnings []Warning
}

// String joins the lines with newlines.
func (r Result) String() string {
	return strings.Join(r.Lines, "\n")
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithProfile sets the color profile used for escape sequences. The
// default is termenv.TrueColor; termenv.Ascii disables color entirely.
func WithProfile(p termenv.Profile) Option {
	return func(r *Renderer) {
		r.profile = p
	}
}

// WithDefaultColor sets the color used outside any color scope and for
// unknown color tags.
func WithDefaultColor(c Color) Option {
	return func(r *Renderer) {
		r.fallback = c
	}
}

// Renderer turns a Template and per-call metadata into panel lines. It
// holds no mutable state, so one Renderer may serve concurrent calls.
type Renderer struct {
	tmpl     *Template
	reg      *Registry
	profile  termenv.Profile
	fallback Color
}

// NewRenderer returns a renderer for t. The template's registry is frozen
// by Parse, so a renderer never writes to it.
func NewRenderer(t *Template, opts ...Option) *Renderer {
	r := &Renderer{
		tmpl:    t,
		reg:     t.Registry(),
		profile: termenv.TrueColor,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render is a shorthand for NewRenderer(t).Render.
func Render(t *Template, md Metadata, width int, colorEnabled bool) Result {
	return NewRenderer(t).Render(md, width, colorEnabled)
}

// Template returns the template being rendered.
func (r *Renderer) Template() *Template {
	return r.tmpl
}

// Resolver returns the color resolver a render call would use.
func (r *Renderer) Resolver(colorEnabled bool) ColorResolver {
	return NewColorResolver(r.reg, colorEnabled, r.profile, r.fallback)
}

// Render renders every template line at exactly width columns where the
// line has a fill marker.
func (r *Renderer) Render(md Metadata, width int, colorEnabled bool) Result {
	return r.RenderHeight(md, width, 0, colorEnabled)
}

// RenderHeight is Render with growable ($^) lines repeated until the
// output has height lines. A height at or below the template's line count
// changes nothing.
func (r *Renderer) RenderHeight(md Metadata, width, height int, colorEnabled bool) Result {
	res := r.Resolver(colorEnabled)
	lines := growLines(r.tmpl.lines, height)

	out := Result{Lines: make([]string, 0, len(lines))}
	for i := range lines {
		line := &lines[i]
		pieces := r.resolveLine(line, md, res)
		fitted, status := Layout(pieces, width)
		if status == WidthMismatch {
			out.Warnings = append(out.Warnings, Warning{
				Kind: WarnWidthMismatch,
				Line: line.Source,
				Msg:  fmt.Sprintf("%d columns for width %d", StringWidth(joinPlain(pieces)), width),
			})
		}
		out.Lines = append(out.Lines, paint(fitted, res))
	}
	return out
}

// RenderNotice renders a free-length line, such as "NEXT: $next_song",
// with the same resolution rules and no width fitting.
func (r *Renderer) RenderNotice(line *Line, md Metadata, colorEnabled bool) string {
	if line == nil {
		return ""
	}
	res := r.Resolver(colorEnabled)
	pieces := r.resolveLine(line, md, res)
	kept := pieces[:0]
	for _, p := range pieces {
		if p.Kind != FillPiece {
			kept = append(kept, p)
		}
	}
	return paint(kept, res)
}

func (r *Renderer) resolveLine(line *Line, md Metadata, res ColorResolver) []Piece {
	scope := res.ColorFor("")
	pieces := make([]Piece, 0, len(line.Segments))
	for i, seg := range line.Segments {
		switch seg.Kind {
		case LiteralSegment:
			pieces = append(pieces, Piece{Kind: LiteralPiece, Text: seg.Text, Color: scope})
		case ColorSegment:
			scope = res.ColorFor(seg.Text)
		case VariableSegment:
			v, _ := r.reg.Resolve(seg.Text, md)
			pieces = append(pieces, Piece{
				Kind:  VariablePiece,
				Text:  sanitize(v.Text),
				Color: res.ColorForVariable(seg.Text, scope),
			})
		case FillSegment:
			if i == line.Fill {
				pieces = append(pieces, Piece{Kind: FillPiece, Text: seg.Text, Color: scope})
			}
		}
	}
	return pieces
}

// sanitize keeps a value on one line: whitespace controls become spaces
// and other control characters are dropped.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, s)
}

// paint emits pieces, merging neighbours that share a color.
func paint(pieces []Piece, res ColorResolver) string {
	var b, run strings.Builder
	current := NoColor
	for _, p := range pieces {
		if p.Text == "" {
			continue
		}
		if p.Color != current && run.Len() > 0 {
			b.WriteString(res.Paint(run.String(), current))
			run.Reset()
		}
		current = p.Color
		run.WriteString(p.Text)
	}
	if run.Len() > 0 {
		b.WriteString(res.Paint(run.String(), current))
	}
	return b.String()
}

// growLines repeats growable lines until there are height lines. Extra
// lines are spread over the growable lines from the bottom up.
func growLines(lines []Line, height int) []Line {
	extra := height - len(lines)
	if extra <= 0 {
		return lines
	}
	var grow []int
	for i, l := range lines {
		if l.Grow {
			grow = append(grow, i)
		}
	}
	if len(grow) == 0 {
		return lines
	}

	copies := make(map[int]int, len(grow))
	inserted := 0
	for k := 0; k < len(grow); k++ {
		target := (extra*(k+1) + len(grow) - 1) / len(grow)
		copies[grow[len(grow)-1-k]] = target - inserted
		inserted = target
	}

	out := make([]Line, 0, height)
	for i, l := range lines {
		out = append(out, l)
		for c := 0; c < copies[i]; c++ {
			out = append(out, l)
		}
	}
	return out
}
