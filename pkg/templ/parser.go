package templ

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse error kinds. Use errors.Is against a *ParseError.
var (
	ErrUnterminatedColorScope = errors.New("unterminated color scope")
	ErrInvalidVariableSyntax  = errors.New("invalid variable syntax")
	ErrInvalidColor           = errors.New("invalid color")
)

// ParseError reports a template syntax error with a 1-based line and
// column (in runes).
type ParseError struct {
	Kind   error
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("template:%d:%d: %v", e.Line, e.Column, e.Kind)
	}
	return fmt.Sprintf("template:%d:%d: %v: %s", e.Line, e.Column, e.Kind, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}

// SegmentKind tags a Segment.
type SegmentKind int

const (
	LiteralSegment SegmentKind = iota
	ColorSegment
	VariableSegment
	FillSegment
)

func (k SegmentKind) String() string {
	switch k {
	case LiteralSegment:
		return "literal"
	case ColorSegment:
		return "color"
	case VariableSegment:
		return "variable"
	case FillSegment:
		return "fill"
	default:
		return "unknown"
	}
}

// Segment is one parsed unit of a template line. Text holds the literal
// text, the color tag, the variable name or the fill glyph.
type Segment struct {
	Kind SegmentKind
	Text string
}

// Line is a parsed template line. Fill is the index of the honored fill
// segment in Segments, or -1.
type Line struct {
	Segments  []Segment
	Fill      int
	FillGlyph rune
	Grow      bool
	Source    int
}

// HasFill reports whether the line has a fill marker.
func (l *Line) HasFill() bool {
	return l.Fill >= 0
}

// Template is a parsed panel layout. It is immutable and safe for
// concurrent use.
type Template struct {
	lines    []Line
	warnings []Warning
	reg      *Registry
}

// Lines returns the parsed lines. Callers must not modify them.
func (t *Template) Lines() []Line {
	return t.lines
}

// Len returns the number of renderable lines.
func (t *Template) Len() int {
	return len(t.lines)
}

// Warnings returns the non-fatal problems found while parsing.
func (t *Template) Warnings() []Warning {
	return t.warnings
}

// Registry returns the registry the template's definitions went into.
func (t *Template) Registry() *Registry {
	return t.reg
}

var definitionRe = regexp.MustCompile(`^@(\w+)=(.*)$`)

// Parse parses template source. Definition lines (@name=value) are
// registered into reg; when reg is nil a new registry is created. The
// registry is frozen on success and is available from Template.Registry.
func Parse(src string, reg *Registry) (*Template, error) {
	if reg == nil {
		reg = NewRegistry()
	}
	t := &Template{reg: reg}
	if src == "" {
		reg.Freeze()
		return t, nil
	}

	for i, raw := range strings.Split(strings.TrimSuffix(src, "\n"), "\n") {
		lineNo := i + 1
		raw = strings.TrimRight(raw, "\r")

		if m := definitionRe.FindStringSubmatch(strings.TrimSpace(raw)); m != nil {
			col := utf8.RuneCountInString(raw[:strings.IndexByte(raw, '=')]) + 2
			if err := define(reg, m[1], m[2], lineNo, col); err != nil {
				return nil, err
			}
			continue
		}

		line, warnings, err := parseLine(raw, lineNo)
		if err != nil {
			return nil, err
		}
		t.lines = append(t.lines, *line)
		t.warnings = append(t.warnings, warnings...)
	}
	reg.Freeze()
	return t, nil
}

// ParseLine parses a single free-standing line such as a notice. A notice
// is never width fitted, so fill warnings are dropped.
func ParseLine(text string) (*Line, error) {
	line, _, err := parseLine(strings.TrimRight(text, "\r\n"), 1)
	return line, err
}

// define registers "@name=value". A value starting with a colon is a
// color, so "@a=:#ff0000" is a color and "@a=isong" a literal. In
// "@a=isong:#ff0000" the text after the last colon adds a color only when
// it parses as one; "@a=Time: now" is a plain literal.
func define(reg *Registry, name, value string, lineNo, col int) error {
	value = strings.TrimSpace(value)

	if spec, ok := strings.CutPrefix(value, ":"); ok {
		c, err := ParseColor(spec)
		if err != nil {
			return &ParseError{Kind: ErrInvalidColor, Line: lineNo, Column: col, Msg: err.Error()}
		}
		return registerDefinition(reg, name, ColorValue(c), lineNo)
	}

	if i := strings.LastIndexByte(value, ':'); i >= 0 {
		if c, err := ParseColor(value[i+1:]); err == nil {
			if err := registerDefinition(reg, name, Literal(strings.TrimSpace(value[:i])), lineNo); err != nil {
				return err
			}
			return registerDefinition(reg, name, ColorValue(c), lineNo)
		}
	}
	return registerDefinition(reg, name, Literal(value), lineNo)
}

func registerDefinition(reg *Registry, name string, e Entry, lineNo int) error {
	if err := reg.Register(name, e); err != nil {
		return fmt.Errorf("template line %d: %w", lineNo, err)
	}
	return nil
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func parseLine(raw string, lineNo int) (*Line, []Warning, error) {
	runes := []rune(raw)
	line := &Line{Fill: -1, Source: lineNo}
	var warnings []Warning
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			line.Segments = append(line.Segments, Segment{Kind: LiteralSegment, Text: lit.String()})
			lit.Reset()
		}
	}
	syntaxErr := func(kind error, col int, msg string) error {
		return &ParseError{Kind: kind, Line: lineNo, Column: col, Msg: msg}
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '$' {
			lit.WriteRune(r)
			continue
		}
		col := i + 1
		if i+1 >= len(runes) {
			return nil, nil, syntaxErr(ErrInvalidVariableSyntax, col, "'$' at end of line")
		}

		next := runes[i+1]
		switch {
		case next == '$':
			lit.WriteRune('$')
			i++

		case next == '^':
			line.Grow = true
			i++

		case next == '>':
			i++
			glyph := ' '
			if i+1 < len(runes) && runes[i+1] != '$' && widthCond.RuneWidth(runes[i+1]) == 1 {
				glyph = runes[i+1]
				i++
			}
			flush()
			if line.HasFill() {
				warnings = append(warnings, Warning{
					Kind: WarnDuplicateFill,
					Line: lineNo,
					Msg:  fmt.Sprintf("column %d: extra fill marker ignored", col),
				})
				continue
			}
			line.Fill = len(line.Segments)
			line.FillGlyph = glyph
			line.Segments = append(line.Segments, Segment{Kind: FillSegment, Text: string(glyph)})

		case next == '[':
			end := -1
			for j := i + 2; j < len(runes); j++ {
				if runes[j] == ']' {
					end = j
					break
				}
			}
			if end < 0 {
				return nil, nil, syntaxErr(ErrUnterminatedColorScope, col, "missing ']'")
			}
			flush()
			line.Segments = append(line.Segments, Segment{
				Kind: ColorSegment,
				Text: strings.TrimSpace(string(runes[i+2 : end])),
			})
			i = end

		case isIdentStart(next):
			j := i + 1
			for j < len(runes) && isIdentChar(runes[j]) {
				j++
			}
			flush()
			line.Segments = append(line.Segments, Segment{Kind: VariableSegment, Text: string(runes[i+1 : j])})
			i = j - 1

		default:
			return nil, nil, syntaxErr(ErrInvalidVariableSyntax, col, fmt.Sprintf("unexpected %q after '$'", next))
		}
	}
	flush()
	return line, warnings, nil
}

// ValidateWidth checks the lines without a fill marker against width.
// Literal-only lines must match exactly; lines with variables must at least
// leave room for their literals. It backs the strict_width setting.
func (t *Template) ValidateWidth(width int) error {
	var errs []error
	for _, line := range t.lines {
		if line.HasFill() {
			continue
		}
		fixed, vars := 0, 0
		for _, seg := range line.Segments {
			switch seg.Kind {
			case LiteralSegment:
				fixed += widthCond.StringWidth(seg.Text)
			case VariableSegment:
				vars++
			}
		}
		switch {
		case vars == 0 && fixed != width:
			errs = append(errs, fmt.Errorf("template line %d: %d columns, want %d", line.Source, fixed, width))
		case vars > 0 && fixed > width:
			errs = append(errs, fmt.Errorf("template line %d: literals need %d columns, only %d available", line.Source, fixed, width))
		}
	}
	return errors.Join(errs...)
}
