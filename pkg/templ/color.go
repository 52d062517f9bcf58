package templ

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

type colorKind uint8

const (
	noColor colorKind = iota
	rgbColor
	ansiColor
)

// Color is a concrete foreground color. The zero value is NoColor, which
// leaves the terminal's default foreground in effect.
type Color struct {
	kind  colorKind
	value uint32
}

// NoColor renders text without any escape sequence.
var NoColor = Color{}

// RGB returns a true color from a packed 0xRRGGBB value.
func RGB(packed uint32) Color {
	return Color{kind: rgbColor, value: packed & 0xffffff}
}

// ANSI returns one of the 16 basic terminal colors.
func ANSI(n int) Color {
	if n < 0 || n > 15 {
		return NoColor
	}
	return Color{kind: ansiColor, value: uint32(n)}
}

var ansiNames = map[string]int{
	"black":          0,
	"red":            1,
	"green":          2,
	"yellow":         3,
	"blue":           4,
	"magenta":        5,
	"cyan":           6,
	"white":          7,
	"bright_black":   8,
	"gray":           8,
	"grey":           8,
	"bright_red":     9,
	"bright_green":   10,
	"bright_yellow":  11,
	"bright_blue":    12,
	"bright_magenta": 13,
	"bright_cyan":    14,
	"bright_white":   15,
}

// ParseColor parses "#rrggbb", "0xRRGGBB", a decimal packed RGB value or an
// ANSI color name such as "yellow" or "bright_blue".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return NoColor, fmt.Errorf("empty color")
	case strings.HasPrefix(s, "#"):
		if len(s) != 7 {
			return NoColor, fmt.Errorf("invalid color %q: want #rrggbb", s)
		}
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return NoColor, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return RGB(uint32(v)), nil
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		v, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil || v > 0xffffff {
			return NoColor, fmt.Errorf("invalid packed color %q", s)
		}
		return RGB(uint32(v)), nil
	case s[0] >= '0' && s[0] <= '9':
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil || v > 0xffffff {
			return NoColor, fmt.Errorf("invalid packed color %q", s)
		}
		return RGB(uint32(v)), nil
	}
	if n, ok := ansiNames[strings.ToLower(s)]; ok {
		return ANSI(n), nil
	}
	return NoColor, fmt.Errorf("unknown color %q", s)
}

// IsNone reports whether c is NoColor.
func (c Color) IsNone() bool {
	return c.kind == noColor
}

func (c Color) String() string {
	switch c.kind {
	case rgbColor:
		return fmt.Sprintf("#%06x", c.value)
	case ansiColor:
		return fmt.Sprintf("ansi(%d)", c.value)
	default:
		return "none"
	}
}

func (c Color) termenv(p termenv.Profile) termenv.Color {
	switch c.kind {
	case rgbColor:
		return p.Color(fmt.Sprintf("#%06x", c.value))
	case ansiColor:
		return p.Convert(termenv.ANSIColor(c.value))
	default:
		return nil
	}
}

// ColorResolver maps color tags to concrete colors for one render call.
// A disabled resolver answers NoColor for everything, so plain and colored
// renders share the same layout.
type ColorResolver struct {
	reg      *Registry
	enabled  bool
	profile  termenv.Profile
	fallback Color
}

// NewColorResolver returns a resolver backed by reg. fallback is used for
// unknown tags and for the "default" tag.
func NewColorResolver(reg *Registry, enabled bool, profile termenv.Profile, fallback Color) ColorResolver {
	if profile == termenv.Ascii {
		enabled = false
	}
	return ColorResolver{reg: reg, enabled: enabled, profile: profile, fallback: fallback}
}

// Enabled reports whether the resolver emits colors.
func (r ColorResolver) Enabled() bool {
	return r.enabled
}

// ColorFor resolves a color scope tag: a registered color alias, then an
// inline color literal, then the default.
func (r ColorResolver) ColorFor(tag string) Color {
	if !r.enabled {
		return NoColor
	}
	tag = strings.TrimSpace(tag)
	if tag == "" || tag == "default" {
		return r.fallback
	}
	if r.reg != nil {
		if c, ok := r.reg.Color(tag); ok {
			return c
		}
	}
	if c, err := ParseColor(tag); err == nil {
		return c
	}
	return r.fallback
}

// ColorForVariable returns the color registered for a variable name, or
// scope when the variable has none.
func (r ColorResolver) ColorForVariable(name string, scope Color) Color {
	if !r.enabled {
		return NoColor
	}
	if r.reg != nil {
		if c, ok := r.reg.Color(name); ok {
			return c
		}
	}
	return scope
}

// Paint wraps text in the escape sequence for c.
func (r ColorResolver) Paint(text string, c Color) string {
	if !r.enabled || c.IsNone() || text == "" {
		return text
	}
	tc := c.termenv(r.profile)
	if tc == nil {
		return text
	}
	return r.profile.String(text).Foreground(tc).String()
}
