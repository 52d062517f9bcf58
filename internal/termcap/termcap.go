// Package termcap answers what the output terminal can do: whether to
// color, which escape profile to use, and how wide it is.
package termcap

import (
	"os"
	"strconv"
	"strings"

	"github.com/haryoiro/tunepanel/internal/constants"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether f is a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ColorEnabled decides whether output to f gets color. "always" and
// "never" are obeyed as is; "auto" colors only a terminal that supports
// it, and only when NO_COLOR is unset.
func ColorEnabled(mode string, f *os.File) bool {
	return colorEnabled(mode, IsTerminal(f), os.Getenv("NO_COLOR") != "", Profile("auto", f))
}

func colorEnabled(mode string, tty, noColor bool, profile termenv.Profile) bool {
	switch strings.ToLower(mode) {
	case constants.ColorAlways:
		return true
	case constants.ColorNever:
		return false
	}
	return tty && !noColor && profile != termenv.Ascii
}

// ParseProfile maps a profile name to a termenv profile. ok is false for
// "auto" and unknown names.
func ParseProfile(name string) (termenv.Profile, bool) {
	switch strings.ToLower(name) {
	case "truecolor":
		return termenv.TrueColor, true
	case "ansi256":
		return termenv.ANSI256, true
	case "ansi":
		return termenv.ANSI, true
	case "ascii":
		return termenv.Ascii, true
	}
	return termenv.Ascii, false
}

// Profile returns the named profile, or the one detected for f when name
// is "auto" or empty.
func Profile(name string, f *os.File) termenv.Profile {
	if p, ok := ParseProfile(name); ok {
		return p
	}
	return termenv.NewOutput(f).EnvColorProfile()
}

// Width returns the column count of f, then $COLUMNS, then fallback.
func Width(f *os.File, fallback int) int {
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		return w
	}
	if w, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && w > 0 {
		return w
	}
	return fallback
}
