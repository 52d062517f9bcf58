package templ

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// ErrRegistryFrozen is returned by Register once a Renderer uses the registry.
var ErrRegistryFrozen = errors.New("alias registry is frozen")

// EntryKind tags the variant held by an Entry.
type EntryKind int

const (
	LiteralEntry EntryKind = iota
	ColorEntry
	ComputedEntry
)

func (k EntryKind) String() string {
	switch k {
	case LiteralEntry:
		return "literal"
	case ColorEntry:
		return "color"
	case ComputedEntry:
		return "computed"
	default:
		return "unknown"
	}
}

// ComputedFunc derives a string from the metadata of one render call. It
// must be pure.
type ComputedFunc func(Metadata) string

// Entry is one alias definition.
type Entry struct {
	Kind  EntryKind
	Text  string
	Color Color
	Fn    ComputedFunc
}

// Literal returns an alias that always resolves to s.
func Literal(s string) Entry {
	return Entry{Kind: LiteralEntry, Text: s}
}

// ColorValue returns a color alias.
func ColorValue(c Color) Entry {
	return Entry{Kind: ColorEntry, Color: c}
}

// Computed returns an alias evaluated against the metadata.
func Computed(fn ComputedFunc) Entry {
	return Entry{Kind: ComputedEntry, Fn: fn}
}

// Resolved is the outcome of an alias lookup: text, or a color when the
// name only names a color.
type Resolved struct {
	Text    string
	Color   Color
	IsColor bool
}

// Registry holds alias and color definitions. A name may carry both a
// value entry (literal or computed) and a color. It is built once at
// startup and is read-only after Freeze.
type Registry struct {
	values map[string]Entry
	colors map[string]Color
	frozen bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		values: make(map[string]Entry),
		colors: make(map[string]Color),
	}
}

// Register adds or replaces the definition for name.
func (r *Registry) Register(name string, e Entry) error {
	if r.frozen {
		return fmt.Errorf("register %q: %w", name, ErrRegistryFrozen)
	}
	if name == "" {
		return fmt.Errorf("register: empty alias name")
	}
	switch e.Kind {
	case LiteralEntry:
		r.values[name] = e
	case ComputedEntry:
		if e.Fn == nil {
			return fmt.Errorf("register %q: computed alias without function", name)
		}
		r.values[name] = e
	case ColorEntry:
		r.colors[name] = e.Color
	default:
		return fmt.Errorf("register %q: unknown entry kind %d", name, e.Kind)
	}
	return nil
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() {
	r.frozen = true
}

// Frozen reports whether Freeze was called.
func (r *Registry) Frozen() bool {
	return r.frozen
}

// Resolve looks up name for one render call. Metadata wins over the
// registry when both define the same name; the registry is consulted only
// when the metadata has no such key. Names known to neither resolve to
// false.
func (r *Registry) Resolve(name string, md Metadata) (Resolved, bool) {
	if s, ok := md.Lookup(name); ok {
		return Resolved{Text: s}, true
	}
	if r == nil {
		return Resolved{}, false
	}
	if e, ok := r.values[name]; ok {
		switch e.Kind {
		case LiteralEntry:
			return Resolved{Text: e.Text}, true
		case ComputedEntry:
			return Resolved{Text: e.Fn(md)}, true
		}
	}
	if c, ok := r.colors[name]; ok {
		return Resolved{Color: c, IsColor: true}, true
	}
	return Resolved{}, false
}

// Color returns the color registered under name.
func (r *Registry) Color(name string) (Color, bool) {
	if r == nil {
		return NoColor, false
	}
	c, ok := r.colors[name]
	return c, ok
}

// Names lists every defined name in sorted order.
func (r *Registry) Names() []string {
	seen := make(map[string]struct{}, len(r.values)+len(r.colors))
	for n := range r.values {
		seen[n] = struct{}{}
	}
	for n := range r.colors {
		seen[n] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Built-in computed aliases.

// TitleAndComposer returns "title / composer" when both are known and the
// file name otherwise.
func TitleAndComposer(md Metadata) string {
	title := md.Get("title")
	composer := md.Get("composer")
	if title != "" && composer != "" {
		return title + " / " + composer
	}
	return md.Get("file_name")
}

// FullTitle merges the title with the game it belongs to.
func FullTitle(md Metadata) string {
	title := md.Get("title")
	game := md.Get("game")
	switch {
	case game == "":
		return title
	case title == "":
		return game
	default:
		return fmt.Sprintf("%s (%s)", title, game)
	}
}

// FullSongName is TitleAndComposer with the file extension appended.
func FullSongName(md Metadata) string {
	name := TitleAndComposer(md)
	if md.Get("composer") == "" || md.Get("title") == "" {
		return name
	}
	if ext := strings.TrimPrefix(filepath.Ext(md.Get("file_name")), "."); ext != "" {
		return fmt.Sprintf("%s [%s]", name, ext)
	}
	return name
}

// RegisterBuiltins installs the built-in computed aliases.
func RegisterBuiltins(r *Registry) error {
	builtins := []struct {
		name string
		fn   ComputedFunc
	}{
		{"title_and_composer", TitleAndComposer},
		{"full_title", FullTitle},
		{"full_song_name", FullSongName},
	}
	for _, b := range builtins {
		if err := r.Register(b.name, Computed(b.fn)); err != nil {
			return err
		}
	}
	return nil
}
