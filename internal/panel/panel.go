// Package panel builds the configured status panel once at startup and
// renders frames of it for the live view and the one-shot commands.
package panel

import (
	"fmt"
	"strings"
	"sync"

	"github.com/haryoiro/tunepanel/internal/logger"
	"github.com/haryoiro/tunepanel/internal/structures"
	"github.com/haryoiro/tunepanel/pkg/templ"
	"github.com/muesli/termenv"
)

// Panel is a parsed template plus the notice line shown under it.
type Panel struct {
	renderer *templ.Renderer
	notice   *templ.Line
	cfg      structures.PanelConfig
}

// Frame is one rendered panel.
type Frame struct {
	Lines    []string
	Notice   string
	Warnings []templ.Warning
}

// String joins the panel lines and the notice.
func (f Frame) String() string {
	lines := f.Lines
	if f.Notice != "" {
		lines = append(lines[:len(lines):len(lines)], f.Notice)
	}
	return strings.Join(lines, "\n")
}

// New parses src with the built-in aliases registered and prepares a
// renderer using profile for color escapes.
func New(cfg structures.PanelConfig, src string, profile termenv.Profile) (*Panel, error) {
	reg := templ.NewRegistry()
	if err := templ.RegisterBuiltins(reg); err != nil {
		return nil, err
	}

	tmpl, err := templ.Parse(src, reg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	opts := []templ.Option{templ.WithProfile(profile)}
	if cfg.DefaultColor != "" {
		c, err := templ.ParseColor(cfg.DefaultColor)
		if err != nil {
			return nil, fmt.Errorf("invalid default_color: %w", err)
		}
		opts = append(opts, templ.WithDefaultColor(c))
	}

	p := &Panel{
		renderer: templ.NewRenderer(tmpl, opts...),
		cfg:      cfg,
	}
	if cfg.Notice != "" {
		p.notice, err = templ.ParseLine(cfg.Notice)
		if err != nil {
			return nil, fmt.Errorf("failed to parse notice: %w", err)
		}
	}
	return p, nil
}

// Template returns the parsed template.
func (p *Panel) Template() *templ.Template {
	return p.renderer.Template()
}

// ParseWarnings returns the problems found while parsing the template.
func (p *Panel) ParseWarnings() []templ.Warning {
	return p.renderer.Template().Warnings()
}

// CheckWidth validates lines without a fill marker against width when
// strict_width is set.
func (p *Panel) CheckWidth(width int) error {
	if !p.cfg.StrictWidth {
		return nil
	}
	return p.renderer.Template().ValidateWidth(width)
}

// Render renders the panel at width, grown to the configured height.
func (p *Panel) Render(md templ.Metadata, width int, colorEnabled bool) Frame {
	return p.RenderRows(md, width, 0, colorEnabled)
}

// RenderRows renders the panel at width. With no configured height the
// growable lines fill rows, counting the notice line; rows <= 0 disables
// growth.
func (p *Panel) RenderRows(md templ.Metadata, width, rows int, colorEnabled bool) Frame {
	notice := p.renderer.RenderNotice(p.notice, md, colorEnabled)

	height := p.cfg.Height
	if height == 0 && rows > 0 {
		height = rows
		if notice != "" {
			height--
		}
	}

	res := p.renderer.RenderHeight(md, width, height, colorEnabled)
	return Frame{
		Lines:    res.Lines,
		Notice:   notice,
		Warnings: res.Warnings,
	}
}

// WarningLog logs each distinct warning once.
type WarningLog struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewWarningLog returns an empty warning log.
func NewWarningLog() *WarningLog {
	return &WarningLog{seen: make(map[string]struct{})}
}

// Report logs the warnings not seen before and returns them.
func (w *WarningLog) Report(warnings []templ.Warning) []templ.Warning {
	w.mu.Lock()
	defer w.mu.Unlock()

	var fresh []templ.Warning
	for _, warning := range warnings {
		key := warning.String()
		if _, ok := w.seen[key]; ok {
			continue
		}
		w.seen[key] = struct{}{}
		fresh = append(fresh, warning)
		logger.Warn("%s", key)
	}
	return fresh
}
