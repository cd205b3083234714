// Package config loads the TOML configuration, validates it, and
// watches the file for live reload. Separator and alignment values are
// rejected here so render passes never see them malformed.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/chime/internal/notify"
	"github.com/dshills/chime/internal/notify/spin"
	"github.com/dshills/chime/internal/renderer"
	"github.com/dshills/chime/internal/renderer/core"
	"github.com/dshills/chime/internal/renderer/highlight"
	"github.com/dshills/chime/internal/renderer/layout"
)

// File mirrors the TOML document. Pointer fields distinguish an absent
// key from an explicit zero value.
type File struct {
	Render  RenderSection           `toml:"render"`
	Model   ModelSection            `toml:"model"`
	Poll    PollSection             `toml:"poll"`
	History HistorySection          `toml:"history"`
	Script  ScriptSection           `toml:"script"`
	Styles  map[string]StyleSection `toml:"styles"`
	Groups  map[string]GroupSection `toml:"groups"`
}

// RenderSection configures the renderer.
type RenderSection struct {
	StackUpwards   *bool   `toml:"stack_upwards"`
	LineMargin     *int    `toml:"line_margin"`
	Align          string  `toml:"align"`
	IconSeparator  *string `toml:"icon_separator"`
	GroupSeparator *string `toml:"group_separator"`
	SeparatorStyle string  `toml:"separator_style"`
	Highlight      string  `toml:"highlight"`
	HideConceal    bool    `toml:"hide_conceal"`
	DefaultStyle   string  `toml:"default_style"`
	RenderMessage  string  `toml:"render_message"`
}

// ModelSection configures the notification model.
type ModelSection struct {
	DefaultTTL string `toml:"default_ttl"`
}

// PollSection configures the render poller.
type PollSection struct {
	Period string `toml:"period"`
}

// HistorySection configures the removal archive.
type HistorySection struct {
	Size int `toml:"size"`
}

// ScriptSection names Lua hook sources. The host compiles them and
// wires the functions the render section references.
type ScriptSection struct {
	Path   string `toml:"path"`
	Inline string `toml:"inline"`
}

// StyleSection is one palette override.
type StyleSection struct {
	Foreground string `toml:"fg"`
	Background string `toml:"bg"`
	Bold       bool   `toml:"bold"`
	Dim        bool   `toml:"dim"`
	Italic     bool   `toml:"italic"`
	Underline  bool   `toml:"underline"`
	Reverse    bool   `toml:"reverse"`
}

// GroupSection is one notification group.
type GroupSection struct {
	Name          *string `toml:"name"`
	Icon          string  `toml:"icon"`
	Spinner       string  `toml:"spinner"`
	SpinnerPeriod string  `toml:"spinner_period"`
	Style         string  `toml:"style"`
	IconStyle     string  `toml:"icon_style"`
	IconOnLeft    bool    `toml:"icon_on_left"`
	AnnoteSep     *string `toml:"annote_separator"`
	RenderLimit   int     `toml:"render_limit"`
	TTL           string  `toml:"ttl"`
}

// Config is the resolved, validated configuration.
type Config struct {
	Render      renderer.Options
	Model       notify.Options
	Groups      map[string]notify.GroupConfig
	Styles      map[string]core.Style
	HistorySize int
	PollPeriod  time.Duration

	// Script holds the Lua sources; RenderMessage names the hook
	// function the host wires after compiling them.
	Script        ScriptSection
	RenderMessage string
}

// Default returns the built-in configuration. Zero sizes and periods
// delegate to their package defaults.
func Default() Config {
	return Config{
		Render: renderer.DefaultOptions(),
		Model:  notify.DefaultOptions(),
		Groups: make(map[string]notify.GroupConfig),
		Styles: make(map[string]core.Style),
	}
}

// Load reads and parses the file at path. A missing file yields the
// defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes and validates TOML data. source names the origin for
// error messages.
func Parse(source string, data []byte) (Config, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return Config{}, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return f.resolve(source)
}

func (f File) resolve(source string) (Config, error) {
	cfg := Default()
	r := &cfg.Render

	if f.Render.StackUpwards != nil {
		r.StackUpwards = *f.Render.StackUpwards
	}
	if f.Render.LineMargin != nil {
		r.LineMargin = *f.Render.LineMargin
	}
	if f.Render.Align != "" {
		a, err := layout.ParseAlign(f.Render.Align)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", source, err)
		}
		r.Align = a
	}
	if f.Render.IconSeparator != nil {
		r.IconSeparator = *f.Render.IconSeparator
	}
	if f.Render.GroupSeparator != nil {
		r.GroupSeparator = *f.Render.GroupSeparator
	}
	if f.Render.SeparatorStyle != "" {
		r.SeparatorStyle = f.Render.SeparatorStyle
	}
	r.Highlight = f.Render.Highlight
	r.HideConceal = f.Render.HideConceal
	if f.Render.DefaultStyle != "" {
		r.DefaultStyle = f.Render.DefaultStyle
	}
	cfg.RenderMessage = f.Render.RenderMessage
	cfg.Script = f.Script

	if err := r.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", source, err)
	}

	if f.Model.DefaultTTL != "" {
		d, err := parseTTL(f.Model.DefaultTTL)
		if err != nil {
			return Config{}, fmt.Errorf("%s: default_ttl: %w", source, err)
		}
		cfg.Model.DefaultTTL = d
	}
	if f.Poll.Period != "" {
		d, err := time.ParseDuration(f.Poll.Period)
		if err != nil {
			return Config{}, fmt.Errorf("%s: poll period: %w", source, err)
		}
		cfg.PollPeriod = d
	}
	if f.History.Size > 0 {
		cfg.HistorySize = f.History.Size
	}

	for name, s := range f.Styles {
		st, err := s.style()
		if err != nil {
			return Config{}, fmt.Errorf("%s: style %q: %w", source, name, err)
		}
		cfg.Styles[name] = st
	}

	for key, g := range f.Groups {
		gc, err := g.config(key)
		if err != nil {
			return Config{}, fmt.Errorf("%s: group %q: %w", source, key, err)
		}
		cfg.Groups[key] = gc
	}

	return cfg, nil
}

func (s StyleSection) style() (core.Style, error) {
	st := core.DefaultStyle()
	if s.Foreground != "" {
		c, err := core.ColorFromHex(s.Foreground)
		if err != nil {
			return core.Style{}, err
		}
		st = st.WithForeground(c)
	}
	if s.Background != "" {
		c, err := core.ColorFromHex(s.Background)
		if err != nil {
			return core.Style{}, err
		}
		st = st.WithBackground(c)
	}
	if s.Bold {
		st = st.Bold()
	}
	if s.Dim {
		st = st.Dim()
	}
	if s.Italic {
		st = st.Italic()
	}
	if s.Underline {
		st = st.Underline()
	}
	if s.Reverse {
		st = st.Reverse()
	}
	return st, nil
}

func (g GroupSection) config(key string) (notify.GroupConfig, error) {
	cfg := notify.DefaultGroupConfig()

	if g.Name != nil {
		cfg.Name = notify.Static(*g.Name)
	} else {
		cfg.Name = notify.Static(key)
	}

	switch {
	case g.Spinner != "":
		var period time.Duration
		if g.SpinnerPeriod != "" {
			d, err := time.ParseDuration(g.SpinnerPeriod)
			if err != nil {
				return notify.GroupConfig{}, fmt.Errorf("spinner_period: %w", err)
			}
			period = d
		}
		sp, err := spin.New(g.Spinner, period)
		if err != nil {
			return notify.GroupConfig{}, err
		}
		cfg.Icon = sp
	case g.Icon != "":
		cfg.Icon = notify.Static(g.Icon)
	}

	if g.Style != "" {
		cfg.Style = g.Style
	}
	cfg.IconStyle = g.IconStyle
	cfg.IconOnLeft = g.IconOnLeft

	if g.AnnoteSep != nil {
		if strings.Contains(*g.AnnoteSep, "\n") {
			return notify.GroupConfig{}, fmt.Errorf("annote separator contains a newline")
		}
		cfg.AnnoteSep = *g.AnnoteSep
	}
	if g.RenderLimit > 0 {
		cfg.RenderLimit = g.RenderLimit
	}
	if g.TTL != "" {
		d, err := parseTTL(g.TTL)
		if err != nil {
			return notify.GroupConfig{}, fmt.Errorf("ttl: %w", err)
		}
		cfg.TTL = d
	}

	return cfg, nil
}

// parseTTL parses a lifetime. "never" disables expiry.
func parseTTL(s string) (time.Duration, error) {
	if s == "never" {
		return -1, nil
	}
	return time.ParseDuration(s)
}

// ApplyStyles registers the configured style overrides on a palette.
func (c Config) ApplyStyles(pal *highlight.Palette) {
	for name, st := range c.Styles {
		pal.Register(name, st)
	}
}

// ApplyGroups registers the configured groups on a model.
func (c Config) ApplyGroups(m *notify.Model) {
	for key, gc := range c.Groups {
		m.RegisterGroup(key, gc)
	}
}

// ParseError reports a malformed configuration file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
