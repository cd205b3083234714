package renderer

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dshills/chime/internal/logging"
	"github.com/dshills/chime/internal/notify"
	"github.com/dshills/chime/internal/renderer/cache"
	"github.com/dshills/chime/internal/renderer/core"
	"github.com/dshills/chime/internal/renderer/highlight"
	"github.com/dshills/chime/internal/renderer/layout"
)

// Surface reports the display properties observed once per pass.
// This interface abstracts the window for rendering.
type Surface interface {
	// Columns returns the render width in display columns.
	Columns() int

	// Tabstop returns the tab expansion width.
	Tabstop() int

	// ExtendedHighlights reports whether the display can show the
	// capture palette. Captures are skipped when it cannot.
	ExtendedHighlights() bool
}

// Frame is the output of one render pass: the display lines top to
// bottom and the width of the widest line.
type Frame struct {
	Lines []core.Line
	Width int
}

// Renderer turns model snapshots into frames.
type Renderer struct {
	opts    Options
	surface Surface
	palette *highlight.Palette
	source  highlight.CaptureSource
	cache   *cache.Cache
	log     *logging.Logger
}

// New creates a renderer over the given surface and palette.
func New(surface Surface, palette *highlight.Palette, opts Options) *Renderer {
	return &Renderer{
		opts:    opts,
		surface: surface,
		palette: palette,
		cache:   cache.New(),
		log:     logging.Null,
	}
}

// SetCaptureSource sets the syntax capture source. A nil source
// disables capture highlighting.
func (r *Renderer) SetCaptureSource(src highlight.CaptureSource) {
	r.source = src
	r.cache.InvalidateAll()
}

// SetLogger sets the logger for degrade-path diagnostics.
func (r *Renderer) SetLogger(log *logging.Logger) {
	if log == nil {
		log = logging.Null
	}
	r.log = log
}

// SetOptions replaces the options and drops all cached lines.
func (r *Renderer) SetOptions(opts Options) {
	r.opts = opts
	r.cache.InvalidateAll()
}

// Options returns the current options.
func (r *Renderer) Options() Options {
	return r.opts
}

// CacheStats reports cache hit counters for diagnostics.
func (r *Renderer) CacheStats() cache.Stats {
	return r.cache.Stats()
}

// passState carries the values derived once per render pass.
type passState struct {
	pass      *cache.Pass
	measure   core.Measurer
	width     int
	extended  bool
	defID     core.HighlightID
	concealID core.HighlightID

	liveHeaders map[string]struct{}
	liveItems   map[any]struct{}
}

// Render produces the frame for one model snapshot. Group chunks are
// separated by the group separator and reversed as a whole when
// stacking upward; lines within a chunk keep their order.
func (r *Renderer) Render(now time.Time, groups []*notify.Group) Frame {
	st := &passState{
		measure: core.Measurer{
			Tabstop:    r.surface.Tabstop(),
			LineMargin: r.opts.LineMargin,
		},
		width:       r.surface.Columns(),
		extended:    r.surface.ExtendedHighlights(),
		defID:       r.palette.Resolve(r.opts.DefaultStyle),
		concealID:   r.palette.Conceal(),
		liveHeaders: make(map[string]struct{}),
		liveItems:   make(map[any]struct{}),
	}
	st.pass = r.cache.Begin(st.width)

	var chunks [][]core.Line
	maxWidth := 0
	emitted := false

	for _, g := range groups {
		lines, w := r.renderGroup(now, g, st)
		if len(lines) == 0 {
			continue
		}
		if emitted && r.opts.GroupSeparator != "" {
			sep, sw := st.pass.Separator(func() ([]core.Line, int) {
				return r.renderSeparator(st.measure)
			})
			chunks = append(chunks, sep)
			if sw > maxWidth {
				maxWidth = sw
			}
		}
		chunks = append(chunks, lines)
		if w > maxWidth {
			maxWidth = w
		}
		emitted = true
	}

	r.cache.Sweep(st.liveHeaders, st.liveItems)

	if r.opts.StackUpwards {
		for i, j := 0, len(chunks)-1; i < j; i, j = i+1, j-1 {
			chunks[i], chunks[j] = chunks[j], chunks[i]
		}
	}

	var lines []core.Line
	for _, c := range chunks {
		lines = append(lines, c...)
	}
	return Frame{Lines: lines, Width: maxWidth}
}

// renderGroup renders one group chunk: the header when the group has a
// name or icon, then its deduplicated items in first-seen order.
func (r *Renderer) renderGroup(now time.Time, g *notify.Group, st *passState) ([]core.Line, int) {
	var lines []core.Line
	maxw := 0

	name := g.Key
	if g.Config.Name != nil {
		name = g.Config.Name.Resolve(now, g.Items)
	}
	icon := ""
	if g.Config.Icon != nil {
		icon = g.Config.Icon.Resolve(now, g.Items)
	}

	if name != "" || icon != "" {
		st.liveHeaders[name] = struct{}{}
		hl, hw := st.pass.Header(name, icon, func() ([]core.Line, int) {
			return r.renderHeader(name, icon, g.Config, st.measure)
		})
		lines = append(lines, hl...)
		if hw > maxw {
			maxw = hw
		}
	}

	entries := dedupItems(g.Items)
	if limit := g.Config.RenderLimit; limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	for _, e := range entries {
		st.liveItems[e.key] = struct{}{}
		il, iw, suppressed := st.pass.Item(e.key, e.count, func() ([]core.Line, int, bool) {
			return r.renderItem(e, g.Config, st)
		})
		if suppressed || e.item.Hidden {
			continue
		}
		lines = append(lines, il...)
		if iw > maxw {
			maxw = iw
		}
	}

	return lines, maxw
}

// dedupEntry is one rendered unit: the first-seen item for a content
// key and the number of items folded behind it.
type dedupEntry struct {
	item  *notify.Item
	key   any
	count int
}

// dedupItems folds items sharing a content key, preserving first-seen
// order. Counts accumulate over the whole group, so entries dropped by
// a later render limit still contribute to the counts of those kept.
func dedupItems(items []*notify.Item) []dedupEntry {
	var entries []dedupEntry
	index := make(map[any]int, len(items))

	for _, it := range items {
		key := it.ContentKey
		if key == nil {
			key = it
		}
		if i, ok := index[key]; ok {
			entries[i].count++
			continue
		}
		index[key] = len(entries)
		entries = append(entries, dedupEntry{item: it, key: key, count: 1})
	}
	return entries
}

// renderItem is the cache recompute path for one dedup entry.
func (r *Renderer) renderItem(e dedupEntry, cfg notify.GroupConfig, st *passState) ([]core.Line, int, bool) {
	hook := r.opts.RenderMessage
	if hook == nil {
		hook = DefaultMessage
	}
	msg, ok := hook(e.item.Message, e.count)
	if !ok {
		return nil, 0, true
	}

	baseID := st.defID
	if e.item.Style != "" {
		baseID = r.palette.Resolve(e.item.Style)
	}

	// Captures run over the item's original text; tokens the hook
	// shifted or rewrote fail reconciliation and render with the base
	// highlight.
	var records []highlight.Record
	if st.extended && r.opts.Highlight != "" && r.source != nil {
		recs, err := highlight.Resolve(r.source, r.palette, e.item.Message, r.opts.Highlight, nil)
		if err != nil {
			r.log.Debug("captures unavailable for %q: %v", r.opts.Highlight, err)
		} else {
			records = recs
		}
	}

	budget := st.width - 2*st.measure.LineMargin
	if e.item.Annote != "" {
		budget -= st.measure.Width(e.item.Annote + cfg.AnnoteSep)
	}

	res := layout.Wrap(msg, layout.Params{
		Budget:      budget,
		Annote:      e.item.Annote,
		Separator:   cfg.AnnoteSep,
		Align:       r.opts.Align,
		AnnoteID:    baseID,
		BaseID:      baseID,
		DefaultID:   st.defID,
		ConcealID:   st.concealID,
		HideConceal: r.opts.HideConceal,
		Records:     records,
		Measure:     st.measure,
	})
	return res.Lines, res.Width, false
}

// renderHeader builds the single header line: icon and name joined by
// the icon separator, ordered per the group config. Headers do not
// wrap.
func (r *Renderer) renderHeader(name, icon string, cfg notify.GroupConfig, measure core.Measurer) ([]core.Line, int) {
	nameID := r.palette.Resolve(cfg.Style)
	iconID := nameID
	if cfg.IconStyle != "" {
		iconID = r.palette.Resolve(cfg.IconStyle)
	}

	type part struct {
		text string
		ids  []core.HighlightID
	}
	var parts []part
	add := func(text string, ids []core.HighlightID) {
		if text == "" {
			return
		}
		if len(parts) > 0 && r.opts.IconSeparator != "" {
			parts = append(parts, part{text: r.opts.IconSeparator})
		}
		parts = append(parts, part{text: text, ids: ids})
	}
	if cfg.IconOnLeft {
		add(icon, []core.HighlightID{iconID})
		add(name, []core.HighlightID{nameID})
	} else {
		add(name, []core.HighlightID{nameID})
		add(icon, []core.HighlightID{iconID})
	}

	var line core.Line
	var full strings.Builder
	col := 0
	for _, p := range parts {
		n := utf8.RuneCountInString(p.text)
		line = append(line, core.RenderToken{
			Kind:       core.SpanText,
			SCol:       col,
			ECol:       col + n,
			Text:       p.text,
			Highlights: p.ids,
		})
		col += n
		full.WriteString(p.text)
	}

	line = withMargin(line, measure.LineMargin)
	return []core.Line{line}, measure.LineWidth(full.String())
}

// renderSeparator builds the line drawn between group chunks.
func (r *Renderer) renderSeparator(measure core.Measurer) ([]core.Line, int) {
	text := r.opts.GroupSeparator
	id := r.palette.Resolve(r.opts.SeparatorStyle)

	line := core.Line{{
		Kind:       core.SpanText,
		SCol:       0,
		ECol:       utf8.RuneCountInString(text),
		Text:       text,
		Highlights: []core.HighlightID{id},
	}}
	line = withMargin(line, measure.LineMargin)
	return []core.Line{line}, measure.LineWidth(text)
}

// withMargin frames a nonempty line with margin tokens on both ends.
func withMargin(line core.Line, m int) core.Line {
	if len(line) == 0 || m <= 0 {
		return line
	}
	margin := core.RenderToken{
		Kind: core.SpanMargin,
		SCol: 0,
		ECol: m,
		Text: strings.Repeat(" ", m),
	}
	out := make(core.Line, 0, len(line)+2)
	out = append(out, margin)
	out = append(out, line...)
	out = append(out, margin)
	return out
}
