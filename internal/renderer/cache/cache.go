// Package cache memoizes rendered group headers and item output across
// render passes. Staleness is tracked by independent signals: content
// identity (the key), the freshly resolved icon for headers, the
// occurrence count for items, and the observed window width.
package cache

import "github.com/dshills/chime/internal/renderer/core"

type headerEntry struct {
	lines []core.Line
	width int
	icon  string
}

type itemEntry struct {
	lines      []core.Line
	width      int
	count      int
	suppressed bool
}

type sepEntry struct {
	lines []core.Line
	width int
}

// Stats counts cache outcomes.
type Stats struct {
	HeaderHits   int
	HeaderMisses int
	ItemHits     int
	ItemMisses   int
	Resizes      int
}

// Cache holds the memoized render output. It is not safe for
// concurrent use; render passes are serialized by the caller.
type Cache struct {
	headers map[string]*headerEntry
	items   map[any]*itemEntry
	sep     *sepEntry

	// renderWidth is the last observed window column count, the
	// resize sentinel. Zero means no width has been observed yet.
	renderWidth int

	stats Stats
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		headers: make(map[string]*headerEntry),
		items:   make(map[any]*itemEntry),
	}
}

// Stats returns the accumulated counters.
func (c *Cache) Stats() Stats {
	return c.stats
}

// Width returns the current width sentinel, zero when unset.
func (c *Cache) Width() int {
	return c.renderWidth
}

// InvalidateAll drops every entry and resets the width sentinel.
func (c *Cache) InvalidateAll() {
	c.headers = make(map[string]*headerEntry)
	c.items = make(map[any]*itemEntry)
	c.sep = nil
	c.renderWidth = 0
}

// Sweep drops header and item entries whose keys were not seen in the
// latest pass, keeping a long-lived cache bounded by the live set.
func (c *Cache) Sweep(headers map[string]struct{}, items map[any]struct{}) {
	for name := range c.headers {
		if _, ok := headers[name]; !ok {
			delete(c.headers, name)
		}
	}
	for key := range c.items {
		if _, ok := items[key]; !ok {
			delete(c.items, key)
		}
	}
}

// Pass is the per-render-pass view of the cache. It records whether
// this pass observed a resize; entries are still checked individually
// against their own staleness signals.
type Pass struct {
	c       *Cache
	width   int
	resized bool
	sepDone bool
}

// Begin starts a render pass at the observed window width. A mismatch
// with the stored sentinel marks the pass resized; the sentinel is
// updated whenever it was unset or a resize was observed.
func (c *Cache) Begin(width int) *Pass {
	resized := c.renderWidth != 0 && c.renderWidth != width
	if c.renderWidth == 0 || resized {
		c.renderWidth = width
	}
	if resized {
		c.stats.Resizes++
	}
	return &Pass{c: c, width: width, resized: resized}
}

// Resized reports whether this pass observed a width change.
func (p *Pass) Resized() bool {
	return p.resized
}

// Header resolves a group header through the cache. name is the
// resolved display name and icon the freshly resolved icon value; a
// hit requires an entry for the name, no resize this pass, and an
// unchanged icon. An entry without lines is treated as a miss.
func (p *Pass) Header(name, icon string, recompute func() ([]core.Line, int)) ([]core.Line, int) {
	e, ok := p.c.headers[name]
	if ok && !p.resized && e.icon == icon && e.lines != nil {
		p.c.stats.HeaderHits++
		return e.lines, e.width
	}

	p.c.stats.HeaderMisses++
	lines, width := recompute()
	p.c.headers[name] = &headerEntry{lines: lines, width: width, icon: icon}
	return lines, width
}

// Item resolves a deduplicated item through the cache. A hit requires
// an entry for the content key, no resize this pass, an unchanged
// occurrence count, and a sentinel equal to the observed width; the
// count and sentinel checks are evaluated independently. An entry with
// neither lines nor a recorded suppression is treated as a miss.
func (p *Pass) Item(key any, count int, recompute func() (lines []core.Line, width int, suppressed bool)) ([]core.Line, int, bool) {
	e, ok := p.c.items[key]
	if ok && !p.resized && e.count == count && p.c.renderWidth == p.width &&
		(e.lines != nil || e.suppressed) {
		p.c.stats.ItemHits++
		return e.lines, e.width, e.suppressed
	}

	p.c.stats.ItemMisses++
	lines, width, suppressed := recompute()
	p.c.items[key] = &itemEntry{lines: lines, width: width, count: count, suppressed: suppressed}
	return lines, width, suppressed
}

// Separator resolves the single global separator chunk, recomputed on
// first use or when this pass observed a resize, then reused for the
// remainder of the pass.
func (p *Pass) Separator(recompute func() ([]core.Line, int)) ([]core.Line, int) {
	if !p.sepDone && (p.c.sep == nil || p.resized || p.c.sep.lines == nil) {
		lines, width := recompute()
		p.c.sep = &sepEntry{lines: lines, width: width}
	}
	p.sepDone = true
	return p.c.sep.lines, p.c.sep.width
}
