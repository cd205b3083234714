// Package notify holds the live notification model: items posted by
// callers, grouped by key, updated in place, and expired over time.
// Render passes consume snapshots; the model never renders.
package notify

import (
	"sync"
	"time"
)

// Item is one notification.
type Item struct {
	// Key identifies the item for updates within its group. Posts with
	// a nil key always create a new item.
	Key any

	// ContentKey groups identically rendered items for deduplication.
	// Nil falls back to the item's own identity.
	ContentKey any

	// Message is the display text, possibly multi-line.
	Message string

	// Annote is the annotation text, "" for none.
	Annote string

	// Style is the highlight group for the message, "" for the
	// renderer default.
	Style string

	// Hidden keeps the item in the model but out of the output.
	Hidden bool

	// SkipHistory keeps the item out of the history ring on removal.
	SkipHistory bool

	// Posted and Updated are bookkeeping timestamps.
	Posted  time.Time
	Updated time.Time

	// Expiry is when the item is pruned. Zero means never.
	Expiry time.Time
}

// Group is a keyed collection of items sharing one header config.
type Group struct {
	Key    string
	Config GroupConfig
	Items  []*Item
}

// Notification describes one post or update.
type Notification struct {
	Group       string
	Key         any
	ContentKey  any
	Message     string
	Annote      string
	Style       string
	Hidden      bool
	SkipHistory bool

	// TTL overrides the item lifetime. Zero inherits the group's TTL,
	// then the model default; negative means never expire.
	TTL time.Duration
}

// Options configures a Model.
type Options struct {
	// DefaultTTL is the item lifetime when neither the notification
	// nor its group sets one.
	DefaultTTL time.Duration

	// Defaults is the configuration for unregistered groups.
	Defaults GroupConfig
}

// DefaultOptions returns the default model configuration.
func DefaultOptions() Options {
	return Options{
		DefaultTTL: 5 * time.Second,
		Defaults:   DefaultGroupConfig(),
	}
}

// Model owns the notification state. It is safe for concurrent use;
// render snapshots are taken under the lock and never mutated by the
// model afterwards.
type Model struct {
	mu       sync.Mutex
	groups   map[string]*Group
	order    []string
	configs  map[string]GroupConfig
	defaults GroupConfig
	ttl      time.Duration
}

// New creates an empty model.
func New(opts Options) *Model {
	if opts.DefaultTTL == 0 {
		opts.DefaultTTL = DefaultOptions().DefaultTTL
	}
	return &Model{
		groups:   make(map[string]*Group),
		configs:  make(map[string]GroupConfig),
		defaults: opts.Defaults,
		ttl:      opts.DefaultTTL,
	}
}

// RegisterGroup stores the configuration applied when the named group
// is created. An existing group picks the new configuration up
// immediately.
func (m *Model) RegisterGroup(key string, cfg GroupConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.configs[key] = cfg
	if g, ok := m.groups[key]; ok {
		g.Config = cfg
	}
}

// Post inserts or updates a notification and returns the stored item.
// An existing item is found by the notification's key within its
// group; posts with a nil key always append. Updates replace the
// stored item rather than mutating it, so items already published in
// a snapshot never change underneath a render pass.
func (m *Model) Post(now time.Time, n Notification) *Item {
	m.mu.Lock()
	defer m.mu.Unlock()

	g := m.ensureGroup(n.Group)

	item := &Item{
		Key:         n.Key,
		ContentKey:  n.ContentKey,
		Message:     n.Message,
		Annote:      n.Annote,
		Style:       n.Style,
		Hidden:      n.Hidden,
		SkipHistory: n.SkipHistory,
		Posted:      now,
		Updated:     now,
		Expiry:      m.expiry(now, n.TTL, g.Config.TTL),
	}

	if n.Key != nil {
		for i, it := range g.Items {
			if it.Key == n.Key {
				item.Posted = it.Posted
				g.Items[i] = item
				return item
			}
		}
	}
	g.Items = append(g.Items, item)
	return item
}

// Remove deletes an item by key and returns it, or nil if absent.
func (m *Model) Remove(group string, key any) *Item {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.groups[group]
	if !ok {
		return nil
	}
	for i, it := range g.Items {
		if it.Key == key {
			g.Items = append(g.Items[:i], g.Items[i+1:]...)
			if len(g.Items) == 0 {
				m.dropGroup(group)
			}
			return it
		}
	}
	return nil
}

// Removal pairs a pruned item with the group it belonged to, for
// history recording.
type Removal struct {
	Group string
	Item  *Item
}

// Tick prunes expired items and empty groups. It returns the removals
// in group order for history recording.
func (m *Model) Tick(now time.Time) []Removal {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed []Removal
	for _, key := range append([]string(nil), m.order...) {
		g := m.groups[key]
		kept := g.Items[:0]
		for _, it := range g.Items {
			if !it.Expiry.IsZero() && !it.Expiry.After(now) {
				removed = append(removed, Removal{Group: key, Item: it})
				continue
			}
			kept = append(kept, it)
		}
		g.Items = kept
		if len(g.Items) == 0 {
			m.dropGroup(key)
		}
	}
	return removed
}

// Groups returns a render snapshot: fresh Group values with copied
// item slices, in first-use order. Items are immutable once published,
// so sharing them with the snapshot is safe.
func (m *Model) Groups() []*Group {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Group, 0, len(m.order))
	for _, key := range m.order {
		g := m.groups[key]
		out = append(out, &Group{
			Key:    g.Key,
			Config: g.Config,
			Items:  append([]*Item(nil), g.Items...),
		})
	}
	return out
}

// Len returns the total number of live items.
func (m *Model) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, g := range m.groups {
		n += len(g.Items)
	}
	return n
}

func (m *Model) ensureGroup(key string) *Group {
	if g, ok := m.groups[key]; ok {
		return g
	}

	cfg, ok := m.configs[key]
	if !ok {
		cfg = m.defaults
	}
	if cfg.Name == nil {
		cfg.Name = Static(key)
	}

	g := &Group{Key: key, Config: cfg}
	m.groups[key] = g
	m.order = append(m.order, key)
	return g
}

func (m *Model) dropGroup(key string) {
	delete(m.groups, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// expiry resolves the TTL inheritance chain to an absolute deadline.
func (m *Model) expiry(now time.Time, itemTTL, groupTTL time.Duration) time.Time {
	ttl := itemTTL
	if ttl == 0 {
		ttl = groupTTL
	}
	if ttl == 0 {
		ttl = m.ttl
	}
	if ttl < 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
