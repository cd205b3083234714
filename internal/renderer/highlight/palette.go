// Package highlight resolves named highlight groups to identifiers and
// styles, and compiles external capture spans into the per-token records
// the wrapper reconciles during layout.
package highlight

import "github.com/dshills/chime/internal/renderer/core"

// Default group names registered by every palette.
const (
	GroupNormal  = "normal"
	GroupTitle   = "title"
	GroupIcon    = "icon"
	GroupConceal = "conceal"
	GroupInfo    = "info"
	GroupWarn    = "warn"
	GroupError   = "error"
	GroupDebug   = "debug"
	GroupSuccess = "success"
)

// Palette maps highlight group names to stable identifiers and styles.
// Capture groups resolve through Resolve, which falls back to the
// "@"-prefixed variant and then to the normal group. The palette is
// mutated only at configuration time; render passes read it without
// synchronization.
type Palette struct {
	ids     map[string]core.HighlightID
	names   []string
	styles  []core.Style
	def     core.HighlightID
	conceal core.HighlightID
}

// NewPalette creates a palette with the builtin groups registered.
func NewPalette() *Palette {
	p := &Palette{ids: make(map[string]core.HighlightID)}

	p.Register(GroupNormal, core.DefaultStyle())
	p.Register(GroupTitle, core.DefaultStyle().Bold())
	p.Register(GroupIcon, core.NewStyle(core.ColorYellow))
	p.Register(GroupConceal, core.DefaultStyle().Dim())
	p.Register(GroupInfo, core.NewStyle(core.ColorBlue))
	p.Register(GroupWarn, core.NewStyle(core.ColorYellow))
	p.Register(GroupError, core.NewStyle(core.ColorRed))
	p.Register(GroupDebug, core.NewStyle(core.ColorGray))
	p.Register(GroupSuccess, core.NewStyle(core.ColorGreen))

	// Syntax groups carry the "@" capture convention so that plain
	// capture names resolve through the prefixed fallback.
	p.Register("@comment", core.NewStyle(core.ColorGray).Italic())
	p.Register("@keyword", core.NewStyle(core.ColorMagenta))
	p.Register("@string", core.NewStyle(core.ColorGreen))
	p.Register("@number", core.NewStyle(core.ColorCyan))
	p.Register("@function", core.NewStyle(core.ColorBlue))
	p.Register("@type", core.NewStyle(core.ColorCyan).Bold())
	p.Register("@constant", core.NewStyle(core.ColorCyan))
	p.Register("@operator", core.DefaultStyle())
	p.Register("@punctuation", core.DefaultStyle())
	p.Register("@variable", core.DefaultStyle())

	p.def = p.ids[GroupNormal]
	p.conceal = p.ids[GroupConceal]
	return p
}

// Register adds a group or updates the style of an existing one. The
// identifier of a re-registered group never changes.
func (p *Palette) Register(name string, style core.Style) core.HighlightID {
	if id, ok := p.ids[name]; ok {
		p.styles[id] = style
		return id
	}
	id := core.HighlightID(len(p.names))
	p.ids[name] = id
	p.names = append(p.names, name)
	p.styles = append(p.styles, style)
	return id
}

// Lookup returns the identifier for an exact group name.
func (p *Palette) Lookup(name string) (core.HighlightID, bool) {
	id, ok := p.ids[name]
	return id, ok
}

// Resolve returns the identifier for name, trying the exact name, then
// the "@"-prefixed variant, then the normal group.
func (p *Palette) Resolve(name string) core.HighlightID {
	if id, ok := p.ids[name]; ok {
		return id
	}
	if id, ok := p.ids["@"+name]; ok {
		return id
	}
	return p.def
}

// Style returns the style for an identifier. Unknown identifiers map to
// the default style.
func (p *Palette) Style(id core.HighlightID) core.Style {
	if id < 0 || int(id) >= len(p.styles) {
		return core.DefaultStyle()
	}
	return p.styles[id]
}

// StyleFor merges the styles of an ordered identifier list, later
// entries layered over earlier ones.
func (p *Palette) StyleFor(ids []core.HighlightID) core.Style {
	style := core.DefaultStyle()
	for _, id := range ids {
		style = style.Merge(p.Style(id))
	}
	return style
}

// Name returns the group name for an identifier, or "" if unknown.
func (p *Palette) Name(id core.HighlightID) string {
	if id < 0 || int(id) >= len(p.names) {
		return ""
	}
	return p.names[id]
}

// Default returns the normal group's identifier.
func (p *Palette) Default() core.HighlightID {
	return p.def
}

// Conceal returns the conceal group's identifier.
func (p *Palette) Conceal() core.HighlightID {
	return p.conceal
}

// Len returns the number of registered groups.
func (p *Palette) Len() int {
	return len(p.names)
}
