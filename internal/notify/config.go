package notify

import "time"

// GroupConfig controls how one notification group is rendered.
type GroupConfig struct {
	// Name is the header display name, possibly dynamic. When nil, the
	// group's key is used.
	Name Value

	// Icon accompanies the name, possibly dynamic (e.g. a spinner).
	Icon Value

	// Style is the highlight group for the header name.
	Style string

	// IconStyle is the highlight group for the icon. Empty falls back
	// to Style.
	IconStyle string

	// IconOnLeft places the icon before the name in the header.
	IconOnLeft bool

	// AnnoteSep joins an item's annotation to its message and supplies
	// the continuation padding character.
	AnnoteSep string

	// RenderLimit caps the deduplicated items rendered per pass.
	// Zero means no limit.
	RenderLimit int

	// TTL is the default lifetime for this group's items. Zero falls
	// back to the model default; negative means never expire.
	TTL time.Duration
}

// DefaultGroupConfig returns the configuration applied to groups that
// were never registered.
func DefaultGroupConfig() GroupConfig {
	return GroupConfig{
		Style:     "title",
		AnnoteSep: " ",
	}
}
