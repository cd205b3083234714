package renderer

import (
	"fmt"
	"strings"

	"github.com/dshills/chime/internal/renderer/highlight"
	"github.com/dshills/chime/internal/renderer/layout"
)

// MessageHook rewrites an item's message before wrapping. count is the
// number of folded duplicates behind the item. Returning false
// suppresses the item for the pass.
type MessageHook func(message string, count int) (string, bool)

// DefaultMessage is the built-in message hook: a lone item renders
// verbatim, folded duplicates gain a count prefix.
func DefaultMessage(message string, count int) (string, bool) {
	if count <= 1 {
		return message, true
	}
	return fmt.Sprintf("(%dx) %s", count, message), true
}

// Options configures the renderer.
type Options struct {
	// Layout
	StackUpwards bool         // Last group chunk rendered first
	LineMargin   int          // Blank columns framing each visible line
	Align        layout.Align // Continuation alignment under annotations

	// Separators
	IconSeparator  string // Joins a header's icon and name
	GroupSeparator string // Line between group chunks, "" disables
	SeparatorStyle string // Highlight group for the separator line

	// Highlighting
	Highlight    string // Grammar for message captures, "" disables
	HideConceal  bool   // Erase concealed capture text
	DefaultStyle string // Highlight group for unstyled messages

	// Hooks
	RenderMessage MessageHook // nil uses DefaultMessage
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		StackUpwards:   true,
		LineMargin:     1,
		Align:          layout.AlignMessage,
		IconSeparator:  " ",
		GroupSeparator: "---",
		SeparatorStyle: "@comment",
		DefaultStyle:   highlight.GroupNormal,
	}
}

// Validate rejects option values a render pass cannot honor.
func (o Options) Validate() error {
	if strings.Contains(o.IconSeparator, "\n") {
		return fmt.Errorf("icon separator contains a newline")
	}
	if strings.Contains(o.GroupSeparator, "\n") {
		return fmt.Errorf("group separator contains a newline")
	}
	if o.LineMargin < 0 {
		return fmt.Errorf("line margin is negative: %d", o.LineMargin)
	}
	return nil
}
