package layout

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dshills/chime/internal/renderer/core"
)

// Align selects how wrapped continuation lines relate to the
// annotation column.
type Align uint8

const (
	// AlignMessage indents continuation lines under the message by the
	// annotation's visible width.
	AlignMessage Align = iota
	// AlignAnnote leaves continuation lines unpadded; the presentation
	// layer renders the annotation as its own fixed column.
	AlignAnnote
)

// String returns the alignment mode name.
func (a Align) String() string {
	switch a {
	case AlignMessage:
		return "message"
	case AlignAnnote:
		return "annote"
	default:
		return "unknown"
	}
}

// ParseAlign parses an alignment mode name.
func ParseAlign(s string) (Align, error) {
	switch s {
	case "message":
		return AlignMessage, nil
	case "annote":
		return AlignAnnote, nil
	default:
		return AlignMessage, fmt.Errorf("unknown align mode %q", s)
	}
}

// aligner decides the prefix span for each wrapped line of one item:
// the annotation itself on the item's first line, blank padding of the
// annotation's visible width on continuation lines in message mode,
// nothing otherwise.
type aligner struct {
	mode    Align
	prefix  core.RenderToken
	pad     core.RenderToken
	prefixW int
	padW    int
	active  bool
}

func newAligner(annote, sep string, mode Align, id core.HighlightID, m core.Measurer) aligner {
	if annote == "" {
		return aligner{mode: mode}
	}

	prefix := annote + sep
	pad := padText(sep, m.Width(annote), m)

	return aligner{
		mode:   mode,
		active: true,
		prefix: core.RenderToken{
			Kind:       core.SpanAnnote,
			SCol:       0,
			ECol:       utf8.RuneCountInString(prefix),
			Text:       prefix,
			Highlights: []core.HighlightID{id},
		},
		pad: core.RenderToken{
			Kind: core.SpanPad,
			SCol: 0,
			ECol: utf8.RuneCountInString(pad),
			Text: pad,
		},
		prefixW: m.Width(prefix),
		padW:    m.Width(pad),
	}
}

// apply returns the prefix span for a line and its width contribution.
// first marks the item's first wrapped line; hasText reports whether
// the line carries any text tokens. ok is false when the line takes no
// prefix.
func (a aligner) apply(first, hasText bool) (core.RenderToken, int, bool) {
	if !a.active {
		return core.RenderToken{}, 0, false
	}
	if first {
		return a.prefix, a.prefixW, true
	}
	if a.mode == AlignMessage && hasText {
		return a.pad, a.padW, true
	}
	return core.RenderToken{}, 0, false
}

// padText builds blank padding of the given visible width from
// repetitions of the separator's first character, defaulting to spaces.
func padText(sep string, width int, m core.Measurer) string {
	if width <= 0 {
		return ""
	}
	r := ' '
	if sep != "" {
		r, _ = utf8.DecodeRuneInString(sep)
	}
	rw := m.Width(string(r))
	if rw <= 0 {
		r, rw = ' ', 1
	}
	return strings.Repeat(string(r), width/rw)
}
