package core

import "strings"

// HighlightID identifies a highlight group registered with the palette.
type HighlightID int

// HighlightNone marks the absence of a resolved highlight.
const HighlightNone HighlightID = -1

// SpanKind classifies a RenderToken within its line.
type SpanKind uint8

const (
	// SpanText is message text positioned by source-derived offsets.
	SpanText SpanKind = iota
	// SpanMargin is the blank framing contributed by the line margin.
	SpanMargin
	// SpanAnnote is the annotation prefix on an item's first line.
	SpanAnnote
	// SpanPad is the blank alignment padding on continuation lines.
	SpanPad
)

// String returns the span kind name.
func (k SpanKind) String() string {
	switch k {
	case SpanText:
		return "text"
	case SpanMargin:
		return "margin"
	case SpanAnnote:
		return "annote"
	case SpanPad:
		return "pad"
	default:
		return "unknown"
	}
}

// RenderToken is one displayable span of a wrapped line. For SpanText
// tokens, SCol and ECol (exclusive) are codepoint columns relative to
// the wrapped line's local origin, not to the original message; the gap
// between consecutive text tokens is next.SCol - prev.ECol. Synthetic
// spans (margin, annote, pad) are placed sequentially and carry column
// ranges in their own text space.
type RenderToken struct {
	Kind       SpanKind
	SCol       int
	ECol       int
	Text       string
	Highlights []HighlightID
}

// Tag merges id into the token's highlight list. A non-default id
// displaces default entries and is appended if absent; a default id
// never displaces an existing entry.
func (t *RenderToken) Tag(id, def HighlightID) {
	if id == def {
		if len(t.Highlights) == 0 {
			t.Highlights = []HighlightID{def}
		}
		return
	}

	out := make([]HighlightID, 0, len(t.Highlights)+1)
	present := false
	for _, h := range t.Highlights {
		if h == def {
			continue
		}
		if h == id {
			present = true
		}
		out = append(out, h)
	}
	if !present {
		out = append(out, id)
	}
	t.Highlights = out
}

// Tagged returns true if the token carries the given highlight.
func (t *RenderToken) Tagged(id HighlightID) bool {
	for _, h := range t.Highlights {
		if h == id {
			return true
		}
	}
	return false
}

// Line is one row of rendered output: an ordered sequence of
// RenderTokens, framed by margin tokens when a margin is configured.
// An empty Line is the empty sequence.
type Line []RenderToken

// Text reconstructs the visible text of the line. Gaps between
// positioned text tokens are restored as spaces; synthetic spans and
// concealed (erased) tokens render verbatim.
func (l Line) Text() string {
	var b strings.Builder
	prev := 0
	for _, t := range l {
		if t.Kind == SpanText {
			if gap := t.SCol - prev; gap > 0 {
				b.WriteString(strings.Repeat(" ", gap))
			}
			b.WriteString(t.Text)
			prev = t.ECol
		} else {
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

// Clone returns a deep copy of the line. Cached lines are shared across
// render passes; consumers that mutate tokens must clone first.
func (l Line) Clone() Line {
	if l == nil {
		return nil
	}
	out := make(Line, len(l))
	copy(out, l)
	for i := range out {
		if len(l[i].Highlights) > 0 {
			out[i].Highlights = append([]HighlightID(nil), l[i].Highlights...)
		}
	}
	return out
}
