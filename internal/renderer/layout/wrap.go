// Package layout wraps tokenized message text into bounded-width
// display lines, applying annotation alignment and reconciling external
// highlight records onto the emitted tokens.
package layout

import (
	"strings"

	"github.com/dshills/chime/internal/renderer/core"
	"github.com/dshills/chime/internal/renderer/highlight"
)

// Params configures one item's wrap.
type Params struct {
	// Budget is the maximum visible columns per line, already net of
	// margins and the annotation reserve.
	Budget int
	// Annote is the annotation text, "" for none.
	Annote string
	// Separator joins the annotation to the message and supplies the
	// padding character for continuation alignment.
	Separator string
	// Align selects the continuation alignment mode.
	Align Align
	// AnnoteID highlights the annotation prefix.
	AnnoteID core.HighlightID
	// BaseID tags every text token before overlay records apply.
	BaseID core.HighlightID
	// DefaultID is the normal group, used by the highlight merge rule.
	DefaultID core.HighlightID
	// ConcealID marks records whose text is suppressed.
	ConcealID core.HighlightID
	// HideConceal erases concealed text instead of tagging it.
	HideConceal bool
	// Records are the reconciled highlight records, nil for none.
	Records []highlight.Record
	// Measure supplies width measurement and the line margin.
	Measure core.Measurer
}

// Result is the wrapped output of one item.
type Result struct {
	Lines []core.Line
	Width int
}

// Wrap splits message on embedded newlines, wraps each logical line
// greedily within the budget, and returns the concatenated display
// lines with the maximum line width. Only the very first wrapped line
// of the whole item carries the annotation prefix.
func Wrap(message string, p Params) Result {
	s := &wrapState{
		p:     p,
		align: newAligner(p.Annote, p.Separator, p.Align, p.AnnoteID, p.Measure),
		first: true,
	}

	for _, src := range strings.Split(message, "\n") {
		s.wrapLogical(src)
	}

	return Result{Lines: s.out, Width: s.width}
}

// wrapState carries the per-item wrap bookkeeping: the emitted lines,
// the running maximum width, the first-line flag, and the counters the
// highlight reconciliation heuristic depends on.
type wrapState struct {
	p     Params
	align aligner

	out   []core.Line
	width int

	first   bool
	lineIdx int // index of the line under construction
	extra   int // wrap-inserted breaks so far
}

func (s *wrapState) wrapLogical(src string) {
	tokens := core.Tokenize(src)

	origin := 0
	pointer := 0
	prevEnd := 0
	var cur core.Line

	for _, tok := range tokens {
		spacing := tok.Start - prevEnd
		tw := s.p.Measure.Width(tok.Text)

		if pointer+tw+spacing >= s.p.Budget {
			s.push(cur, pointer)
			s.extra++
			cur = nil
			origin = tok.Start
			pointer = 0
			spacing = 0
		}

		rt := core.RenderToken{
			Kind:       core.SpanText,
			SCol:       tok.Start - origin,
			ECol:       tok.End - origin,
			Text:       tok.Text,
			Highlights: []core.HighlightID{s.p.BaseID},
		}
		pointer += spacing + tw
		s.overlay(&rt, tok, tw, &pointer)

		cur = append(cur, rt)
		prevEnd = tok.End
	}

	// The last open line is pushed even if empty; a token-less first
	// logical line with an annotation yields the annotation-only line.
	s.push(cur, pointer)
}

// push closes the line under construction: prefix per the aligner,
// margin framing when the line is visible, width accounting, append.
func (s *wrapState) push(tokens core.Line, pointer int) {
	var line core.Line
	lw := 0

	if prefix, w, ok := s.align.apply(s.first, len(tokens) > 0); ok {
		line = append(line, prefix)
		lw = w
	}
	line = append(line, tokens...)
	lw += pointer

	if len(line) > 0 {
		if m := s.p.Measure.LineMargin; m > 0 {
			margin := core.RenderToken{
				Kind: core.SpanMargin,
				SCol: 0,
				ECol: m,
				Text: strings.Repeat(" ", m),
			}
			line = append(core.Line{margin}, line...)
			line = append(line, margin)
		}
		lw += 2 * s.p.Measure.LineMargin
	} else {
		line = nil
		lw = 0
	}

	if lw > s.width {
		s.width = lw
	}
	s.out = append(s.out, line)
	s.first = false
	s.lineIdx++
}

// overlay applies matching highlight records to a just-appended token.
// The source row of the line under construction is its display index
// minus the wrap-inserted breaks so far; a record applies when its row,
// text, and column range all agree with the token.
func (s *wrapState) overlay(rt *core.RenderToken, tok core.Token, tw int, pointer *int) {
	if len(s.p.Records) == 0 {
		return
	}
	row := s.lineIdx - s.extra

	for _, rec := range s.p.Records {
		if rec.Row != row || rec.Text != tok.Text || !rec.Contains(tok.Start, tok.End) {
			continue
		}
		if rec.ID == s.p.ConcealID {
			if s.p.HideConceal {
				if rt.Text != "" {
					rt.Text = ""
					*pointer -= tw
				}
			} else {
				rt.Tag(rec.ID, s.p.DefaultID)
			}
			continue
		}
		rt.Tag(rec.ID, s.p.DefaultID)
	}
}
