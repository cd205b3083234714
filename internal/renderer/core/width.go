package core

import "github.com/mattn/go-runewidth"

// Measurer computes rendered column widths. Tabstop is the flat width
// of a tab character; LineMargin is the blank framing added to each
// side of a non-empty line.
type Measurer struct {
	Tabstop    int
	LineMargin int
}

// Width returns the display width of text in terminal columns. A tab
// contributes Tabstop columns (minimum one); other codepoints
// contribute their cell width, 2 for wide codepoints.
func (m Measurer) Width(text string) int {
	w := 0
	for _, r := range text {
		if r == '\t' {
			w += 1 + max(0, m.Tabstop-1)
			continue
		}
		w += runewidth.RuneWidth(r)
	}
	return w
}

// LineWidth returns Width plus margin framing on both sides. An empty
// string has zero line width, not just-the-margin.
func (m Measurer) LineWidth(text string) int {
	w := m.Width(text)
	if w == 0 {
		return 0
	}
	return w + 2*m.LineMargin
}
