package window

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/chime/internal/renderer"
	"github.com/dshills/chime/internal/renderer/core"
	"github.com/dshills/chime/internal/renderer/highlight"
)

func simWindow(t *testing.T, cols, rows int) (*Window, tcell.SimulationScreen, *highlight.Palette) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init failed: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(cols, rows)

	pal := highlight.NewPalette()
	return NewWithScreen(screen, pal, 4), screen, pal
}

func screenRow(screen tcell.Screen, x, y, width int) string {
	runes := make([]rune, 0, width)
	for i := 0; i < width; i++ {
		ch, _, _, _ := screen.GetContent(x+i, y)
		if ch == 0 {
			ch = ' '
		}
		runes = append(runes, ch)
	}
	return string(runes)
}

func textLine(ids []core.HighlightID, text string) core.Line {
	return core.Line{
		{Kind: core.SpanMargin, SCol: 0, ECol: 1, Text: " "},
		{Kind: core.SpanText, SCol: 0, ECol: len([]rune(text)), Text: text, Highlights: ids},
		{Kind: core.SpanMargin, SCol: 0, ECol: 1, Text: " "},
	}
}

func TestDrawAnchorsBottomRight(t *testing.T) {
	w, screen, _ := simWindow(t, 20, 6)

	w.Draw(renderer.Frame{Lines: []core.Line{textLine(nil, "hello")}, Width: 7})

	if got := screenRow(screen, 13, 5, 7); got != " hello " {
		t.Errorf("expected anchored line, got %q", got)
	}
	if got := screenRow(screen, 0, 4, 20); got != "                    " {
		t.Errorf("expected the row above to stay blank, got %q", got)
	}
}

func TestDrawStacksLines(t *testing.T) {
	w, screen, _ := simWindow(t, 20, 6)

	w.Draw(renderer.Frame{
		Lines: []core.Line{textLine(nil, "one"), textLine(nil, "two")},
		Width: 5,
	})

	if got := screenRow(screen, 15, 4, 5); got != " one " {
		t.Errorf("expected first line on row 4, got %q", got)
	}
	if got := screenRow(screen, 15, 5, 5); got != " two " {
		t.Errorf("expected second line on row 5, got %q", got)
	}
}

func TestDrawClearsPreviousFrame(t *testing.T) {
	w, screen, _ := simWindow(t, 20, 6)

	w.Draw(renderer.Frame{
		Lines: []core.Line{textLine(nil, "alpha"), textLine(nil, "gamma")},
		Width: 7,
	})
	w.Draw(renderer.Frame{Lines: []core.Line{textLine(nil, "hi")}, Width: 4})

	if got := screenRow(screen, 0, 4, 20); got != "                    " {
		t.Errorf("expected the old top row to be erased, got %q", got)
	}
	if got := screenRow(screen, 16, 5, 4); got != " hi " {
		t.Errorf("expected the new frame, got %q", got)
	}
	if got := screenRow(screen, 13, 5, 3); got != "   " {
		t.Errorf("expected the old wider row to be erased, got %q", got)
	}
}

func TestDrawEmptyFrameClearsWindow(t *testing.T) {
	w, screen, _ := simWindow(t, 20, 6)

	w.Draw(renderer.Frame{Lines: []core.Line{textLine(nil, "gone")}, Width: 6})
	w.Draw(renderer.Frame{})

	if got := screenRow(screen, 0, 5, 20); got != "                    " {
		t.Errorf("expected a blank bottom row, got %q", got)
	}
}

func TestDrawTallFrameKeepsBottomLines(t *testing.T) {
	w, screen, _ := simWindow(t, 20, 3)

	w.Draw(renderer.Frame{
		Lines: []core.Line{
			textLine(nil, "l0"),
			textLine(nil, "l1"),
			textLine(nil, "l2"),
			textLine(nil, "l3"),
			textLine(nil, "l4"),
		},
		Width: 4,
	})

	if got := screenRow(screen, 16, 0, 4); got != " l2 " {
		t.Errorf("expected the frame tail at the top, got %q", got)
	}
	if got := screenRow(screen, 16, 2, 4); got != " l4 " {
		t.Errorf("expected the last line at the bottom, got %q", got)
	}
}

func TestDrawClipsWideFrame(t *testing.T) {
	w, screen, _ := simWindow(t, 10, 2)

	w.Draw(renderer.Frame{
		Lines: []core.Line{textLine(nil, "this is a very long line")},
		Width: 26,
	})

	if got := screenRow(screen, 0, 1, 10); got != " this is a" {
		t.Errorf("expected a left-clipped line, got %q", got)
	}
}

func TestDrawRendersGapsAsSpaces(t *testing.T) {
	w, screen, _ := simWindow(t, 20, 2)

	line := core.Line{
		{Kind: core.SpanText, SCol: 0, ECol: 2, Text: "ab"},
		{Kind: core.SpanText, SCol: 5, ECol: 7, Text: "cd"},
	}
	w.Draw(renderer.Frame{Lines: []core.Line{line}, Width: 7})

	if got := screenRow(screen, 13, 1, 7); got != "ab   cd" {
		t.Errorf("expected the token gap as spaces, got %q", got)
	}
}

func TestDrawExpandsTabs(t *testing.T) {
	w, screen, _ := simWindow(t, 20, 2)

	line := core.Line{
		{Kind: core.SpanText, SCol: 0, ECol: 3, Text: "a\tb"},
	}
	w.Draw(renderer.Frame{Lines: []core.Line{line}, Width: 6})

	if got := screenRow(screen, 14, 1, 6); got != "a    b" {
		t.Errorf("expected a flat tabstop expansion, got %q", got)
	}
}

func TestDrawWideRunes(t *testing.T) {
	w, screen, _ := simWindow(t, 20, 2)

	w.Draw(renderer.Frame{Lines: []core.Line{textLine(nil, "日本")}, Width: 6})

	ch, _, _, _ := screen.GetContent(15, 1)
	if ch != '日' {
		t.Errorf("expected wide rune at column 15, got %q", ch)
	}
	ch, _, _, _ = screen.GetContent(17, 1)
	if ch != '本' {
		t.Errorf("expected wide rune at column 17, got %q", ch)
	}
}

func TestDrawAppliesPaletteStyles(t *testing.T) {
	w, screen, pal := simWindow(t, 20, 6)

	id := pal.Register("error", core.NewStyle(core.ColorRed).Bold())
	w.Draw(renderer.Frame{
		Lines: []core.Line{textLine([]core.HighlightID{id}, "bad")},
		Width: 5,
	})

	_, _, style, _ := screen.GetContent(16, 5)
	fg, _, attrs := style.Decompose()
	if fg != tcell.NewRGBColor(255, 0, 0) {
		t.Errorf("expected red foreground, got %v", fg)
	}
	if attrs&tcell.AttrBold == 0 {
		t.Error("expected bold attribute")
	}
}

func TestSurfaceDimensions(t *testing.T) {
	w, _, _ := simWindow(t, 20, 6)

	if w.Columns() != 20 {
		t.Errorf("expected 20 columns, got %d", w.Columns())
	}
	if w.Rows() != 6 {
		t.Errorf("expected 6 rows, got %d", w.Rows())
	}
	if w.Tabstop() != 4 {
		t.Errorf("expected tabstop 4, got %d", w.Tabstop())
	}
}
