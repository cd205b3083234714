// Package window paints rendered frames onto a terminal using tcell.
// Frames are anchored to the bottom-right corner, the way floating
// notification overlays sit in an editor, and the region painted by
// the previous frame is erased before each draw.
package window

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/chime/internal/renderer"
	"github.com/dshills/chime/internal/renderer/core"
	"github.com/dshills/chime/internal/renderer/highlight"
)

// DefaultTabstop is used when no tabstop is configured.
const DefaultTabstop = 8

// Window owns a tcell screen and presents rendered frames on it. It
// implements the renderer's Surface.
type Window struct {
	screen  tcell.Screen
	palette *highlight.Palette
	tabstop int

	mu   sync.Mutex
	last rect
}

var _ renderer.Surface = (*Window)(nil)

type rect struct {
	x, y, w, h int
}

// New creates a window on the process terminal.
func New(palette *highlight.Palette, tabstop int) (*Window, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen, palette, tabstop), nil
}

// NewWithScreen wraps an existing screen. Tests drive this path with
// tcell's simulation screen.
func NewWithScreen(screen tcell.Screen, palette *highlight.Palette, tabstop int) *Window {
	if tabstop <= 0 {
		tabstop = DefaultTabstop
	}
	return &Window{screen: screen, palette: palette, tabstop: tabstop}
}

// Init initializes the screen. The cursor stays hidden; the window is
// display-only.
func (w *Window) Init() error {
	if err := w.screen.Init(); err != nil {
		return err
	}
	w.screen.HideCursor()
	w.screen.Clear()
	return nil
}

// Fini restores the terminal.
func (w *Window) Fini() {
	w.screen.Fini()
}

// Columns returns the terminal width.
func (w *Window) Columns() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	cols, _ := w.screen.Size()
	return cols
}

// Rows returns the terminal height.
func (w *Window) Rows() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, rows := w.screen.Size()
	return rows
}

// Tabstop returns the configured tab width.
func (w *Window) Tabstop() int {
	return w.tabstop
}

// ExtendedHighlights reports whether the terminal supports true color,
// which gates treesitter-grade capture styling.
func (w *Window) ExtendedHighlights() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.screen.Colors() > 256
}

// PollEvent blocks for the next terminal event. It returns nil after
// Fini.
func (w *Window) PollEvent() tcell.Event {
	return w.screen.PollEvent()
}

// Suspend releases the terminal so plain text can be printed, for
// example a history echo.
func (w *Window) Suspend() error {
	return w.screen.Suspend()
}

// Resume takes the terminal back after Suspend.
func (w *Window) Resume() error {
	return w.screen.Resume()
}

// Sync forces a full repaint. Call after a resize event.
func (w *Window) Sync() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.screen.Sync()
}

// Draw paints a frame into the bottom-right corner and presents it.
// A frame taller than the screen keeps its bottom lines; lines wider
// than the screen lose their overflowing tail.
func (w *Window) Draw(frame renderer.Frame) {
	w.mu.Lock()
	defer w.mu.Unlock()

	cols, rows := w.screen.Size()

	lines := frame.Lines
	if len(lines) > rows {
		lines = lines[len(lines)-rows:]
	}
	width := frame.Width
	if width > cols {
		width = cols
	}
	height := len(lines)

	x0 := cols - width
	y0 := rows - height

	w.clearRect(w.last)
	w.last = rect{x: x0, y: y0, w: width, h: height}

	for i, line := range lines {
		y := y0 + i
		for x := x0; x < x0+width; x++ {
			w.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
		}
		w.paintLine(line, x0, y, x0+width)
	}

	w.screen.Show()
}

func (w *Window) clearRect(r rect) {
	for y := r.y; y < r.y+r.h; y++ {
		for x := r.x; x < r.x+r.w; x++ {
			w.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
		}
	}
}

// paintLine places a line's spans starting at x0. Gaps between
// positioned text tokens stay as the background spaces painted above.
func (w *Window) paintLine(line core.Line, x0, y, xmax int) {
	x := x0
	prev := 0
	for _, tok := range line {
		if tok.Kind == core.SpanText {
			if gap := tok.SCol - prev; gap > 0 {
				x += gap
			}
			prev = tok.ECol
		}
		style := convertStyle(w.palette.StyleFor(tok.Highlights))
		for _, r := range tok.Text {
			if x >= xmax {
				return
			}
			if r == '\t' {
				for i := 0; i < w.tabstop && x < xmax; i++ {
					w.screen.SetContent(x, y, ' ', nil, style)
					x++
				}
				continue
			}
			w.screen.SetContent(x, y, r, nil, style)
			x += runewidth.RuneWidth(r)
		}
	}
}

// convertStyle translates a style to its tcell form.
func convertStyle(s core.Style) tcell.Style {
	style := tcell.StyleDefault

	if !s.Foreground.IsDefault() {
		if s.Foreground.Indexed {
			style = style.Foreground(tcell.PaletteColor(int(s.Foreground.R)))
		} else {
			style = style.Foreground(tcell.NewRGBColor(int32(s.Foreground.R), int32(s.Foreground.G), int32(s.Foreground.B)))
		}
	}
	if !s.Background.IsDefault() {
		if s.Background.Indexed {
			style = style.Background(tcell.PaletteColor(int(s.Background.R)))
		} else {
			style = style.Background(tcell.NewRGBColor(int32(s.Background.R), int32(s.Background.G), int32(s.Background.B)))
		}
	}

	if s.Attributes.Has(core.AttrBold) {
		style = style.Bold(true)
	}
	if s.Attributes.Has(core.AttrDim) {
		style = style.Dim(true)
	}
	if s.Attributes.Has(core.AttrItalic) {
		style = style.Italic(true)
	}
	if s.Attributes.Has(core.AttrUnderline) {
		style = style.Underline(true)
	}
	if s.Attributes.Has(core.AttrBlink) {
		style = style.Blink(true)
	}
	if s.Attributes.Has(core.AttrReverse) {
		style = style.Reverse(true)
	}
	if s.Attributes.Has(core.AttrStrikethrough) {
		style = style.StrikeThrough(true)
	}

	return style
}
