package core

import "testing"

func TestMeasurerWidth(t *testing.T) {
	m := Measurer{Tabstop: 4}

	cases := []struct {
		name  string
		input string
		want  int
	}{
		{"ascii", "hello", 5},
		{"empty", "", 0},
		{"spaces count", "a b", 3},
		{"wide codepoints", "漢字", 4},
		{"mixed wide and narrow", "a漢b", 4},
		{"combining accent is zero width", "é", 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := m.Width(tc.input); got != tc.want {
				t.Errorf("expected width %d, got %d", tc.want, got)
			}
		})
	}
}

func TestMeasurerTabExpansion(t *testing.T) {
	// A tab contributes a flat Tabstop columns.
	m := Measurer{Tabstop: 8}
	if got := m.Width("\t"); got != 8 {
		t.Errorf("expected tab width 8, got %d", got)
	}
	if got := m.Width("a\tb"); got != 10 {
		t.Errorf("expected width 10, got %d", got)
	}

	// Degenerate tabstop still contributes the tab's own column.
	m = Measurer{Tabstop: 0}
	if got := m.Width("\t"); got != 1 {
		t.Errorf("expected tab width 1 with tabstop 0, got %d", got)
	}
}

func TestMeasurerLineWidth(t *testing.T) {
	m := Measurer{Tabstop: 4, LineMargin: 2}

	if got := m.LineWidth("hello"); got != 9 {
		t.Errorf("expected line width 9, got %d", got)
	}

	// Empty text has zero line width, not just-the-margin.
	if got := m.LineWidth(""); got != 0 {
		t.Errorf("expected line width 0 for empty text, got %d", got)
	}

	m.LineMargin = 0
	if got := m.LineWidth("hello"); got != 5 {
		t.Errorf("expected line width 5 with no margin, got %d", got)
	}
}
