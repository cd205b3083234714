package core

import "testing"

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#ff0000", Color{R: 255}, false},
		{"ff0000", Color{R: 255}, false},
		{"#0f0", Color{G: 255}, false},
		{"#1a2b3c", Color{R: 0x1a, G: 0x2b, B: 0x3c}, false},
		{"#ffff", Color{}, true},
		{"#gg0000", Color{}, true},
		{"", Color{}, true},
	}
	for _, tt := range tests {
		got, err := ColorFromHex(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ColorFromHex(%q): expected an error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ColorFromHex(%q): %v", tt.in, err)
			continue
		}
		if !got.Equals(tt.want) {
			t.Errorf("ColorFromHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestColorEquals(t *testing.T) {
	if !ColorDefault.Equals(Color{Default: true}) {
		t.Error("default colors should be equal")
	}
	if ColorDefault.Equals(ColorRed) {
		t.Error("default should not equal red")
	}
	if !ColorFromIndex(3).Equals(ColorFromIndex(3)) {
		t.Error("same palette index should be equal")
	}
	if ColorFromIndex(3).Equals(ColorFromRGB(3, 0, 0)) {
		t.Error("indexed and RGB colors should differ")
	}
}

func TestColorString(t *testing.T) {
	if got := ColorDefault.String(); got != "default" {
		t.Errorf("expected default, got %q", got)
	}
	if got := ColorFromIndex(7).String(); got != "idx(7)" {
		t.Errorf("expected idx(7), got %q", got)
	}
	if got := ColorFromRGB(255, 0, 128).String(); got != "#FF0080" {
		t.Errorf("expected #FF0080, got %q", got)
	}
}

func TestStyleBuilders(t *testing.T) {
	s := NewStyle(ColorRed).Bold().Underline()

	if !s.Foreground.Equals(ColorRed) {
		t.Errorf("expected red foreground, got %v", s.Foreground)
	}
	if !s.Attributes.Has(AttrBold) || !s.Attributes.Has(AttrUnderline) {
		t.Errorf("expected bold and underline, got %v", s.Attributes)
	}
	if s.Attributes.Has(AttrItalic) {
		t.Error("italic should not be set")
	}
	if s.IsDefault() {
		t.Error("styled text should not be default")
	}
	if !DefaultStyle().IsDefault() {
		t.Error("DefaultStyle should be default")
	}
}

func TestStyleMerge(t *testing.T) {
	base := NewStyle(ColorRed).Bold()
	over := DefaultStyle().WithBackground(ColorBlue).Italic()

	got := base.Merge(over)
	if !got.Foreground.Equals(ColorRed) {
		t.Errorf("default foreground should not displace red, got %v", got.Foreground)
	}
	if !got.Background.Equals(ColorBlue) {
		t.Errorf("expected blue background, got %v", got.Background)
	}
	if !got.Attributes.Has(AttrBold) || !got.Attributes.Has(AttrItalic) {
		t.Errorf("attributes should accumulate, got %v", got.Attributes)
	}

	got = base.Merge(NewStyle(ColorGreen))
	if !got.Foreground.Equals(ColorGreen) {
		t.Errorf("non-default foreground should win, got %v", got.Foreground)
	}
}

func TestAttributeOps(t *testing.T) {
	a := AttrNone.With(AttrBold).With(AttrDim)
	if !a.Has(AttrBold) || !a.Has(AttrDim) {
		t.Errorf("expected bold and dim, got %v", a)
	}
	a = a.Without(AttrBold)
	if a.Has(AttrBold) {
		t.Error("bold should be removed")
	}
	if !a.Has(AttrDim) {
		t.Error("dim should survive")
	}
}
