package spin

import (
	"testing"
	"time"
)

func TestNewKnownPattern(t *testing.T) {
	s, err := New("line", 100*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Frames) != 4 {
		t.Errorf("expected 4 frames, got %d", len(s.Frames))
	}
	if s.Period != 100*time.Millisecond {
		t.Errorf("expected period 100ms, got %v", s.Period)
	}
}

func TestNewUnknownPattern(t *testing.T) {
	_, err := New("nosuch", 0)
	if err == nil {
		t.Fatal("expected error for unknown pattern")
	}
}

func TestNewZeroPeriodDefaults(t *testing.T) {
	s, err := New("dots", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Period != DefaultPeriod {
		t.Errorf("expected default period %v, got %v", DefaultPeriod, s.Period)
	}
}

func TestResolveCyclesFrames(t *testing.T) {
	s, err := New("line", 100*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	base := time.UnixMilli(0)
	want := []string{"-", "\\", "|", "/", "-", "\\"}
	for i, w := range want {
		now := base.Add(time.Duration(i) * 100 * time.Millisecond)
		if got := s.Resolve(now, nil); got != w {
			t.Errorf("tick %d: expected frame %q, got %q", i, w, got)
		}
	}
}

func TestResolveStableWithinPeriod(t *testing.T) {
	s, err := New("line", 100*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	base := time.UnixMilli(0)
	first := s.Resolve(base, nil)
	mid := s.Resolve(base.Add(50*time.Millisecond), nil)
	if first != mid {
		t.Errorf("expected same frame within one period, got %q then %q", first, mid)
	}
}

func TestCustomFrames(t *testing.T) {
	s, err := Custom([]string{"a", "b"}, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	base := time.UnixMilli(0)
	if got := s.Resolve(base, nil); got != "a" {
		t.Errorf("expected %q, got %q", "a", got)
	}
	if got := s.Resolve(base.Add(10*time.Millisecond), nil); got != "b" {
		t.Errorf("expected %q, got %q", "b", got)
	}
}

func TestCustomEmptyFrames(t *testing.T) {
	if _, err := Custom(nil, 0); err == nil {
		t.Fatal("expected error for empty frame set")
	}
}

func TestNamedSorted(t *testing.T) {
	names := Named()
	if len(names) != 6 {
		t.Fatalf("expected 6 patterns, got %d", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("expected sorted names, got %v", names)
			break
		}
	}
}
