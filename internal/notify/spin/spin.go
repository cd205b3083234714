// Package spin provides animated spinner values for group icons.
// A spinner derives its frame from the wall clock, so repeated render
// passes animate without the model tracking per-spinner state.
package spin

import (
	"fmt"
	"sort"
	"time"

	"github.com/dshills/chime/internal/notify"
)

// patterns holds the built-in frame sets.
var patterns = map[string][]string{
	"dots":     {"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	"line":     {"-", "\\", "|", "/"},
	"circle":   {"◐", "◓", "◑", "◒"},
	"triangle": {"◢", "◣", "◤", "◥"},
	"moon":     {"🌑", "🌒", "🌓", "🌔", "🌕", "🌖", "🌗", "🌘"},
	"bounce":   {"⠁", "⠂", "⠄", "⠂"},
}

// Spinner cycles through frames at a fixed period. It implements
// notify.Value so it can serve as a group icon.
type Spinner struct {
	Frames []string
	Period time.Duration
}

// DefaultPeriod is the frame duration used when none is given.
const DefaultPeriod = 120 * time.Millisecond

// New builds a spinner from a named pattern. The period falls back to
// DefaultPeriod when zero or negative.
func New(pattern string, period time.Duration) (*Spinner, error) {
	frames, ok := patterns[pattern]
	if ok {
		return fromFrames(frames, period), nil
	}
	return nil, fmt.Errorf("unknown spinner pattern %q", pattern)
}

// Custom builds a spinner from caller-supplied frames.
func Custom(frames []string, period time.Duration) (*Spinner, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("spinner needs at least one frame")
	}
	return fromFrames(frames, period), nil
}

func fromFrames(frames []string, period time.Duration) *Spinner {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Spinner{
		Frames: append([]string(nil), frames...),
		Period: period,
	}
}

// Resolve returns the frame for the given instant.
func (s *Spinner) Resolve(now time.Time, _ []*notify.Item) string {
	if len(s.Frames) == 0 {
		return ""
	}
	tick := now.UnixMilli() / s.Period.Milliseconds()
	idx := int(tick % int64(len(s.Frames)))
	if idx < 0 {
		idx += len(s.Frames)
	}
	return s.Frames[idx]
}

// Named lists the built-in pattern names in sorted order.
func Named() []string {
	names := make([]string, 0, len(patterns))
	for name := range patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
