package notify

import "time"

// Value resolves a possibly dynamic configuration value such as a
// group name or icon. Implementations must be pure: the render cache
// compares resolved values across passes to decide staleness.
type Value interface {
	Resolve(now time.Time, items []*Item) string
}

// Static is a fixed Value.
type Static string

// Resolve returns the fixed string.
func (s Static) Resolve(time.Time, []*Item) string {
	return string(s)
}

// Dynamic adapts a function to a Value.
type Dynamic func(now time.Time, items []*Item) string

// Resolve invokes the function.
func (d Dynamic) Resolve(now time.Time, items []*Item) string {
	return d(now, items)
}
