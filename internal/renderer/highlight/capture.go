package highlight

// Capture is an external highlighter's assertion that a range of the
// source text belongs to a named highlight group. Row is the index of
// the embedded-newline-delimited source line the capture starts in;
// StartCol and EndCol (exclusive) are codepoint columns within that
// row. Text is the captured source text and may span rows.
type Capture struct {
	Row      int
	StartCol int
	EndCol   int
	Text     string
	Group    string
}

// CaptureSource produces highlight captures over source text under a
// named grammar. An unavailable grammar or a failed parse is reported
// as an error; callers treat any error as "no highlight data" and
// degrade to unhighlighted output.
type CaptureSource interface {
	Captures(text, grammar string) ([]Capture, error)
}
