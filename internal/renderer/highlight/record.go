package highlight

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/chime/internal/renderer/core"
)

// Record ties one re-tokenized span of captured text to a resolved
// highlight identifier. Row is the source line index; StartCol and
// EndCol carry the owning capture's column range within that row, not
// the token's own range. The wrapper matches records to emitted tokens
// by row, text equality, and column containment.
type Record struct {
	Row      int
	StartCol int
	EndCol   int
	Text     string
	ID       core.HighlightID
}

// Contains returns true if the source column range [start, end) falls
// within the record's capture range.
func (r Record) Contains(start, end int) bool {
	return start >= r.StartCol && end <= r.EndCol
}

// Resolve obtains captures for text under the given grammar and
// compiles them into records, appending to prev so a second grammar
// pass can layer onto an earlier one. Spell-check hint captures are
// discarded, group names resolve through the palette's fallback chain,
// and duplicate records are suppressed. Any source failure is returned
// as-is with nil records; callers degrade to unhighlighted output.
func Resolve(src CaptureSource, pal *Palette, text, grammar string, prev []Record) ([]Record, error) {
	captures, err := src.Captures(text, grammar)
	if err != nil {
		return nil, err
	}

	records := prev
	for _, cap := range captures {
		if malformed(cap) {
			continue
		}
		name := strings.TrimPrefix(cap.Group, "@")
		if name == "spell" || name == "nospell" {
			continue
		}
		id := pal.Resolve(cap.Group)

		// A capture spanning rows contributes to each row it touches.
		for i, part := range strings.Split(cap.Text, "\n") {
			if part == "" {
				continue
			}
			start := 0
			if i == 0 {
				start = cap.StartCol
			}
			end := start + utf8.RuneCountInString(part)

			for _, tok := range core.Tokenize(part) {
				rec := Record{
					Row:      cap.Row + i,
					StartCol: start,
					EndCol:   end,
					Text:     tok.Text,
					ID:       id,
				}
				records = appendUnique(records, rec)
			}
		}
	}
	return records, nil
}

// malformed reports captures that reference unusable text or ranges.
// They are skipped without aborting the overlay pass.
func malformed(c Capture) bool {
	return c.Text == "" || c.Row < 0 || c.StartCol < 0 || c.EndCol < c.StartCol
}

func appendUnique(records []Record, rec Record) []Record {
	for _, r := range records {
		if r == rec {
			return records
		}
	}
	return append(records, rec)
}
