// Package history archives removed notifications in a bounded ring
// and formats them for echo output and JSONL interchange.
package history

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/chime/internal/notify"
)

// Record is one archived notification.
type Record struct {
	ID      string
	Group   string
	Annote  string
	Message string
	Posted  time.Time
	Removed time.Time
}

// DefaultCapacity bounds the ring when no capacity is given.
const DefaultCapacity = 128

// Ring is a bounded archive of removed notifications, oldest first.
type Ring struct {
	max  int
	recs []Record
}

// New creates a ring holding at most max records.
func New(max int) *Ring {
	if max <= 0 {
		max = DefaultCapacity
	}
	return &Ring{max: max}
}

// Observe archives the removals a model tick reported, skipping items
// flagged SkipHistory.
func (r *Ring) Observe(removed []notify.Removal, removedAt time.Time) {
	for _, rm := range removed {
		if rm.Item.SkipHistory {
			continue
		}
		r.Add(Record{
			Group:   rm.Group,
			Annote:  rm.Item.Annote,
			Message: rm.Item.Message,
			Posted:  rm.Item.Posted,
			Removed: removedAt,
		})
	}
}

// Add archives one record, assigning an ID when absent and evicting
// the oldest records beyond capacity.
func (r *Ring) Add(rec Record) Record {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	r.recs = append(r.recs, rec)
	if n := len(r.recs) - r.max; n > 0 {
		r.recs = append([]Record(nil), r.recs[n:]...)
	}
	return rec
}

// Records returns a copy of the archive, oldest first.
func (r *Ring) Records() []Record {
	return append([]Record(nil), r.recs...)
}

// Len returns the number of archived records.
func (r *Ring) Len() int {
	return len(r.recs)
}

// Echo writes records to w in echo format: a prefix of post time and
// group, then the annotated message. A multi-line message starts on
// its own line so its internal line breaks survive.
func Echo(w io.Writer, records []Record) error {
	for _, rec := range records {
		if _, err := io.WriteString(w, echoLine(rec)+"\n"); err != nil {
			return fmt.Errorf("echo history: %w", err)
		}
	}
	return nil
}

func echoLine(rec Record) string {
	prefix := fmt.Sprintf("%s %s |", rec.Posted.Format("15:04:05"), rec.Group)
	body := rec.Message
	if rec.Annote != "" {
		body = rec.Annote + " " + body
	}
	if strings.Contains(body, "\n") {
		return prefix + "\n" + body
	}
	return prefix + " " + body
}
