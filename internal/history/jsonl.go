package history

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ExportJSONL writes the records to w, one JSON object per line.
func ExportJSONL(w io.Writer, records []Record) error {
	for _, rec := range records {
		line, err := marshalRecord(rec)
		if err != nil {
			return fmt.Errorf("export history: %w", err)
		}
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return fmt.Errorf("export history: %w", err)
		}
	}
	return nil
}

func marshalRecord(rec Record) (string, error) {
	fields := []struct {
		path  string
		value any
	}{
		{"id", rec.ID},
		{"group", rec.Group},
		{"annote", rec.Annote},
		{"message", rec.Message},
		{"posted", rec.Posted.Format(time.RFC3339Nano)},
		{"removed", rec.Removed.Format(time.RFC3339Nano)},
	}

	out := ""
	var err error
	for _, f := range fields {
		if out, err = sjson.Set(out, f.path, f.value); err != nil {
			return "", err
		}
	}
	return out, nil
}

// ImportJSONL reads records from rd, one JSON object per line. Blank
// and malformed lines are skipped.
func ImportJSONL(rd io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(rd)
	var records []Record

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !gjson.Valid(line) {
			continue
		}
		v := gjson.Parse(line)
		rec := Record{
			ID:      v.Get("id").String(),
			Group:   v.Get("group").String(),
			Annote:  v.Get("annote").String(),
			Message: v.Get("message").String(),
		}
		rec.Posted = parseStamp(v.Get("posted").String())
		rec.Removed = parseStamp(v.Get("removed").String())
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("import history: %w", err)
	}
	return records, nil
}

func parseStamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
