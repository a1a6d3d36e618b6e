package microlog

import (
	"strings"
	"time"
)

const (
	// recordTimeLayout is the timestamp format inside the bracketed prefix
	// of every ledger line.
	recordTimeLayout = "2006-01-02 15:04:05"

	// nullField marks an absent field on disk. Empty strings are never
	// written so the fixed-arity encoding stays unambiguous.
	nullField = "NULL"

	fieldSeparator = "|"
)

// Record is one archived post. The five optional fields use the empty
// string for "absent"; exactly one of URL / Image (without URL) / bare
// Commentary is set per record.
type Record struct {
	Timestamp  time.Time `json:"timestamp"`
	URL        string    `json:"url,omitempty"`
	Headline   string    `json:"headline,omitempty"`
	Image      string    `json:"image,omitempty"`
	Summary    string    `json:"summary,omitempty"`
	Commentary string    `json:"commentary,omitempty"`
}

// Encode renders the record as a single ledger line (without trailing
// newline): [YYYY-MM-DD HH:MM:SS]|url|headline|image|summary|commentary.
// Field values must not contain the separator; producers substitute it
// before encoding (see Composer).
func (r Record) Encode() string {
	fields := []string{r.URL, r.Headline, r.Image, r.Summary, r.Commentary}
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(r.Timestamp.Format(recordTimeLayout))
	b.WriteByte(']')
	for _, f := range fields {
		b.WriteString(fieldSeparator)
		if f == "" {
			b.WriteString(nullField)
		} else {
			b.WriteString(f)
		}
	}
	return b.String()
}

// DecodeRecord parses one ledger line. It reports ok=false for anything
// it cannot parse — ledger scans skip such lines rather than failing,
// which also silently drops the legacy unstructured format.
func DecodeRecord(line string) (Record, bool) {
	if !strings.HasPrefix(line, "[") {
		return Record{}, false
	}
	end := strings.IndexByte(line, ']')
	if end < 0 {
		return Record{}, false
	}
	ts, err := time.Parse(recordTimeLayout, line[1:end])
	if err != nil {
		return Record{}, false
	}
	rest := strings.TrimSpace(line[end+1:])
	if !strings.HasPrefix(rest, fieldSeparator) {
		return Record{}, false
	}
	parts := strings.Split(rest[1:], fieldSeparator)
	if len(parts) < 5 {
		return Record{}, false
	}
	return Record{
		Timestamp:  ts,
		URL:        decodeField(parts[0]),
		Headline:   decodeField(parts[1]),
		Image:      decodeField(parts[2]),
		Summary:    decodeField(parts[3]),
		Commentary: decodeField(parts[4]),
	}, true
}

func decodeField(s string) string {
	s = strings.TrimSpace(s)
	if s == nullField {
		return ""
	}
	return s
}
