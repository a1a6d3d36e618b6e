package microlog

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Ledger is the append-only posted-record file. All mutation goes
// through the embedded mutex so concurrent request handlers and the
// auto-poster never interleave a read-modify-write.
type Ledger struct {
	mu   sync.Mutex
	path string
}

// NewLedger returns a Ledger backed by the file at path. The file is
// created lazily on first append; a missing file reads as empty.
func NewLedger(path string) *Ledger {
	return &Ledger{path: path}
}

// Append writes one encoded record to the end of the ledger.
func (l *Ledger) Append(r Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(r.Encode() + "\n"); err != nil {
		return fmt.Errorf("append ledger: %w", err)
	}
	return nil
}

// Records returns every decodable record, newest first. Lines that fail
// to decode are skipped, never fatal.
func (l *Ledger) Records() ([]Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lines, err := readLines(l.path)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	var records []Record
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		if r, ok := DecodeRecord(lines[i]); ok {
			records = append(records, r)
		}
	}
	return records, nil
}

// ArchivePage is one page of the filtered, newest-first archive.
type ArchivePage struct {
	Entries    []Record `json:"entries"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	PerPage    int      `json:"per_page"`
	TotalPages int      `json:"total_pages"`
}

// Search filters and paginates the ledger. See paginateRecords for the
// pagination contract.
func (l *Ledger) Search(query string, page, perPage int) (ArchivePage, error) {
	records, err := l.Records()
	if err != nil {
		return ArchivePage{}, err
	}
	return paginateRecords(records, query, page, perPage), nil
}

// paginateRecords applies a case-insensitive substring filter over
// headline+summary+commentary, then slices out the requested 1-based
// page. A page past the end yields an empty slice with correct totals;
// total_pages is ceil(total/perPage), 0 when nothing matched.
func paginateRecords(records []Record, query string, page, perPage int) ArchivePage {
	if page < 1 {
		page = 1
	}
	filtered := records
	if query != "" {
		q := strings.ToLower(query)
		filtered = nil
		for _, r := range records {
			if r.matchesQuery(q) {
				filtered = append(filtered, r)
			}
		}
	}
	total := len(filtered)
	totalPages := 0
	if total > 0 {
		totalPages = (total + perPage - 1) / perPage
	}
	start := (page - 1) * perPage
	end := start + perPage
	entries := []Record{}
	if start < total {
		if end > total {
			end = total
		}
		entries = filtered[start:end]
	}
	return ArchivePage{
		Entries:    entries,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}
}

// matchesQuery reports whether the lowercased query occurs in the
// record's searchable text. Records with no headline, summary, or
// commentary never match a non-empty query.
func (r Record) matchesQuery(lowerQuery string) bool {
	var parts []string
	for _, f := range []string{r.Headline, r.Summary, r.Commentary} {
		if f != "" {
			parts = append(parts, f)
		}
	}
	if len(parts) == 0 {
		return false
	}
	return strings.Contains(strings.ToLower(strings.Join(parts, " ")), lowerQuery)
}

// readLines reads a line-oriented file. A missing file is an empty
// sequence, not an error. A trailing newline does not produce a final
// empty line.
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}
