package microlog

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testLedger(t *testing.T) *Ledger {
	t.Helper()
	return NewLedger(filepath.Join(t.TempDir(), "posted.txt"))
}

func appendN(t *testing.T, l *Ledger, n int) {
	t.Helper()
	base := mustTime(t, "2024-01-01 00:00:00")
	for i := 0; i < n; i++ {
		r := Record{
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			Commentary: fmt.Sprintf("post %d", i),
		}
		if err := l.Append(r); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
}

func TestLedgerMissingFileIsEmpty(t *testing.T) {
	l := testLedger(t)
	records, err := l.Records()
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty ledger, got %d records", len(records))
	}
}

func TestLedgerNewestFirst(t *testing.T) {
	l := testLedger(t)
	appendN(t, l, 3)

	records, err := l.Records()
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0].Commentary != "post 2" || records[2].Commentary != "post 0" {
		t.Errorf("records not newest-first: %v", records)
	}
}

func TestLedgerSkipsUnparseableLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posted.txt")
	content := "garbage line\n" +
		"[2024-01-01 10:00:00]|NULL|NULL|NULL|NULL|good one\n" +
		"[2024-01-01 11:00:00] legacy format without fields\n" +
		"[bad timestamp]|a|b|c|d|e\n" +
		"[2024-01-01 12:00:00]|NULL|NULL|NULL|NULL|good two\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	records, err := NewLedger(path).Records()
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Commentary != "good two" || records[1].Commentary != "good one" {
		t.Errorf("unexpected records: %v", records)
	}
}

func TestLedgerSearchCaseInsensitive(t *testing.T) {
	l := testLedger(t)
	base := mustTime(t, "2024-01-01 00:00:00")
	records := []Record{
		{Timestamp: base, URL: "https://a.example", Headline: "Go Generics Deep Dive", Summary: "all about type parameters"},
		{Timestamp: base.Add(time.Minute), Commentary: "thinking about GENERICS again"},
		{Timestamp: base.Add(2 * time.Minute), Commentary: "unrelated"},
	}
	for _, r := range records {
		if err := l.Append(r); err != nil {
			t.Fatal(err)
		}
	}

	page, err := l.Search("generics", 1, 20)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("Total = %d, want 2", page.Total)
	}
}

func TestLedgerSearchNoFieldsNeverMatches(t *testing.T) {
	l := testLedger(t)
	// A record with only a URL has no searchable text.
	if err := l.Append(Record{Timestamp: mustTime(t, "2024-01-01 00:00:00"), URL: "https://example.com"}); err != nil {
		t.Fatal(err)
	}
	page, err := l.Search("example", 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 0 {
		t.Errorf("Total = %d, want 0", page.Total)
	}
}

func TestLedgerPagination(t *testing.T) {
	l := testLedger(t)
	appendN(t, l, 45)

	page, err := l.Search("", 3, 20)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(page.Entries) != 5 {
		t.Errorf("last page has %d entries, want 5", len(page.Entries))
	}
	if page.Total != 45 {
		t.Errorf("Total = %d, want 45", page.Total)
	}
	if page.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", page.TotalPages)
	}

	beyond, err := l.Search("", 4, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(beyond.Entries) != 0 {
		t.Errorf("page beyond last has %d entries, want 0", len(beyond.Entries))
	}
	if beyond.Total != 45 || beyond.TotalPages != 3 {
		t.Errorf("beyond-last page totals = (%d, %d), want (45, 3)", beyond.Total, beyond.TotalPages)
	}
}

func TestLedgerPaginationExactMultiple(t *testing.T) {
	l := testLedger(t)
	appendN(t, l, 40)

	page, err := l.Search("", 2, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Entries) != 20 {
		t.Errorf("exact last page has %d entries, want 20", len(page.Entries))
	}
	if page.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", page.TotalPages)
	}
}

func TestPaginateEmptyHasZeroPages(t *testing.T) {
	page := paginateRecords(nil, "", 1, 20)
	if page.Total != 0 || page.TotalPages != 0 || len(page.Entries) != 0 {
		t.Errorf("empty paginate = %+v", page)
	}
}
