package microlog

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(recordTimeLayout, value)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return ts
}

func TestEncodeFullRecord(t *testing.T) {
	r := Record{
		Timestamp:  mustTime(t, "2024-03-01 12:30:45"),
		URL:        "https://example.com/article",
		Headline:   "An Article",
		Image:      "link_abc123.jpg",
		Summary:    "A short summary",
		Commentary: "my thoughts",
	}
	got := r.Encode()
	want := "[2024-03-01 12:30:45]|https://example.com/article|An Article|link_abc123.jpg|A short summary|my thoughts"
	if got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestEncodeAbsentFieldsUseSentinel(t *testing.T) {
	r := Record{
		Timestamp:  mustTime(t, "2024-03-01 12:30:45"),
		Commentary: "text only",
	}
	want := "[2024-03-01 12:30:45]|NULL|NULL|NULL|NULL|text only"
	if got := r.Encode(); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	records := []Record{
		{
			Timestamp:  mustTime(t, "2024-03-01 12:30:45"),
			URL:        "https://example.com",
			Headline:   "Title",
			Image:      "link_000000000000.jpg",
			Summary:    "summary",
			Commentary: "note",
		},
		{Timestamp: mustTime(t, "2023-12-31 23:59:59"), Commentary: "just text"},
		{Timestamp: mustTime(t, "2020-01-01 00:00:00"), Image: "photo.jpg", Commentary: "caption"},
		{Timestamp: mustTime(t, "2021-06-15 08:00:01")},
	}
	for _, r := range records {
		got, ok := DecodeRecord(r.Encode())
		if !ok {
			t.Fatalf("DecodeRecord(%q) not ok", r.Encode())
		}
		if got != r {
			t.Errorf("round trip = %+v, want %+v", got, r)
		}
	}
}

func TestDecodeUnparseableLines(t *testing.T) {
	lines := []string{
		"",
		"no bracket at all",
		"[2024-03-01 12:30:45 no closing bracket",
		"[not a timestamp]|a|b|c|d|e",
		"[2024-03-01 12:30:45] legacy line with no fields",
		"[2024-03-01 12:30:45]|only|four|fields|here",
		"2024-03-01 12:30:45]|a|b|c|d|e",
	}
	for _, line := range lines {
		if _, ok := DecodeRecord(line); ok {
			t.Errorf("DecodeRecord(%q) = ok, want unparseable", line)
		}
	}
}

func TestDecodeSentinelAndEmptyAreAbsent(t *testing.T) {
	line := "[2024-03-01 12:30:45]| NULL |  |NULL|NULL|hello"
	r, ok := DecodeRecord(line)
	if !ok {
		t.Fatalf("DecodeRecord(%q) not ok", line)
	}
	if r.URL != "" || r.Headline != "" || r.Image != "" || r.Summary != "" {
		t.Errorf("sentinel/empty fields should decode as absent, got %+v", r)
	}
	if r.Commentary != "hello" {
		t.Errorf("Commentary = %q, want %q", r.Commentary, "hello")
	}
}

func TestDecodeTrimsFieldWhitespace(t *testing.T) {
	line := "[2024-03-01 12:30:45]| https://example.com | Title |NULL|NULL| note "
	r, ok := DecodeRecord(line)
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if r.URL != "https://example.com" {
		t.Errorf("URL = %q", r.URL)
	}
	if r.Headline != "Title" {
		t.Errorf("Headline = %q", r.Headline)
	}
	if r.Commentary != "note" {
		t.Errorf("Commentary = %q", r.Commentary)
	}
}
