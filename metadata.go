package microlog

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// browserUserAgent is sent on outbound fetches; several sites refuse
// requests with a default Go user agent.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

const maxFetchBody = 8 << 20 // 8MB

// PageMetadata is the best-effort title, description, and preview image
// extracted from a linked page.
type PageMetadata struct {
	Title       string
	Description string
	ImageURL    string
}

// MetadataFetcher retrieves and parses remote pages for link-post
// enrichment. Extracted text runs through a strict sanitizer since it
// ends up in the ledger and in exports.
type MetadataFetcher struct {
	client *http.Client
	strip  *bluemonday.Policy
}

// NewMetadataFetcher returns a fetcher with a bounded request timeout.
func NewMetadataFetcher() *MetadataFetcher {
	return &MetadataFetcher{
		client: &http.Client{Timeout: 15 * time.Second},
		strip:  bluemonday.StrictPolicy(),
	}
}

// Fetch returns page metadata for pageURL. It never fails: on any error
// the title falls back to the URL itself and the other fields stay
// absent, so a dead link still archives.
func (f *MetadataFetcher) Fetch(ctx context.Context, pageURL string) PageMetadata {
	fallback := PageMetadata{Title: pageURL}

	body, err := f.get(ctx, pageURL, 10*time.Second)
	if err != nil {
		return fallback
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return fallback
	}

	md := PageMetadata{}
	md.Title = f.cleanText(doc.Find("title").First().Text())
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		md.Title = f.cleanText(og)
	}
	if md.Title == "" {
		md.Title = pageURL
	}

	if desc, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok && strings.TrimSpace(desc) != "" {
		md.Description = f.cleanText(desc)
	} else if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		md.Description = f.cleanText(desc)
	}

	if img, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok && strings.TrimSpace(img) != "" {
		md.ImageURL = resolveURL(pageURL, strings.TrimSpace(img))
	} else if img, ok := doc.Find(`meta[name="twitter:image"]`).Attr("content"); ok && strings.TrimSpace(img) != "" {
		md.ImageURL = resolveURL(pageURL, strings.TrimSpace(img))
	}

	return md
}

// DownloadImage fetches raw image bytes from imageURL.
func (f *MetadataFetcher) DownloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	return f.get(ctx, imageURL, 15*time.Second)
}

func (f *MetadataFetcher) get(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: HTTP %d", rawURL, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxFetchBody))
}

// cleanText strips any markup from extracted metadata text. The
// sanitizer entity-escapes its output, so unescape to get plain text
// back.
func (f *MetadataFetcher) cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(f.strip.Sanitize(s)))
}

// resolveURL resolves ref against base, for relative og:image values.
func resolveURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
