package microlog

import (
	"context"
	"crypto/md5"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// summaryLimit caps the stored excerpt length in characters; longer
// descriptions are truncated with an ellipsis marker.
const summaryLimit = 200

// Composer turns raw submitted content into an enriched Record ready
// for the ledger: it classifies the content, fetches page metadata for
// link posts, stores a cropped preview thumbnail, and makes every field
// safe for the pipe-delimited encoding.
type Composer struct {
	meta      *MetadataFetcher
	imagesDir string
}

// NewComposer returns a Composer that stores fetched link thumbnails
// under imagesDir.
func NewComposer(meta *MetadataFetcher, imagesDir string) *Composer {
	return &Composer{meta: meta, imagesDir: imagesDir}
}

// Compose builds the Record for content, stamped with the current time.
// Enrichment is best-effort: a failed metadata or image fetch degrades
// the affected fields to absent instead of failing the post.
func (c *Composer) Compose(ctx context.Context, content string) Record {
	rec := Record{Timestamp: time.Now().Truncate(time.Second)}
	cls := Classify(content)

	switch cls.Kind {
	case KindLink:
		rec.URL = cls.URL
		rec.Commentary = stripSeparator(cls.Commentary)
		md := c.meta.Fetch(ctx, cls.URL)
		rec.Headline = stripSeparator(md.Title)
		rec.Summary = stripSeparator(truncateSummary(md.Description))
		if md.ImageURL != "" {
			if filename, err := c.saveLinkThumbnail(ctx, cls.URL, md.ImageURL); err != nil {
				log.Printf("link thumbnail for %s: %v", cls.URL, err)
			} else {
				rec.Image = filename
			}
		}
	case KindImage:
		rec.Image = cls.Image
		rec.Commentary = stripSeparator(cls.Commentary)
	default:
		rec.Commentary = stripSeparator(cls.Commentary)
	}

	return rec
}

// saveLinkThumbnail downloads a link's preview image, crops it to the
// ledger thumbnail size, and writes it under the images dir. The
// filename is derived from the link URL so re-posting the same link
// reuses one file.
func (c *Composer) saveLinkThumbnail(ctx context.Context, pageURL, imageURL string) (string, error) {
	data, err := c.meta.DownloadImage(ctx, imageURL)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	thumb, err := ThumbnailImage(data)
	if err != nil {
		return "", fmt.Errorf("process: %w", err)
	}
	sum := md5.Sum([]byte(pageURL))
	filename := fmt.Sprintf("link_%x.jpg", sum[:6])
	if err := os.MkdirAll(c.imagesDir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(c.imagesDir, filename), thumb, 0o644); err != nil {
		return "", fmt.Errorf("write: %w", err)
	}
	return filename, nil
}

// stripSeparator substitutes the field separator so a value can never
// break the fixed-arity record encoding.
func stripSeparator(s string) string {
	return strings.ReplaceAll(s, fieldSeparator, "-")
}

// truncateSummary trims a description to summaryLimit characters,
// appending an ellipsis marker when anything was cut.
func truncateSummary(s string) string {
	runes := []rune(s)
	if len(runes) <= summaryLimit {
		return s
	}
	return string(runes[:summaryLimit]) + "..."
}
