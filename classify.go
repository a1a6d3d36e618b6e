package microlog

import "strings"

// ContentKind is the result of classifying raw submitted content.
type ContentKind int

const (
	KindText ContentKind = iota
	KindLink
	KindImage
)

// imageExtensions are the suffixes that mark the head of a pipe-split
// content string as a local image reference.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tiff"}

// Classified is raw content split into its parts. URL is set only for
// KindLink, Image only for KindImage.
type Classified struct {
	Kind       ContentKind
	URL        string
	Image      string
	Commentary string
}

// Classify inspects a raw content string. Only the first separator is
// significant: "head|tail" is a link post when head looks like a URL, an
// image post when head carries a known image extension, and otherwise
// falls back to a plain-text post whose commentary is the entire
// original string, separator included.
func Classify(content string) Classified {
	if !strings.Contains(content, fieldSeparator) {
		return Classified{Kind: KindText, Commentary: content}
	}
	head, tail, _ := strings.Cut(content, fieldSeparator)
	head = strings.TrimSpace(head)
	tail = strings.TrimSpace(tail)

	if strings.HasPrefix(head, "http://") || strings.HasPrefix(head, "https://") || strings.HasPrefix(head, "www.") {
		return Classified{Kind: KindLink, URL: head, Commentary: tail}
	}

	lower := strings.ToLower(head)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return Classified{Kind: KindImage, Image: head, Commentary: tail}
		}
	}

	return Classified{Kind: KindText, Commentary: content}
}
