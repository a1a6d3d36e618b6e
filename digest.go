package microlog

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// digestDateLayout formats the per-card date in the export.
const digestDateLayout = "02-Jan-2006"

// BuildDigest renders a human-readable HTML export of the link-type
// records published after since, oldest first. records must be
// newest-first (the ledger scan order). A zero since includes
// everything. The returned count is the number of cards written; the
// caller records the new cutoff only when it is non-zero.
func BuildDigest(siteName string, records []Record, since, now time.Time) (string, int) {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>%s Link List for %s</p>\n",
		html.EscapeString(siteName), now.Format("Monday 2006-01-02"))

	count := 0
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		if r.URL == "" {
			continue
		}
		if !since.IsZero() && !r.Timestamp.After(since) {
			continue
		}
		writeDigestCard(&b, r)
		count++
	}
	return b.String(), count
}

func writeDigestCard(b *strings.Builder, r Record) {
	b.WriteString(`<div class="link_list_card">`)

	if r.Image != "" {
		fmt.Fprintf(b, `<div class="link_card_image"><img src="/images/%s" class="link_card_image_thumb" height="150" alt="link image"></div>`,
			html.EscapeString(r.Image))
	} else {
		b.WriteString(`<div class="link_card_image"><img src="/images/rss.png" class="link_card_image_thumb" height="150" alt="link image"></div>`)
	}

	headline := r.Headline
	if headline == "" {
		headline = r.URL
	}
	fmt.Fprintf(b, `<span class="link_list_date">%s</span> - <a class="link_list_link" href="%s">%s</a></p>`,
		r.Timestamp.Format(digestDateLayout), html.EscapeString(r.URL), html.EscapeString(headline))

	if r.Summary != "" {
		fmt.Fprintf(b, `<p><span class="link_list_summary_title">Brief Summary:</span> <span class="link_list_summary">&quot;%s&quot;</span></p>`,
			html.EscapeString(r.Summary))
	}
	if r.Commentary != "" {
		fmt.Fprintf(b, `<p><span class="link_list_summary_title">Personal Notes and Commentary:</span> <span class="link_list_summary">&quot;%s&quot;</span></p>`,
			html.EscapeString(r.Commentary))
	}

	b.WriteString("</div>\n")
}
