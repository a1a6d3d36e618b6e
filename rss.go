package microlog

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// feedItemLimit caps how many recent records the feed carries.
const feedItemLimit = 20

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// renderFeed serves the newest ledger records as an RSS 2.0 feed. Link
// posts point at their target URL; other posts point back at the
// archive.
func (a *App) renderFeed(c echo.Context, siteName string, records []Record) error {
	if len(records) > feedItemLimit {
		records = records[:feedItemLimit]
	}
	items := make([]rssItem, 0, len(records))
	for _, r := range records {
		items = append(items, rssItem{
			Title:       feedTitle(r),
			Link:        feedLink(a.Config.URL, r),
			Description: feedDescription(r),
			PubDate:     r.Timestamp.Format(time.RFC1123Z),
			GUID:        fmt.Sprintf("%s/?t=%d", a.Config.URL, r.Timestamp.Unix()),
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       siteName,
			Link:        a.Config.URL,
			Description: a.Config.Description,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}

func feedTitle(r Record) string {
	switch {
	case r.Headline != "":
		return r.Headline
	case r.Commentary != "":
		return truncateSummary(r.Commentary)
	case r.URL != "":
		return r.URL
	default:
		return "Post from " + r.Timestamp.Format(digestDateLayout)
	}
}

func feedLink(base string, r Record) string {
	if r.URL != "" {
		return r.URL
	}
	return base
}

func feedDescription(r Record) string {
	if r.Summary != "" {
		return r.Summary
	}
	return r.Commentary
}
