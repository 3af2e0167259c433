// Package announcements scrapes the dated announcement index and picks the
// images published for a group's selected languages.
package announcements

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"langcast-bot/internal/languages"

	"github.com/PuerkitoBio/goquery"
)

// Entry is one image found on an announcement detail page.
type Entry struct {
	Label        string
	LanguageCode string
	ImageURL     string
}

// Selectors locate data on the index and detail pages.
type Selectors struct {
	IndexRow   string // one element per announcement on the index page
	RowDate    string // inside a row: its publication date text
	RowLink    string // inside a row: the link to the detail page
	DetailItem string // one element per image on the detail page
	ItemLabel  string // inside an item: the language label
	ItemImage  string // inside an item: the <img>
}

// DefaultSelectors match a plain table index and figure-based detail pages.
func DefaultSelectors() Selectors {
	return Selectors{
		IndexRow:   "table tr",
		RowDate:    "td.date",
		RowLink:    "a",
		DetailItem: "figure",
		ItemLabel:  "figcaption",
		ItemImage:  "img",
	}
}

// Matcher finds announcement images by date and language.
type Matcher struct {
	fetcher    Fetcher
	indexURL   string
	dateLayout string
	selectors  Selectors
	labels     *LabelIndex
}

// NewMatcher creates a Matcher. dateLayout is the Go layout of dates shown on the index page.
func NewMatcher(fetcher Fetcher, indexURL, dateLayout string, table *languages.Table, selectors Selectors) *Matcher {
	if fetcher == nil {
		log.Fatal("Announcement Matcher: fetcher is nil")
	}
	if dateLayout == "" {
		dateLayout = "2006/01/02"
	}
	return &Matcher{
		fetcher:    fetcher,
		indexURL:   indexURL,
		dateLayout: dateLayout,
		selectors:  selectors,
		labels:     NewLabelIndex(table),
	}
}

// Match returns the entries published on date whose language is in selection, in page order.
// A failing detail page is logged and skipped; only an index failure is an error.
func (m *Matcher) Match(ctx context.Context, selection []string, date time.Time) ([]Entry, error) {
	if len(selection) == 0 || m.indexURL == "" {
		return nil, nil
	}
	wanted := make(map[string]bool, len(selection))
	for _, code := range selection {
		wanted[code] = true
	}

	index, err := m.fetcher.Fetch(ctx, m.indexURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch announcement index: %w", err)
	}

	var matched []Entry
	for _, link := range m.detailLinks(index, date) {
		entries, err := m.detailEntries(ctx, link)
		if err != nil {
			log.Printf("[Announcements Date:%s] Skipping detail page %s: %v", date.Format(time.DateOnly), link, err)
			continue
		}
		for _, e := range entries {
			if wanted[e.LanguageCode] {
				matched = append(matched, e)
			}
		}
	}
	return matched, nil
}

// detailLinks lists absolute links of index rows dated date.
func (m *Matcher) detailLinks(index *goquery.Document, date time.Time) []string {
	var links []string
	index.Find(m.selectors.IndexRow).Each(func(_ int, row *goquery.Selection) {
		if !m.sameDate(strings.TrimSpace(row.Find(m.selectors.RowDate).First().Text()), date) {
			return
		}
		href, ok := row.Find(m.selectors.RowLink).First().Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		if abs, ok := resolve(index.Url, href); ok {
			links = append(links, abs)
		}
	})
	return links
}

// sameDate compares an index date against the requested calendar day.
func (m *Matcher) sameDate(text string, date time.Time) bool {
	if text == "" {
		return false
	}
	if text == date.Format(m.dateLayout) {
		return true
	}
	parsed, err := time.Parse(m.dateLayout, text)
	if err != nil {
		return false
	}
	y1, m1, d1 := parsed.Date()
	y2, m2, d2 := date.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// detailEntries extracts (label, image) pairs with a resolvable language.
func (m *Matcher) detailEntries(ctx context.Context, link string) ([]Entry, error) {
	doc, err := m.fetcher.Fetch(ctx, link)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	doc.Find(m.selectors.DetailItem).Each(func(_ int, item *goquery.Selection) {
		label := strings.TrimSpace(item.Find(m.selectors.ItemLabel).First().Text())
		img := item.Find(m.selectors.ItemImage).First()
		src, ok := img.Attr("src")
		if !ok || strings.TrimSpace(src) == "" {
			return
		}
		if label == "" {
			alt, _ := img.Attr("alt")
			label = strings.TrimSpace(alt)
		}
		code, ok := m.labels.Resolve(label)
		if !ok {
			return
		}
		abs, ok := resolve(doc.Url, src)
		if !ok {
			return
		}
		entries = append(entries, Entry{Label: label, LanguageCode: code, ImageURL: abs})
	})
	return entries, nil
}

func resolve(base *url.URL, ref string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", false
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	return u.String(), true
}
