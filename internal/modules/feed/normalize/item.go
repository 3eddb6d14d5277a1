package normalize

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// thumbnailStrategies are tried in order; the first non-empty result wins.
var thumbnailStrategies = []func(*gofeed.Item) string{
	enclosureURL,
	mediaURL("content"),
	mediaURL("thumbnail"),
	func(item *gofeed.Item) string { return FirstImage(item.Content) },
	func(item *gofeed.Item) string { return FirstImage(item.Description) },
}

// Thumbnail picks the best preview image advertised by a feed entry.
func Thumbnail(item *gofeed.Item) string {
	if item == nil {
		return ""
	}
	for _, strategy := range thumbnailStrategies {
		if src := strings.TrimSpace(strategy(item)); src != "" {
			return src
		}
	}
	return ""
}

func enclosureURL(item *gofeed.Item) string {
	for _, enclosure := range item.Enclosures {
		if enclosure != nil && enclosure.URL != "" {
			return enclosure.URL
		}
	}
	return ""
}

func mediaURL(element string) func(*gofeed.Item) string {
	return func(item *gofeed.Item) string {
		media, ok := item.Extensions["media"]
		if !ok {
			return ""
		}
		for _, ext := range media[element] {
			if u := ext.Attrs["url"]; u != "" {
				return u
			}
		}
		// media:group wraps content/thumbnail in YouTube feeds
		for _, group := range media["group"] {
			for _, ext := range group.Children[element] {
				if u := ext.Attrs["url"]; u != "" {
					return u
				}
			}
		}
		return ""
	}
}

// FirstImage returns the src of the first <img> in an HTML fragment.
func FirstImage(html string) string {
	if !strings.Contains(html, "<img") && !strings.Contains(html, "<IMG") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	var src string
	doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src = strings.TrimSpace(s.AttrOr("src", ""))
		return src == ""
	})
	return src
}

// Text flattens an HTML fragment to whitespace-collapsed plain text of at most limit runes.
func Text(html string, limit int) string {
	if html == "" {
		return ""
	}

	text := html
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")

	if limit > 0 && utf8.RuneCountInString(text) > limit {
		runes := []rune(text)
		text = strings.TrimSpace(string(runes[:limit]))
	}
	return text
}

var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
	time.RFC850,
	time.ANSIC,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 02 Jan 2006 15:04 -0700",
	"2 Jan 2006 15:04:05 -0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Date returns parsed when set, otherwise the first raw value matching a known layout.
func Date(parsed *time.Time, raw ...string) *time.Time {
	if parsed != nil && !parsed.IsZero() {
		t := parsed.UTC()
		return &t
	}
	for _, value := range raw {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, value); err == nil {
				t = t.UTC()
				return &t
			}
		}
	}
	return nil
}
