package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is a fetched HTML page, parsed once and shared by every strategy.
type Document struct {
	Raw string
	DOM *goquery.Document
}

// NewDocument parses raw HTML. A page that cannot be parsed keeps only its raw text.
func NewDocument(raw string) *Document {
	doc := &Document{Raw: raw}
	if dom, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
		doc.DOM = dom
	}
	return doc
}

// Strategy pulls one value out of a document.
type Strategy func(doc *Document) (string, bool)

// First runs strategies in order and returns the first value found.
func First(doc *Document, strategies []Strategy) (string, bool) {
	if doc == nil {
		return "", false
	}
	for _, strategy := range strategies {
		if v, ok := strategy(doc); ok {
			return v, true
		}
	}
	return "", false
}

// AttrContaining finds the first selector match whose attr contains needle, case-insensitively.
func AttrContaining(selector, attr, needle string) Strategy {
	needle = strings.ToLower(needle)
	return func(doc *Document) (string, bool) {
		if doc.DOM == nil {
			return "", false
		}
		var found string
		doc.DOM.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			v := strings.TrimSpace(s.AttrOr(attr, ""))
			if v != "" && strings.Contains(strings.ToLower(v), needle) {
				found = v
				return false
			}
			return true
		})
		return found, found != ""
	}
}

// AttrOf returns the attr of the first selector match with a non-empty value.
func AttrOf(selector, attr string) Strategy {
	return func(doc *Document) (string, bool) {
		if doc.DOM == nil {
			return "", false
		}
		var found string
		doc.DOM.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			found = strings.TrimSpace(s.AttrOr(attr, ""))
			return found == ""
		})
		return found, found != ""
	}
}

// RawPattern returns the first capture group of re matched against the raw page.
func RawPattern(re *regexp.Regexp) Strategy {
	return func(doc *Document) (string, bool) {
		m := re.FindStringSubmatch(doc.Raw)
		if len(m) < 2 {
			return "", false
		}
		v := strings.TrimSpace(unescapeJSON(m[1]))
		return v, v != ""
	}
}

// unescapeJSON decodes \uXXXX style escapes found inside inline script data.
func unescapeJSON(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	if v, err := strconv.Unquote(`"` + s + `"`); err == nil {
		return v
	}
	return s
}

// Map post-processes the value found by s.
func Map(s Strategy, fn func(string) string) Strategy {
	return func(doc *Document) (string, bool) {
		v, ok := s(doc)
		if !ok {
			return "", false
		}
		v = fn(v)
		return v, v != ""
	}
}

func withScheme(u string) string {
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}

// EmbeddedVideo finds a YouTube link embedded in an article page.
var EmbeddedVideo = []Strategy{
	Map(AttrContaining("iframe[src]", "src", "youtube"), withScheme),
	Map(AttrContaining("a[href]", "href", "youtube"), withScheme),
	Map(AttrContaining("iframe[src]", "src", "youtu.be"), withScheme),
	Map(AttrContaining("a[href]", "href", "youtu.be"), withScheme),
}

var (
	ownerChannelPattern    = regexp.MustCompile(`"ownerChannelName"\s*:\s*"([^"]+)"`)
	channelMetadataPattern = regexp.MustCompile(`"channelMetadataRenderer"\s*:\s*\{[^}]*"title"\s*:\s*"([^"]+)"`)
)

// ChannelName finds the publishing channel on a video watch page.
var ChannelName = []Strategy{
	RawPattern(ownerChannelPattern),
	AttrOf(`link[itemprop="name"]`, "content"),
	RawPattern(channelMetadataPattern),
}

// PreviewImage finds the social preview image declared by a page.
var PreviewImage = []Strategy{
	AttrOf(`meta[property="og:image"]`, "content"),
	AttrOf(`meta[property="og:image:secure_url"]`, "content"),
	AttrOf(`meta[name="twitter:image"]`, "content"),
	AttrOf(`meta[name="twitter:image:src"]`, "content"),
}
