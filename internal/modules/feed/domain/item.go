package domain

import (
	"slices"
	"time"
)

// FeedItem is one normalized article or video entry.
type FeedItem struct {
	Title        string     `json:"title"`
	Link         string     `json:"link"`
	PublishedAt  *time.Time `json:"publishedAt,omitempty"`
	Summary      string     `json:"summary"`
	ThumbnailURL string     `json:"thumbnailUrl,omitempty"`
	SourceName   string     `json:"sourceName"`
}

var epoch = time.Unix(0, 0).UTC()

// SortTime is the publish time used for ordering; undated items sort as the Unix epoch.
func (i FeedItem) SortTime() time.Time {
	if i.PublishedAt == nil {
		return epoch
	}
	return *i.PublishedAt
}

// SortByRecency orders items newest first. Ties keep their relative order.
func SortByRecency(items []FeedItem) {
	slices.SortStableFunc(items, func(a, b FeedItem) int {
		return b.SortTime().Compare(a.SortTime())
	})
}

// Page is the JSON payload returned for one listing request.
type Page struct {
	Status   string     `json:"status"`
	Count    int        `json:"count"`
	NextPage *string    `json:"nextPage"`
	Results  []FeedItem `json:"results"`
}

// Query identifies one listing request.
type Query struct {
	Category string
	Kind     Kind
	Page     int
}
