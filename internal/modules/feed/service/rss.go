package service

import (
	"fmt"
	"time"

	"github.com/clubbravado/fightfeed/internal/modules/feed/domain"
	"github.com/gorilla/feeds"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// RenderRSS re-exports a page as an RSS 2.0 document.
func RenderRSS(page domain.Page, category string, kind domain.Kind, selfURL string) (string, error) {
	feed := &feeds.Feed{
		Title:       fmt.Sprintf("Fight Feed - %s %s", category, kind),
		Link:        &feeds.Link{Href: selfURL},
		Description: fmt.Sprintf("Combat sports %s for the %s category", kind, category),
		Created:     latest(page.Results),
	}

	feed.Items = lo.Map(page.Results, func(item domain.FeedItem, _ int) *feeds.Item {
		return toRSSItem(item)
	})

	rss, err := feed.ToRss()
	if err != nil {
		return "", oops.With("category", category, "kind", kind).Wrap(err)
	}
	return rss, nil
}

func toRSSItem(item domain.FeedItem) *feeds.Item {
	rssItem := &feeds.Item{
		Title:       item.Title,
		Link:        &feeds.Link{Href: item.Link},
		Description: item.Summary,
		Author:      &feeds.Author{Name: item.SourceName},
		Id:          item.Link,
	}
	if item.PublishedAt != nil {
		rssItem.Created = *item.PublishedAt
	}
	if item.ThumbnailURL != "" {
		rssItem.Enclosure = &feeds.Enclosure{Url: item.ThumbnailURL, Type: "image/jpeg", Length: "0"}
	}
	return rssItem
}

func latest(items []domain.FeedItem) time.Time {
	var newest time.Time
	for _, item := range items {
		if item.PublishedAt != nil && item.PublishedAt.After(newest) {
			newest = *item.PublishedAt
		}
	}
	if newest.IsZero() {
		return time.Now().UTC()
	}
	return newest
}
