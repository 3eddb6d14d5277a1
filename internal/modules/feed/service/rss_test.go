package service

import (
	"strings"
	"testing"

	"github.com/clubbravado/fightfeed/internal/modules/feed/domain"
)

func TestRenderRSS(t *testing.T) {
	page := domain.Page{
		Status: "ok",
		Count:  1,
		Results: []domain.FeedItem{{
			Title:        "Usyk vs Fury 2",
			Link:         "https://boxing.example/usyk-fury",
			PublishedAt:  &base,
			Summary:      "Rematch confirmed",
			ThumbnailURL: "https://cdn.example/usyk.jpg",
			SourceName:   "Boxing Scene",
		}},
	}

	rss, err := RenderRSS(page, "boxing", domain.KindNews, "http://localhost:8080/api/rss.xml?tab=boxing")
	if err != nil {
		t.Fatalf("RenderRSS() error = %v", err)
	}
	for _, want := range []string{
		`<rss version="2.0"`,
		"<title>Usyk vs Fury 2</title>",
		"<link>https://boxing.example/usyk-fury</link>",
		`url="https://cdn.example/usyk.jpg"`,
	} {
		if !strings.Contains(rss, want) {
			t.Errorf("rss missing %q:\n%s", want, rss)
		}
	}
}
