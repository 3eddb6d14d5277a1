package merge

import (
	"testing"

	"github.com/clubbravado/fightfeed/internal/modules/feed/domain"
)

func TestMergeFirstOccurrenceWins(t *testing.T) {
	lists := [][]domain.FeedItem{
		{
			{Title: "Jones vs Miocic", Link: "https://Example.com/a?utm_source=rss", SourceName: "MMA Junkie"},
			{Title: "No link story"},
		},
		{
			{Title: "Jones vs Miocic (copy)", Link: "https://example.com/a#comments", SourceName: "MMA Fighting"},
			{Title: "No link story", SourceName: "dup by title"},
			{Title: "Canelo fight week", Link: "https://boxing.example.com/canelo"},
		},
	}

	got := Merge(lists)

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3: %+v", len(got), got)
	}
	if got[0].SourceName != "MMA Junkie" || got[0].Link != "https://example.com/a" {
		t.Fatalf("first item = %+v", got[0])
	}
	if got[1].Title != "No link story" || got[1].Link != "" || got[1].SourceName != "" {
		t.Fatalf("title-keyed item = %+v", got[1])
	}
	if got[2].Title != "Canelo fight week" {
		t.Fatalf("third item = %+v", got[2])
	}
}

func TestMergeSkipsEmptyKeys(t *testing.T) {
	got := Merge([][]domain.FeedItem{{{Title: "  ", Link: ""}, {Summary: "orphan"}}})
	if len(got) != 0 {
		t.Fatalf("expected no items, got %+v", got)
	}
}

func TestMergeLinksAreUnique(t *testing.T) {
	var list []domain.FeedItem
	for _, link := range []string{
		"https://a.com/x", "https://A.com/x?fbclid=1", "https://a.com/x#top",
		"https://a.com/y", "https://a.com/y?gclid=2", "https://a.com/z",
	} {
		list = append(list, domain.FeedItem{Title: link, Link: link})
	}

	got := Dedup(list)

	seen := map[string]bool{}
	for _, item := range got {
		if seen[item.Link] {
			t.Fatalf("duplicate link %q", item.Link)
		}
		seen[item.Link] = true
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
}
