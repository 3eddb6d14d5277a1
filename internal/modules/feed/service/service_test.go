package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	catalogDomain "github.com/clubbravado/fightfeed/internal/modules/catalog/domain"
	"github.com/clubbravado/fightfeed/internal/modules/feed/domain"
	"github.com/clubbravado/fightfeed/internal/modules/feed/filter"
	"github.com/clubbravado/fightfeed/internal/shared/cache"
	"github.com/clubbravado/fightfeed/internal/shared/metrics"
)

type fakeFetcher struct {
	mu    sync.Mutex
	feeds map[string][]domain.FeedItem
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) []domain.FeedItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return append([]domain.FeedItem(nil), f.feeds[url]...)
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakePages struct {
	mu    sync.Mutex
	pages map[string]string
	calls []string
}

func (f *fakePages) FetchPage(_ context.Context, url string, _ time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	body, ok := f.pages[url]
	if !ok {
		return "", errors.New("not found")
	}
	return body, nil
}

type fakePromoter struct {
	called bool
}

func (p *fakePromoter) Promote(_ context.Context, items []domain.FeedItem) []domain.FeedItem {
	p.called = true
	if len(items) == 0 {
		return items
	}
	promoted := items[0]
	promoted.Link = "https://www.youtube.com/watch?v=promoted"
	return []domain.FeedItem{promoted}
}

const (
	boxingA = "https://boxing-a.example/feed"
	boxingB = "https://boxing-b.example/feed"
	mmaA    = "https://mma-a.example/feed"
)

var base = time.Date(2024, 4, 13, 0, 0, 0, 0, time.UTC)

// boxingItems returns n relevant items published one hour apart, newest first.
func boxingItems(source string, n, offsetHours int) []domain.FeedItem {
	items := make([]domain.FeedItem, 0, n)
	for i := 0; i < n; i++ {
		published := base.Add(-time.Duration(offsetHours+2*i) * time.Hour)
		items = append(items, domain.FeedItem{
			Title:        fmt.Sprintf("Boxing update %s #%d", source, i),
			Link:         fmt.Sprintf("https://%s.example/story/%d", source, i),
			PublishedAt:  &published,
			ThumbnailURL: "https://cdn.example/thumb.jpg",
			SourceName:   source,
		})
	}
	return items
}

type harness struct {
	svc      *Service
	fetcher  *fakeFetcher
	pages    *fakePages
	promoter *fakePromoter
}

func newHarness(t *testing.T, feeds map[string][]domain.FeedItem) *harness {
	t.Helper()
	catalog, err := catalogDomain.New(map[string][]string{
		"all":    {boxingA, boxingB, mmaA},
		"boxing": {boxingA, boxingB},
	})
	if err != nil {
		t.Fatal(err)
	}

	h := &harness{
		fetcher:  &fakeFetcher{feeds: feeds},
		pages:    &fakePages{pages: map[string]string{}},
		promoter: &fakePromoter{},
	}
	cfg := Config{
		PageSize:          20,
		ThumbnailBackfill: 3,
		PreviewTimeout:    time.Second,
		ResponseTTL:       2 * time.Minute,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h.svc = New(cfg, catalog, h.fetcher, h.pages,
		filter.NewRelevance(filter.DefaultInclude, filter.DefaultExclude),
		h.promoter, cache.New[CacheKey, domain.Page](), logger, metrics.New())
	return h
}

func TestListBoxingNewsFirstPage(t *testing.T) {
	feeds := map[string][]domain.FeedItem{
		boxingA: append(boxingItems("a", 15, 0), domain.FeedItem{Title: "Powerball jackpot climbs", Link: "https://a.example/lotto"}),
		boxingB: boxingItems("b", 15, 1),
	}
	h := newHarness(t, feeds)

	page := h.svc.List(context.Background(), domain.Query{Category: "boxing", Kind: domain.KindNews, Page: 0})

	if page.Status != "ok" || page.Count != 20 || len(page.Results) != 20 {
		t.Fatalf("status=%q count=%d len=%d", page.Status, page.Count, len(page.Results))
	}
	if page.NextPage == nil || *page.NextPage != "1" {
		t.Fatalf("NextPage = %v, want \"1\"", page.NextPage)
	}
	for i := 1; i < len(page.Results); i++ {
		if page.Results[i].SortTime().After(page.Results[i-1].SortTime()) {
			t.Fatalf("results not newest first at %d", i)
		}
	}
	for _, item := range page.Results {
		if item.Title == "Powerball jackpot climbs" {
			t.Fatal("irrelevant item leaked into news")
		}
	}
	if h.fetcher.Calls() != 2 {
		t.Fatalf("fetched %d feeds, want 2", h.fetcher.Calls())
	}
}

func TestListPagesConcatenateToSortedList(t *testing.T) {
	feeds := map[string][]domain.FeedItem{
		boxingA: boxingItems("a", 25, 0),
		boxingB: boxingItems("b", 25, 1),
	}
	h := newHarness(t, feeds)
	ctx := context.Background()

	full := h.svc.Aggregate(ctx, []string{boxingA, boxingB}, domain.KindNews)
	p0 := h.svc.List(ctx, domain.Query{Category: "boxing", Kind: domain.KindNews, Page: 0})
	p1 := h.svc.List(ctx, domain.Query{Category: "boxing", Kind: domain.KindNews, Page: 1})
	p2 := h.svc.List(ctx, domain.Query{Category: "boxing", Kind: domain.KindNews, Page: 2})

	combined := append(append([]domain.FeedItem{}, p0.Results...), p1.Results...)
	if len(combined) != 40 {
		t.Fatalf("combined len = %d, want 40", len(combined))
	}
	for i := range combined {
		if combined[i].Link != full[i].Link {
			t.Fatalf("item %d = %q, want %q", i, combined[i].Link, full[i].Link)
		}
	}
	if p1.NextPage == nil || *p1.NextPage != "2" {
		t.Fatalf("page 1 NextPage = %v", p1.NextPage)
	}
	if p2.Count != 10 || p2.NextPage != nil {
		t.Fatalf("last page count=%d next=%v", p2.Count, p2.NextPage)
	}
}

func TestListServesFromCache(t *testing.T) {
	h := newHarness(t, map[string][]domain.FeedItem{boxingA: boxingItems("a", 5, 0)})
	ctx := context.Background()
	q := domain.Query{Category: "boxing", Kind: domain.KindNews}

	first := h.svc.List(ctx, q)
	calls := h.fetcher.Calls()
	second := h.svc.List(ctx, q)

	if h.fetcher.Calls() != calls {
		t.Fatalf("cached request fetched feeds again (%d -> %d)", calls, h.fetcher.Calls())
	}
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatalf("cached payload differs:\n%s\n%s", a, b)
	}
}

func TestListUnknownCategorySharesAllCache(t *testing.T) {
	h := newHarness(t, map[string][]domain.FeedItem{mmaA: boxingItems("m", 2, 0)})
	ctx := context.Background()

	h.svc.List(ctx, domain.Query{Category: "curling"})
	calls := h.fetcher.Calls()
	if calls != 3 {
		t.Fatalf("unknown category should fetch the all list, got %d calls", calls)
	}

	h.svc.List(ctx, domain.Query{Category: "all", Kind: domain.KindAll})
	if h.fetcher.Calls() != calls {
		t.Fatal("all and an unknown category should share a cache entry")
	}
}

func TestListVideosUsesPromoter(t *testing.T) {
	h := newHarness(t, map[string][]domain.FeedItem{
		boxingA: {{Title: "Full Fight: Canelo vs GGG", Link: "https://a.example/full"}},
	})

	page := h.svc.List(context.Background(), domain.Query{Category: "boxing", Kind: domain.KindVideos})

	if !h.promoter.called {
		t.Fatal("promoter not invoked for videos")
	}
	if page.Count != 1 || page.Results[0].Link != "https://www.youtube.com/watch?v=promoted" {
		t.Fatalf("page = %+v", page)
	}
}

func TestListNegativePageIsZero(t *testing.T) {
	h := newHarness(t, map[string][]domain.FeedItem{boxingA: boxingItems("a", 3, 0)})
	page := h.svc.List(context.Background(), domain.Query{Category: "boxing", Page: -4})
	if page.Count != 3 {
		t.Fatalf("Count = %d, want 3", page.Count)
	}
}

func TestBackfillThumbnails(t *testing.T) {
	items := boxingItems("a", 5, 0)
	for i := range items {
		items[i].ThumbnailURL = ""
	}
	items[1].ThumbnailURL = "https://cdn.example/has.jpg"

	h := newHarness(t, map[string][]domain.FeedItem{boxingA: items})
	h.pages.pages[items[0].Link] = `<meta property="og:image" content="/images/lead.jpg">`
	h.pages.pages[items[2].Link] = `<meta name="twitter:image" content="https://cdn.example/tw.jpg">`

	page := h.svc.List(context.Background(), domain.Query{Category: "boxing"})

	if got := page.Results[0].ThumbnailURL; got != "https://a.example/images/lead.jpg" {
		t.Errorf("item 0 thumbnail = %q", got)
	}
	if got := page.Results[1].ThumbnailURL; got != "https://cdn.example/has.jpg" {
		t.Errorf("item 1 thumbnail = %q", got)
	}
	if got := page.Results[2].ThumbnailURL; got != "https://cdn.example/tw.jpg" {
		t.Errorf("item 2 thumbnail = %q", got)
	}
	if got := page.Results[3].ThumbnailURL; got != "" {
		t.Errorf("item 3 should not be backfilled, got %q", got)
	}
	if len(h.pages.calls) != 2 {
		t.Errorf("preview fetches = %d, want 2", len(h.pages.calls))
	}
}

func TestPaginate(t *testing.T) {
	items := boxingItems("p", 45, 0)
	tests := []struct {
		page      int
		wantCount int
		wantNext  string
	}{
		{0, 20, "1"},
		{1, 20, "2"},
		{2, 5, ""},
		{3, 0, ""},
		{1 << 60, 0, ""},
	}
	for _, tt := range tests {
		got, next := Paginate(items, tt.page, 20)
		if len(got) != tt.wantCount {
			t.Errorf("page %d: len = %d, want %d", tt.page, len(got), tt.wantCount)
		}
		if (next == nil) != (tt.wantNext == "") || (next != nil && *next != tt.wantNext) {
			t.Errorf("page %d: next = %v, want %q", tt.page, next, tt.wantNext)
		}
	}

	exact, next := Paginate(items[:40], 1, 20)
	if len(exact) != 20 || next != nil {
		t.Fatalf("exact boundary: len=%d next=%v", len(exact), next)
	}
}
