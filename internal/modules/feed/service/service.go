package service

import (
	"context"
	"log/slog"
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/clubbravado/fightfeed/internal/modules/feed/domain"
	"github.com/clubbravado/fightfeed/internal/modules/feed/filter"
	"github.com/clubbravado/fightfeed/internal/modules/feed/merge"
	"github.com/clubbravado/fightfeed/internal/modules/video/extract"
	"github.com/clubbravado/fightfeed/internal/shared/cache"
	"github.com/clubbravado/fightfeed/internal/shared/httpx"
	"github.com/clubbravado/fightfeed/internal/shared/metrics"
	"github.com/clubbravado/fightfeed/internal/shared/parallel"
	"github.com/samber/lo"
)

// FeedFetcher returns the normalized items of one feed, empty on failure.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) []domain.FeedItem
}

// Catalog resolves a category to its effective name and feed URLs.
type Catalog interface {
	Resolve(category string) (string, []string)
}

// Promoter turns merged articles into verified video items.
type Promoter interface {
	Promote(ctx context.Context, items []domain.FeedItem) []domain.FeedItem
}

// Stage is the kind-specific step between merging and sorting.
type Stage interface {
	Apply(ctx context.Context, items []domain.FeedItem) []domain.FeedItem
}

type StageFunc func(ctx context.Context, items []domain.FeedItem) []domain.FeedItem

func (f StageFunc) Apply(ctx context.Context, items []domain.FeedItem) []domain.FeedItem {
	return f(ctx, items)
}

// CacheKey identifies one assembled page in the response cache.
type CacheKey struct {
	Category string
	Kind     domain.Kind
	Page     int
}

type Config struct {
	PageSize          int
	ThumbnailBackfill int
	PreviewTimeout    time.Duration
	ResponseTTL       time.Duration
	FetchConcurrency  int
}

// Service assembles paginated listings from the source catalog.
type Service struct {
	cfg       Config
	catalog   Catalog
	fetcher   FeedFetcher
	pages     httpx.PageFetcher
	stages    map[domain.Kind]Stage
	responses *cache.TTL[CacheKey, domain.Page]
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// New creates a new feed service
func New(
	cfg Config,
	catalog Catalog,
	fetcher FeedFetcher,
	pages httpx.PageFetcher,
	relevance *filter.Relevance,
	promoter Promoter,
	responses *cache.TTL[CacheKey, domain.Page],
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	news := StageFunc(func(_ context.Context, items []domain.FeedItem) []domain.FeedItem {
		return relevance.Apply(items)
	})

	return &Service{
		cfg:     cfg,
		catalog: catalog,
		fetcher: fetcher,
		pages:   pages,
		stages: map[domain.Kind]Stage{
			domain.KindAll:    news,
			domain.KindNews:   news,
			domain.KindVideos: StageFunc(promoter.Promote),
		},
		responses: responses,
		logger:    logger,
		metrics:   m,
	}
}

// List returns one page of the listing described by q, serving it from the
// response cache when a fresh copy exists.
func (s *Service) List(ctx context.Context, q domain.Query) domain.Page {
	category, urls := s.catalog.Resolve(q.Category)
	kind := domain.ParseKindOrAll(q.Kind.String())
	page := max(q.Page, 0)

	key := CacheKey{Category: category, Kind: kind, Page: page}
	if cached, ok := s.responses.Get(key); ok {
		s.metrics.IncrementResponseCache(true)
		return cached
	}
	s.metrics.IncrementResponseCache(false)

	// outbound work finishes even if the caller goes away so the result can be cached
	ctx = context.WithoutCancel(ctx)
	started := time.Now()

	items := s.Aggregate(ctx, urls, kind)
	results, next := Paginate(items, page, s.cfg.PageSize)
	s.backfillThumbnails(ctx, results)

	resp := domain.Page{
		Status:   "ok",
		Count:    len(results),
		NextPage: next,
		Results:  results,
	}
	s.responses.Set(key, resp, s.cfg.ResponseTTL)

	elapsed := time.Since(started)
	s.metrics.RecordAggregationTime(elapsed)
	s.logger.Info("Listing assembled",
		"category", category, "kind", kind, "page", page,
		"sources", len(urls), "total", len(items), "count", resp.Count,
		"duration_ms", elapsed.Milliseconds())

	return resp
}

// Aggregate fetches every feed, merges them in catalog order, applies the
// kind's stage and sorts newest first.
func (s *Service) Aggregate(ctx context.Context, urls []string, kind domain.Kind) []domain.FeedItem {
	lists := parallel.Map(urls, s.cfg.FetchConcurrency, func(_ int, feedURL string) []domain.FeedItem {
		return s.fetcher.Fetch(ctx, feedURL)
	})

	merged := merge.Merge(lists)
	stage, ok := s.stages[kind]
	if !ok {
		stage = s.stages[domain.KindAll]
	}

	items := stage.Apply(ctx, merged)
	domain.SortByRecency(items)
	return items
}

// Paginate slices items for a zero-based page. next is set only when items remain past the page.
func Paginate(items []domain.FeedItem, page, size int) ([]domain.FeedItem, *string) {
	if size <= 0 || page < 0 || page > math.MaxInt/size-1 {
		return []domain.FeedItem{}, nil
	}

	start := page * size
	end := start + size
	results := []domain.FeedItem{}
	if start < len(items) {
		results = append(results, items[start:min(end, len(items))]...)
	}

	var next *string
	if end < len(items) {
		n := strconv.Itoa(page + 1)
		next = &n
	}
	return results, next
}

// backfillThumbnails fills missing thumbnails among the first items of a page
// from the linked page's social preview image.
func (s *Service) backfillThumbnails(ctx context.Context, items []domain.FeedItem) {
	limit := min(s.cfg.ThumbnailBackfill, len(items))
	if limit <= 0 {
		return
	}

	targets := lo.Filter(lo.Range(limit), func(i int, _ int) bool {
		return items[i].ThumbnailURL == "" && items[i].Link != ""
	})
	images := parallel.Map(targets, 0, func(_ int, i int) string {
		return s.previewImage(ctx, items[i].Link)
	})

	for j, i := range targets {
		if images[j] != "" {
			items[i].ThumbnailURL = images[j]
			s.metrics.IncrementThumbnailsBackfilled()
		}
	}
}

func (s *Service) previewImage(ctx context.Context, pageURL string) string {
	html, err := s.pages.FetchPage(ctx, pageURL, s.cfg.PreviewTimeout)
	if err != nil {
		s.logger.Debug("Preview fetch failed", "url", pageURL, "error", err)
		return ""
	}

	image, ok := extract.First(extract.NewDocument(html), extract.PreviewImage)
	if !ok {
		return ""
	}
	return resolveAgainst(pageURL, image)
}

func resolveAgainst(base, ref string) string {
	refURL, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if refURL.IsAbs() {
		return refURL.String()
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(refURL).String()
}
