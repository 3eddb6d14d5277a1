package fetcher

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/clubbravado/fightfeed/internal/modules/feed/domain"
	"github.com/clubbravado/fightfeed/internal/modules/feed/normalize"
	"github.com/clubbravado/fightfeed/internal/shared/metrics"
	"github.com/mmcdole/gofeed"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

const summaryLimit = 500

// Fetcher downloads and parses one RSS/Atom feed at a time.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// New creates a feed fetcher
func New(timeout time.Duration, userAgent string, logger *slog.Logger, m *metrics.Metrics) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		timeout:   timeout,
		userAgent: userAgent,
		logger:    logger,
		metrics:   m,
	}
}

// Fetch returns the normalized entries of the feed at feedURL.
// Any failure is logged and yields an empty list.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) []domain.FeedItem {
	feed, err := f.parse(ctx, feedURL)
	if err != nil {
		f.logger.Warn("Feed fetch failed", "url", feedURL, "error", err)
		f.metrics.IncrementFeedsFailed()
		return nil
	}

	f.metrics.IncrementFeedsFetched(len(feed.Items))
	f.logger.Debug("Feed fetched", "url", feedURL, "items", len(feed.Items))

	source := lo.Ternary(strings.TrimSpace(feed.Title) != "", strings.TrimSpace(feed.Title), feedURL)
	items := lo.Filter(feed.Items, func(item *gofeed.Item, _ int) bool { return item != nil })
	return lo.Map(items, func(item *gofeed.Item, _ int) domain.FeedItem {
		return toFeedItem(item, source)
	})
}

func (f *Fetcher) parse(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	// gofeed parsers are not safe for concurrent use
	parser := gofeed.NewParser()
	parser.Client = f.client
	parser.UserAgent = f.userAgent

	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, oops.With("url", feedURL).Wrap(err)
	}
	return feed, nil
}

func toFeedItem(item *gofeed.Item, source string) domain.FeedItem {
	summary := item.Description
	if strings.TrimSpace(summary) == "" {
		summary = item.Content
	}

	parsed := item.PublishedParsed
	if parsed == nil {
		parsed = item.UpdatedParsed
	}

	return domain.FeedItem{
		Title:        strings.TrimSpace(item.Title),
		Link:         strings.TrimSpace(item.Link),
		PublishedAt:  normalize.Date(parsed, item.Published, item.Updated),
		Summary:      normalize.Text(summary, summaryLimit),
		ThumbnailURL: normalize.Thumbnail(item),
		SourceName:   source,
	}
}
