package service

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/clubbravado/fightfeed/internal/modules/feed/domain"
	"github.com/clubbravado/fightfeed/internal/modules/feed/merge"
	"github.com/clubbravado/fightfeed/internal/modules/feed/normalize"
	"github.com/clubbravado/fightfeed/internal/modules/video/extract"
	"github.com/clubbravado/fightfeed/internal/shared/cache"
	"github.com/clubbravado/fightfeed/internal/shared/httpx"
	"github.com/clubbravado/fightfeed/internal/shared/metrics"
	"github.com/clubbravado/fightfeed/internal/shared/parallel"
	"github.com/samber/lo"
)

const defaultSourceName = "Video"

var (
	fullFightPattern   = regexp.MustCompile(`full\s*(fight|match|bout)|free\s*fight|full\s*event`)
	compilationPattern = regexp.MustCompile(`\b(ko|kos|knockouts?|finish(es)?)\b\s*(compilation|highlights|reel|collection|montage)`)
	fanEditPattern     = regexp.MustCompile(`fan\s*made|unofficial`)
)

// DefaultOfficialChannels are lowercase fragments of channel names treated as official.
var DefaultOfficialChannels = []string{
	"ufc", "professional fighters league", "pfl", "dazn boxing", "matchroom", "top rank",
	"one championship", "riyadh season", "thai fight", "bellator", "glory", "bkfc",
	"adcc", "ibjjf", "flograppling", "united world wrestling", "uww",
}

// DefaultPlatformDomains are the hosts a promoted video may live on.
var DefaultPlatformDomains = []string{"youtube.com", "youtu.be"}

type Config struct {
	ArticleTimeout    time.Duration
	VideoPageTimeout  time.Duration
	ChannelTTL        time.Duration
	ChannelFailureTTL time.Duration
	Concurrency       int
	PlatformDomains   []string
	OfficialChannels  []string
}

// Service promotes articles that embed an official full-fight or highlight video.
type Service struct {
	cfg      Config
	pages    httpx.PageFetcher
	channels *cache.TTL[string, bool]
	official []string
	domains  []string
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// New creates a new video service
func New(cfg Config, pages httpx.PageFetcher, channels *cache.TTL[string, bool], logger *slog.Logger, m *metrics.Metrics) *Service {
	lower := func(s string, _ int) (string, bool) {
		s = strings.ToLower(strings.TrimSpace(s))
		return s, s != ""
	}
	return &Service{
		cfg:      cfg,
		pages:    pages,
		channels: channels,
		official: lo.FilterMap(cfg.OfficialChannels, lower),
		domains:  lo.FilterMap(cfg.PlatformDomains, lower),
		logger:   logger,
		metrics:  m,
	}
}

// LooksLikeVideo reports whether an item's text describes a full fight or a
// knockout compilation, excluding fan edits.
func LooksLikeVideo(item domain.FeedItem) bool {
	text := strings.ToLower(item.Title + " " + item.Summary)
	if fanEditPattern.MatchString(text) {
		return false
	}
	return fullFightPattern.MatchString(text) || compilationPattern.MatchString(text)
}

// Promote returns the candidates that link to an official video, deduplicated
// by video link and ordered newest first.
func (s *Service) Promote(ctx context.Context, items []domain.FeedItem) []domain.FeedItem {
	candidates := lo.Filter(items, func(item domain.FeedItem, _ int) bool {
		return LooksLikeVideo(item)
	})

	results := parallel.Map(candidates, s.cfg.Concurrency, func(_ int, item domain.FeedItem) *domain.FeedItem {
		return s.promote(ctx, item)
	})

	promoted := lo.FilterMap(results, func(item *domain.FeedItem, _ int) (domain.FeedItem, bool) {
		if item == nil {
			return domain.FeedItem{}, false
		}
		return *item, true
	})
	promoted = merge.Dedup(promoted)
	domain.SortByRecency(promoted)

	s.logger.Debug("Videos promoted", "candidates", len(candidates), "promoted", len(promoted))
	return promoted
}

func (s *Service) promote(ctx context.Context, item domain.FeedItem) *domain.FeedItem {
	accepted := s.accept(ctx, &item)
	s.metrics.IncrementVideos(accepted)
	if !accepted {
		return nil
	}
	return &item
}

func (s *Service) accept(ctx context.Context, item *domain.FeedItem) bool {
	if item.Link == "" {
		return false
	}

	videoURL, ok := s.EmbeddedVideoURL(ctx, item.Link)
	if !ok || !s.IsPlatformURL(videoURL) {
		return false
	}
	if !s.IsOfficial(ctx, videoURL) {
		return false
	}

	item.Link = normalize.URL(videoURL)
	if item.SourceName == "" {
		item.SourceName = defaultSourceName
	}
	return true
}

// EmbeddedVideoURL fetches an article and returns the first video link it embeds.
func (s *Service) EmbeddedVideoURL(ctx context.Context, articleURL string) (string, bool) {
	html, err := s.pages.FetchPage(ctx, articleURL, s.cfg.ArticleTimeout)
	if err != nil {
		s.logger.Debug("Article fetch failed", "url", articleURL, "error", err)
		return "", false
	}
	return extract.First(extract.NewDocument(html), extract.EmbeddedVideo)
}

// IsPlatformURL reports whether raw is hosted on one of the configured platform domains.
func (s *Service) IsPlatformURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	return lo.SomeBy(s.domains, func(d string) bool {
		return host == d || strings.HasSuffix(host, "."+d)
	})
}

// IsOfficial reports whether the video at videoURL was published by an official channel.
// Verdicts are cached per normalized URL; fetch failures are cached for a shorter time.
func (s *Service) IsOfficial(ctx context.Context, videoURL string) bool {
	key := normalize.URL(videoURL)
	if official, ok := s.channels.Get(key); ok {
		s.metrics.IncrementChannelCache(true)
		return official
	}
	s.metrics.IncrementChannelCache(false)

	html, err := s.pages.FetchPage(ctx, videoURL, s.cfg.VideoPageTimeout)
	if err != nil {
		s.logger.Debug("Video page fetch failed", "url", videoURL, "error", err)
		s.channels.Set(key, false, s.cfg.ChannelFailureTTL)
		return false
	}

	name, _ := extract.First(extract.NewDocument(html), extract.ChannelName)
	official := s.matchesOfficial(name)
	s.channels.Set(key, official, s.cfg.ChannelTTL)

	s.logger.Debug("Channel verified", "url", videoURL, "channel", name, "official", official)
	return official
}

func (s *Service) matchesOfficial(channel string) bool {
	channel = strings.ToLower(strings.TrimSpace(channel))
	if channel == "" {
		return false
	}
	return lo.SomeBy(s.official, func(fragment string) bool {
		return strings.Contains(channel, fragment)
	})
}
