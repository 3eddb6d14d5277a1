package di

import (
	"context"
	"log/slog"
	"os"

	catalogDomain "github.com/clubbravado/fightfeed/internal/modules/catalog/domain"
	catalogRepo "github.com/clubbravado/fightfeed/internal/modules/catalog/repository"
	feedDomain "github.com/clubbravado/fightfeed/internal/modules/feed/domain"
	"github.com/clubbravado/fightfeed/internal/modules/feed/fetcher"
	"github.com/clubbravado/fightfeed/internal/modules/feed/filter"
	feedService "github.com/clubbravado/fightfeed/internal/modules/feed/service"
	"github.com/clubbravado/fightfeed/internal/modules/feed/warmer"
	videoService "github.com/clubbravado/fightfeed/internal/modules/video/service"
	"github.com/clubbravado/fightfeed/internal/shared/cache"
	"github.com/clubbravado/fightfeed/internal/shared/config"
	"github.com/clubbravado/fightfeed/internal/shared/httpx"
	"github.com/clubbravado/fightfeed/internal/shared/logging"
	"github.com/clubbravado/fightfeed/internal/shared/metrics"
	httpServer "github.com/clubbravado/fightfeed/internal/transport/http"
	telegramHandler "github.com/clubbravado/fightfeed/internal/transport/telegram"
	"github.com/go-telegram/bot"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// Setup initializes the dependency injection container. configPath may be empty.
func Setup(configPath string) (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, oops.In("config").With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register Logger
	do.Provide(injector, func(i do.Injector) (*slog.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logging.New(logging.ParseLevel(cfg.LogLevel), os.Stdout, os.Stderr), nil
	})

	// Register Metrics
	do.Provide(injector, func(i do.Injector) (*metrics.Metrics, error) {
		return metrics.New(), nil
	})

	// Register Catalog Repository
	do.Provide(injector, func(i do.Injector) (catalogRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.CatalogPath != "" {
			return catalogRepo.NewFileStorage(cfg.CatalogPath), nil
		}
		return catalogRepo.NewStatic(), nil
	})

	// Register Catalog
	do.Provide(injector, func(i do.Injector) (*catalogDomain.Catalog, error) {
		repo := do.MustInvoke[catalogRepo.Repository](i)
		catalog, err := repo.Load()
		if err != nil {
			return nil, oops.In("catalog").With("context", "failed to load catalog").Wrap(err)
		}
		return catalog, nil
	})

	// Register Caches
	do.Provide(injector, func(i do.Injector) (*cache.TTL[feedService.CacheKey, feedDomain.Page], error) {
		return cache.New[feedService.CacheKey, feedDomain.Page](), nil
	})
	do.Provide(injector, func(i do.Injector) (*cache.TTL[string, bool], error) {
		return cache.New[string, bool](), nil
	})

	// Register Page Fetcher
	do.Provide(injector, func(i do.Injector) (*httpx.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return httpx.NewClient(cfg.UserAgent, cfg.OutboundRPS), nil
	})

	// Register Feed Fetcher
	do.Provide(injector, func(i do.Injector) (*fetcher.Fetcher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		logger := do.MustInvoke[*slog.Logger](i)
		m := do.MustInvoke[*metrics.Metrics](i)
		return fetcher.New(cfg.FeedTimeout, cfg.UserAgent, logger, m), nil
	})

	// Register Relevance Filter
	do.Provide(injector, func(i do.Injector) (*filter.Relevance, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return filter.NewRelevance(
			orDefault(cfg.RelevanceInclude, filter.DefaultInclude),
			orDefault(cfg.RelevanceExclude, filter.DefaultExclude),
		), nil
	})

	// Register Video Service
	do.Provide(injector, func(i do.Injector) (*videoService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		pages := do.MustInvoke[*httpx.Client](i)
		channels := do.MustInvoke[*cache.TTL[string, bool]](i)
		logger := do.MustInvoke[*slog.Logger](i)
		m := do.MustInvoke[*metrics.Metrics](i)
		return videoService.New(videoService.Config{
			ArticleTimeout:    cfg.ArticleTimeout,
			VideoPageTimeout:  cfg.VideoPageTimeout,
			ChannelTTL:        cfg.ChannelTTL,
			ChannelFailureTTL: cfg.ChannelFailureTTL,
			Concurrency:       cfg.VideoConcurrency,
			PlatformDomains:   orDefault(cfg.VideoPlatformDomains, videoService.DefaultPlatformDomains),
			OfficialChannels:  orDefault(cfg.OfficialChannels, videoService.DefaultOfficialChannels),
		}, pages, channels, logger, m), nil
	})

	// Register Feed Service
	do.Provide(injector, func(i do.Injector) (*feedService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return feedService.New(
			feedService.Config{
				PageSize:          cfg.PageSize,
				ThumbnailBackfill: cfg.ThumbnailBackfill,
				PreviewTimeout:    cfg.PreviewTimeout,
				ResponseTTL:       cfg.ResponseTTL,
				FetchConcurrency:  cfg.FetchConcurrency,
			},
			do.MustInvoke[*catalogDomain.Catalog](i),
			do.MustInvoke[*fetcher.Fetcher](i),
			do.MustInvoke[*httpx.Client](i),
			do.MustInvoke[*filter.Relevance](i),
			do.MustInvoke[*videoService.Service](i),
			do.MustInvoke[*cache.TTL[feedService.CacheKey, feedDomain.Page]](i),
			do.MustInvoke[*slog.Logger](i),
			do.MustInvoke[*metrics.Metrics](i),
		), nil
	})

	// Register Cache Warmer
	do.Provide(injector, func(i do.Injector) (*warmer.Warmer, error) {
		cfg := do.MustInvoke[*config.Config](i)
		feeds := do.MustInvoke[*feedService.Service](i)
		catalog := do.MustInvoke[*catalogDomain.Catalog](i)
		logger := do.MustInvoke[*slog.Logger](i)
		return warmer.New(cfg.WarmInterval, feeds, catalog, logger), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		feeds := do.MustInvoke[*feedService.Service](i)
		m := do.MustInvoke[*metrics.Metrics](i)
		logger := do.MustInvoke[*slog.Logger](i)
		return httpServer.New(cfg, feeds, m, logger), nil
	})

	// Register Telegram Handler
	do.Provide(injector, func(i do.Injector) (*telegramHandler.Handler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		feeds := do.MustInvoke[*feedService.Service](i)
		catalog := do.MustInvoke[*catalogDomain.Catalog](i)
		logger := do.MustInvoke[*slog.Logger](i)
		return telegramHandler.New(cfg, feeds, catalog, logger), nil
	})

	// Register Bot; only invoked when a token is configured
	do.Provide(injector, func(i do.Injector) (*bot.Bot, error) {
		cfg := do.MustInvoke[*config.Config](i)
		handler := do.MustInvoke[*telegramHandler.Handler](i)

		b, err := bot.New(cfg.TelegramBotToken, bot.WithDefaultHandler(handler.HandleUpdate))
		if err != nil {
			return nil, oops.In("telegram").With("context", "failed to create telegram bot").Wrap(err)
		}
		handler.RegisterCommands(b)
		return b, nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(ctx context.Context, injector do.Injector) error {
	if w, err := do.Invoke[*warmer.Warmer](injector); err == nil && w != nil {
		w.Stop()
	}

	if server, err := do.Invoke[*httpServer.Server](injector); err == nil && server != nil {
		if err := server.Shutdown(ctx); err != nil {
			return oops.With("context", "failed to stop http server").Wrap(err)
		}
	}
	return nil
}

func orDefault(values, fallback []string) []string {
	if values == nil {
		return fallback
	}
	return values
}
