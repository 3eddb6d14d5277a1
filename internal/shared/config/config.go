package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/clubbravado/fightfeed/internal/shared/errors"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// EnvPrefix marks environment variables that override config values.
const EnvPrefix = "FIGHTFEED_"

const DefaultUserAgent = "ClubBravadoFeed/1.0 (+https://clubbravado.com)"

type Config struct {
	HTTPPort    string `koanf:"http_port"`
	AppEnv      AppEnv `koanf:"app_env"`
	LogLevel    string `koanf:"log_level"`
	UserAgent   string `koanf:"user_agent"`
	CatalogPath string `koanf:"catalog_path"`

	FeedTimeout      time.Duration `koanf:"feed_timeout"`
	ArticleTimeout   time.Duration `koanf:"article_timeout"`
	VideoPageTimeout time.Duration `koanf:"video_page_timeout"`
	PreviewTimeout   time.Duration `koanf:"preview_timeout"`

	ResponseTTL       time.Duration `koanf:"response_ttl"`
	ChannelTTL        time.Duration `koanf:"channel_ttl"`
	ChannelFailureTTL time.Duration `koanf:"channel_failure_ttl"`
	WarmInterval      time.Duration `koanf:"warm_interval"`

	PageSize          int     `koanf:"page_size"`
	ThumbnailBackfill int     `koanf:"thumbnail_backfill"`
	FetchConcurrency  int     `koanf:"fetch_concurrency"`
	VideoConcurrency  int     `koanf:"video_concurrency"`
	OutboundRPS       float64 `koanf:"outbound_rps"`

	TelegramBotToken string  `koanf:"telegram_bot_token"`
	AllowedUsers     []int64 `koanf:"-"`

	// Keyword and channel lists stay nil when unset so callers can apply their own defaults.
	RelevanceInclude     []string `koanf:"-"`
	RelevanceExclude     []string `koanf:"-"`
	OfficialChannels     []string `koanf:"-"`
	VideoPlatformDomains []string `koanf:"-"`
}

var defaults = map[string]any{
	"http_port":           "8080",
	"app_env":             "production",
	"log_level":           "info",
	"user_agent":          DefaultUserAgent,
	"feed_timeout":        "12s",
	"article_timeout":     "7s",
	"video_page_timeout":  "9s",
	"preview_timeout":     "6s",
	"response_ttl":        "2m",
	"channel_ttl":         "24h",
	"channel_failure_ttl": "5m",
	"warm_interval":       "0s",
	"page_size":           20,
	"thumbnail_backfill":  3,
	"fetch_concurrency":   0,
	"video_concurrency":   6,
	"outbound_rps":        0,
}

// Load reads configuration from path, or from the first config.{yaml,yml,json,toml}
// in the working directory when path is empty, then applies FIGHTFEED_* environment
// overrides and fills in defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	configFile := path
	if configFile == "" {
		configFile, _ = lo.Find([]string{
			"config.yaml",
			"config.yml",
			"config.json",
			"config.toml",
		}, func(file string) bool {
			_, err := os.Stat(file)
			return err == nil
		})
	}

	if configFile != "" {
		parser, err := parserFor(configFile)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Environment variables override config file values
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	explicitLogLevel := k.Exists("log_level")
	for key, value := range defaults {
		if k.Exists(key) {
			continue
		}
		if err := k.Set(key, value); err != nil {
			return nil, oops.With("key", key, "context", "setting default").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	cfg.AllowedUsers = int64List(k.Get("allowed_users"))
	cfg.RelevanceInclude = stringList(k.Get("relevance_include"))
	cfg.RelevanceExclude = stringList(k.Get("relevance_exclude"))
	cfg.OfficialChannels = stringList(k.Get("official_channels"))
	cfg.VideoPlatformDomains = stringList(k.Get("video_platform_domains"))

	if appEnv, err := ParseAppEnv(k.String("app_env")); err == nil {
		cfg.AppEnv = appEnv
	} else {
		cfg.AppEnv = AppEnvProduction
	}
	if cfg.AppEnv == AppEnvDevelopment && !explicitLogLevel {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that have no usable fallback.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.HTTPPort) == "" {
		return errors.ErrMissingHTTPPort
	}
	if c.PageSize <= 0 {
		return oops.With("page_size", c.PageSize).Wrap(errors.ErrInvalidPageSize)
	}
	return nil
}

// TelegramEnabled reports whether the bot transport should start.
func (c *Config) TelegramEnabled() bool {
	return strings.TrimSpace(c.TelegramBotToken) != ""
}

func parserFor(configFile string) (koanf.Parser, error) {
	switch ext := filepath.Ext(configFile); ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	default:
		return nil, oops.Errorf("unsupported config file extension: %s", ext)
	}
}

// stringList reads a list given either as a config array or a comma-separated string.
func stringList(value any) []string {
	switch v := value.(type) {
	case string:
		return splitList(v)
	case []any:
		return lo.FilterMap(v, func(item any, _ int) (string, bool) {
			s, ok := item.(string)
			s = strings.TrimSpace(s)
			return s, ok && s != ""
		})
	default:
		return nil
	}
}

func int64List(value any) []int64 {
	switch v := value.(type) {
	case string:
		return ParseAllowedUsers(v)
	case []any:
		return lo.FilterMap(v, func(item any, _ int) (int64, bool) {
			switch val := item.(type) {
			case int64:
				return val, true
			case int:
				return int64(val), true
			case float64:
				return int64(val), true
			case string:
				id, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
				return id, err == nil
			default:
				return 0, false
			}
		})
	default:
		return []int64{}
	}
}

func splitList(s string) []string {
	parts := lo.FilterMap(strings.Split(s, ","), func(part string, _ int) (string, bool) {
		part = strings.TrimSpace(part)
		return part, part != ""
	})
	if parts == nil {
		return []string{}
	}
	return parts
}

// ParseAllowedUsers parses comma-separated user IDs string into []int64
func ParseAllowedUsers(s string) []int64 {
	return lo.FilterMap(splitList(s), func(part string, _ int) (int64, bool) {
		id, err := strconv.ParseInt(part, 10, 64)
		return id, err == nil
	})
}
