package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clubbravado/fightfeed/internal/di"
	"github.com/clubbravado/fightfeed/internal/shared/config"
	"github.com/clubbravado/fightfeed/internal/shared/logging"
	"github.com/clubbravado/fightfeed/internal/modules/feed/warmer"
	httpServer "github.com/clubbravado/fightfeed/internal/transport/http"
	"github.com/go-telegram/bot"
	"github.com/joho/godotenv"
	"github.com/samber/do/v2"
	flag "github.com/spf13/pflag"
)

func main() {
	configPath := flag.StringP("config", "c", "", "path to a yaml, json or toml config file")
	port := flag.StringP("port", "p", "", "HTTP port, overrides http_port")
	flag.Parse()

	// Bootstrap logger until the configured one is available
	slog.SetDefault(logging.New(slog.LevelInfo, os.Stdout, os.Stderr))

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	if *port != "" {
		os.Setenv(config.EnvPrefix+"HTTP_PORT", *port)
	}

	injector, err := di.Setup(*configPath)
	if err != nil {
		slog.Error("Failed to setup dependency injection", "error", err)
		os.Exit(1)
	}

	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := do.MustInvoke[*slog.Logger](injector)
	slog.SetDefault(logger)

	server, err := do.Invoke[*httpServer.Server](injector)
	if err != nil {
		logger.Error("Failed to build HTTP server", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.TelegramEnabled() {
		b, err := do.Invoke[*bot.Bot](injector)
		if err != nil {
			logger.Error("Failed to start telegram bot", "error", err)
			os.Exit(1)
		}
		go b.Start(ctx)
		logger.Info("Telegram bot started")
	}

	do.MustInvoke[*warmer.Warmer](injector).Start(ctx)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("Failed to start HTTP server", "error", err)
			cancel()
		}
	}()

	logger.Info("Application started", "port", cfg.HTTPPort, "env", cfg.AppEnv)

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := di.Shutdown(shutdownCtx, injector); err != nil {
		logger.Error("Error during shutdown", "error", err)
	}
}
