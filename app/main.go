package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lysyi3m/rss-reader/app/api"
	"github.com/lysyi3m/rss-reader/app/cfg"
	"github.com/lysyi3m/rss-reader/app/feed"
	"github.com/lysyi3m/rss-reader/app/i18n"
	"github.com/lysyi3m/rss-reader/app/proxy"
	"github.com/lysyi3m/rss-reader/app/reader"
	"github.com/lysyi3m/rss-reader/app/state"
	"github.com/lysyi3m/rss-reader/app/tasks"
	"golang.org/x/sync/errgroup"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	setupLogger(appCfg.Debug)

	if err := run(appCfg); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

func run(appCfg *cfg.Cfg) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Starting RSS Reader", "version", appCfg.Version, "locale", appCfg.Locale)

	client, err := proxy.NewClient(&http.Client{}, proxy.Config{
		ProxyURL:  appCfg.ProxyURL,
		UserAgent: appCfg.UserAgent,
		Timeout:   appCfg.FetchTimeout,
		RateLimit: appCfg.RateLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to create proxy client: %w", err)
	}

	store := state.NewStore()
	parser := feed.NewParser()

	scheduler := tasks.NewScheduler(store, client, parser, appCfg.PollInterval)
	scheduler.Start()
	defer scheduler.Stop()

	rdr := reader.New(store, client, parser, scheduler, i18n.New(appCfg.Locale))

	selfLink := ""
	if appCfg.BaseUrl != "" {
		selfLink = strings.TrimRight(appCfg.BaseUrl, "/") + "/rss"
	}
	handler := api.NewHandler(store, rdr, feed.NewGenerator(selfLink, appCfg.Version), appCfg.Version)

	// No write timeout: /api/events keeps the response open.
	httpServer := &http.Server{
		Addr:        ":" + appCfg.Port,
		Handler:     api.NewServer(handler),
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Starting HTTP server", "port", appCfg.Port, "proxy", appCfg.ProxyURL, "poll_interval", appCfg.PollInterval)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown error: %w", err)
		}
		slog.Info("HTTP server stopped")
		return nil
	})

	g.Go(func() error {
		return subscribeSeeds(gctx, appCfg.FeedsFile, rdr)
	})

	err = g.Wait()
	slog.Info("Polling loops stopping", "feeds", store.FeedCount())
	return err
}

// subscribeSeeds submits every URL of the seed file through the regular
// workflow. A rejected URL is logged and skipped.
func subscribeSeeds(ctx context.Context, path string, rdr *reader.Reader) error {
	urls, err := feed.NewSeedLoader(path).Run()
	if err != nil {
		return fmt.Errorf("failed to load seed feeds: %w", err)
	}
	if len(urls) == 0 {
		slog.Debug("No seed feeds configured")
		return nil
	}

	slog.Info("Subscribing to seed feeds", "count", len(urls), "file", path)

	subscribed := 0
	for _, url := range urls {
		if ctx.Err() != nil {
			return nil
		}
		if _, err := rdr.Submit(ctx, url); err != nil {
			slog.Warn("Seed feed rejected", "url", url, "error", err)
			continue
		}
		subscribed++
	}

	slog.Info("Seed feeds processed", "subscribed", subscribed, "total", len(urls))
	return nil
}
