package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Donny208/Hardware-Scrape/app/api"
	"github.com/Donny208/Hardware-Scrape/app/cfg"
	"github.com/Donny208/Hardware-Scrape/app/database"
	"github.com/Donny208/Hardware-Scrape/app/feed"
	"github.com/Donny208/Hardware-Scrape/app/intake"
	"github.com/Donny208/Hardware-Scrape/app/notify"
	"github.com/Donny208/Hardware-Scrape/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Hardware-Scrape", "version", appCfg.Version, "once", appCfg.Once)

	configCache := feed.NewConfigCache(appCfg.SourcesFile, appCfg.KeywordsFile)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load source configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("Configuration loaded", "sources", configCache.GetSourceCount(), "enabled", len(configCache.GetEnabledSources()), "keywords", len(configCache.GetKeywords()))

	if err := appCfg.Validate(configCache.NeedsKind(feed.SourceKindReddit)); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(appCfg.DBDriver, appCfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "driver", appCfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, _, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "driver", appCfg.DBDriver, "schema_version", version)

	userRepo := database.NewUserRepository(db)
	postRepo := database.NewPostRepository(db)

	httpClient := &http.Client{Timeout: 60 * time.Second}

	client := feed.NewMultiClient()
	client.Register(feed.SourceKindRSS, feed.NewRSSClient(httpClient, appCfg.UserAgent))
	if configCache.NeedsKind(feed.SourceKindReddit) {
		client.Register(feed.SourceKindReddit, feed.NewRedditClient(httpClient, feed.RedditCredentials{
			ClientID:     appCfg.RedditClientID,
			ClientSecret: appCfg.RedditClientSecret,
			Username:     appCfg.RedditUsername,
			Password:     appCfg.RedditPassword,
			UserAgent:    appCfg.RedditUserAgent,
		}))
	}

	sender, err := newSender(appCfg, httpClient)
	if err != nil {
		slog.Error("Failed to set up notifier", "notifier", appCfg.Notifier, "error", err)
		os.Exit(1)
	}
	stats := tasks.NewStats()

	scheduler := tasks.NewScheduler(
		configCache,
		client,
		intake.NewPipeline(userRepo, postRepo),
		feed.NewKeywordMatcher(configCache.GetKeywords()),
		sender,
		stats,
		appCfg.RefreshRate,
		appCfg.WorkerCount,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if appCfg.Once {
		scheduler.RunOnce(ctx)
		snapshot := stats.Snapshot()
		slog.Info("Poll cycle finished", "stored", snapshot.Stored, "matches", snapshot.Matches, "notified", snapshot.NotificationsSent, "fetch_failures", snapshot.FetchFailures)
		return
	}

	slog.Info("Starting scheduler", "workers", appCfg.WorkerCount, "interval", appCfg.RefreshRate.String())
	scheduler.Start()

	handler := api.NewHandler(configCache, userRepo, postRepo, stats, appCfg.Version)
	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Received shutdown signal")
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	scheduler.Stop()
	slog.Info("Shutdown complete")
}

func newSender(appCfg *cfg.Cfg, httpClient *http.Client) (notify.Sender, error) {
	switch appCfg.Notifier {
	case notify.KindTelegram:
		sender, err := notify.NewTelegramSender(httpClient, appCfg.TelegramToken, appCfg.TelegramChatID)
		if err != nil {
			return nil, err
		}
		return sender, nil
	case notify.KindSlack:
		return notify.NewSlackSender(httpClient, appCfg.SlackWebhookURL), nil
	case notify.KindLog:
		return notify.NewLogSender(), nil
	default:
		return nil, fmt.Errorf("unknown notifier: %s", appCfg.Notifier)
	}
}
