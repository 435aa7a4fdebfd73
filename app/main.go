package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/mf-obj/app/api"
	"github.com/lysyi3m/mf-obj/app/cfg"
	"github.com/lysyi3m/mf-obj/app/fetch"
	"github.com/lysyi3m/mf-obj/app/resolve"
	"github.com/lysyi3m/mf-obj/app/sites"
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

	if appCfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	slog.Info("Starting mf-obj", "version", appCfg.Version, "port", appCfg.Port)

	siteRules := sites.NewCache(appCfg.SitesDir)
	if err := siteRules.Run(); err != nil {
		slog.Error("Failed to load site rules", "dir", appCfg.SitesDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Site rules loaded", "count", siteRules.GetConfigCount())

	var fetcher fetch.Fetcher = fetch.NewClient(&http.Client{}, appCfg.UserAgent, appCfg.Timeout)
	if appCfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pageCache, err := fetch.NewCache(ctx, appCfg.RedisAddr, fetcher, appCfg.CacheTTL)
		cancel()
		if err != nil {
			slog.Error("Failed to initialize page cache", "error", err)
			os.Exit(1)
		}
		defer pageCache.Close()
		fetcher = pageCache
	}

	resolver := resolve.New(fetcher, resolve.WithThreadLimit(appCfg.ThreadLimit))

	handler := api.NewHandler(resolver, siteRules, appCfg.Version)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig)
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
