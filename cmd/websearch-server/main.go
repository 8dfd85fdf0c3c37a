// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/northbound/websearch/internal/config"
	"github.com/northbound/websearch/internal/embed"
	"github.com/northbound/websearch/internal/fetcher"
	"github.com/northbound/websearch/internal/httpapi"
	"github.com/northbound/websearch/internal/jobmanager"
	"github.com/northbound/websearch/internal/linkmapper"
	"github.com/northbound/websearch/internal/logger"
	"github.com/northbound/websearch/internal/pipeline"
	"github.com/northbound/websearch/internal/search"
	"github.com/northbound/websearch/internal/sitemap"
	"github.com/northbound/websearch/internal/vectorstore"
)

var configPath = flag.String("config", "", "path to config.yaml (defaults to ~/.websearch/config.yaml)")

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "no .env file found, using environment variables: %v\n", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if _, err := logger.Init(cfg.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v, using stdout only\n", err)
	}
	logger.Printf("websearch-server starting, store root %s", cfg.StoreRoot)

	store, err := vectorstore.Open(cfg.IndexDir(""))
	if err != nil {
		logger.Fatalf("failed to open vector store: %v", err)
	}
	defer store.Close()

	embedder, err := embed.Build(embed.Config{
		Provider:  cfg.Embedder,
		Model:     cfg.EmbedderModel,
		OllamaURL: cfg.OllamaURL,
		OpenAIKey: cfg.OpenAIAPIKey,
	})
	if err != nil {
		logger.Fatalf("failed to build embedder %q: %v", cfg.Embedder, err)
	}
	logger.Printf("using embedder %s (dim %d)", embedder.Model(), embedder.Dimension())

	fetchTimeout := time.Duration(cfg.FetchTimeoutMs) * time.Millisecond
	f := fetcher.New(fetchTimeout, cfg.FetchRetries, cfg.MinStaticTextLen)
	sm := sitemap.New(fetchTimeout)
	lm := linkmapper.New(f)
	p := pipeline.New(f, sm, embedder, store)

	retention := time.Duration(cfg.JobRetentionMins) * time.Minute
	jobs := jobmanager.New(p, retention, cfg.JobHardCap)
	defer jobs.Close()

	searchTTL := time.Duration(cfg.SearchCacheTTLMins) * time.Minute
	facade := search.New(search.NewDuckDuckGoProvider(fetchTimeout), searchTTL, search.DefaultCacheSize)

	srv := httpapi.New(httpapi.Config{
		Fetcher:          f,
		SitemapResolver:  sm,
		LinkMapper:       lm,
		Embedder:         embedder,
		Store:            store,
		Pipeline:         p,
		Jobs:             jobs,
		SearchFacade:     facade,
		DefaultNamespace: cfg.DefaultNamespace,
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: srv.Handler(),
	}

	go func() {
		logger.Printf("HTTP server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("HTTP server failed: %v", err)
		}
	}()

	waitForShutdown(httpServer, jobs)
}

func waitForShutdown(httpServer *http.Server, jobs *jobmanager.Manager) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Printf("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Errorf("HTTP shutdown error: %v", err)
	}
	jobs.Close()

	if err := logger.GetDefault().Close(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to close logger: %v\n", err)
	}
}
