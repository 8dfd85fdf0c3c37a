// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package commands defines the Cobra CLI surface for the websearch binary:
// one subcommand per core operation, one-for-one with the HTTP API.
package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/northbound/websearch/internal/apperr"
	"github.com/northbound/websearch/internal/config"
	"github.com/northbound/websearch/internal/embed"
	"github.com/northbound/websearch/internal/fetcher"
	"github.com/northbound/websearch/internal/linkmapper"
	"github.com/northbound/websearch/internal/pipeline"
	"github.com/northbound/websearch/internal/search"
	"github.com/northbound/websearch/internal/sitemap"
	"github.com/northbound/websearch/internal/vectorstore"
)

// configPath holds the --config flag shared by every subcommand.
var configPath string

// exitCodeError carries the exit code a failed RunE should produce, so
// main can translate it without re-inspecting the error kind.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }
func (e *exitCodeError) Unwrap() error { return e.err }

// ExitCode extracts the process exit code a command error should produce.
// Defaults to 2 (operational failure) for errors that were never classified.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if ece, ok := err.(*exitCodeError); ok {
		return ece.code
	}
	return 2
}

// userError wraps err as exit code 1 (invalid flags / bad input).
func userError(err error) error {
	return &exitCodeError{code: 1, err: err}
}

// operationalError wraps err as exit code 2 (network, parse, store failure).
func operationalError(err error) error {
	return &exitCodeError{code: 2, err: err}
}

// classify picks the exit code based on the apperr.Kind carried by err, if
// any; unrecognized errors default to operational.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if kind, ok := apperr.KindOf(err); ok && kind == apperr.KindInvalidInput {
		return userError(err)
	}
	return operationalError(err)
}

// NewRootCmd constructs the root Cobra command that every verb attaches to.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "websearch",
		Short:         "websearch — local research appliance: search, crawl, chunk, and query a local knowledge base",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (defaults to ~/.websearch/config.yaml)")

	root.AddCommand(
		NewSearchCmd(),
		NewCrawlCmd(),
		NewChunkCmd(),
		NewCacheCmd(),
		NewSitemapCmd(),
		NewBatchCrawlCmd(),
	)

	return root
}

// components bundles every collaborator a subcommand might need. Each
// subcommand constructs only what it calls; the rest stay nil.
type components struct {
	cfg             *config.AppConfig
	fetcher         *fetcher.Fetcher
	sitemapResolver *sitemap.Resolver
	linkMapper      *linkmapper.Mapper
	embedder        embed.Embedder
	store           *vectorstore.Store
	pipeline        *pipeline.Pipeline
	searchFacade    *search.Facade
}

// buildComponents loads config and constructs the full dependency set. Every
// subcommand builds the same way the server does (see cmd/websearch-server),
// since the CLI is a one-shot, in-process caller of the same core.
func buildComponents() (*components, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, func() {}, operationalError(fmt.Errorf("load config: %w", err))
	}

	store, err := vectorstore.Open(cfg.IndexDir(""))
	if err != nil {
		return nil, func() {}, operationalError(fmt.Errorf("open vector store: %w", err))
	}
	closeFn := func() { store.Close() }

	embedder, err := embed.Build(embed.Config{
		Provider:  cfg.Embedder,
		Model:     cfg.EmbedderModel,
		OllamaURL: cfg.OllamaURL,
		OpenAIKey: cfg.OpenAIAPIKey,
	})
	if err != nil {
		closeFn()
		return nil, func() {}, operationalError(fmt.Errorf("build embedder: %w", err))
	}

	fetchTimeout := time.Duration(cfg.FetchTimeoutMs) * time.Millisecond
	f := fetcher.New(fetchTimeout, cfg.FetchRetries, cfg.MinStaticTextLen)
	sm := sitemap.New(fetchTimeout)
	lm := linkmapper.New(f)
	p := pipeline.New(f, sm, embedder, store)
	searchTTL := time.Duration(cfg.SearchCacheTTLMins) * time.Minute
	facade := search.New(search.NewDuckDuckGoProvider(fetchTimeout), searchTTL, search.DefaultCacheSize)

	return &components{
		cfg:             cfg,
		fetcher:         f,
		sitemapResolver: sm,
		linkMapper:      lm,
		embedder:        embedder,
		store:           store,
		pipeline:        p,
		searchFacade:    facade,
	}, closeFn, nil
}
