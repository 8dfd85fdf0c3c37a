// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package httpapi

import (
	"net/http"
	"time"

	"github.com/northbound/websearch/internal/embed"
	"github.com/northbound/websearch/internal/fetcher"
	"github.com/northbound/websearch/internal/jobmanager"
	"github.com/northbound/websearch/internal/linkmapper"
	"github.com/northbound/websearch/internal/namespace"
	"github.com/northbound/websearch/internal/pipeline"
	"github.com/northbound/websearch/internal/search"
	"github.com/northbound/websearch/internal/sitemap"
	"github.com/northbound/websearch/internal/vectorstore"
)

// Server holds every collaborator the /api/v1 surface delegates to and
// wires them into an http.ServeMux.
type Server struct {
	fetcher          *fetcher.Fetcher
	sitemapResolver  *sitemap.Resolver
	linkMapper       *linkmapper.Mapper
	embedder         embed.Embedder
	store            vectorstore.VectorDB
	pipeline         *pipeline.Pipeline
	jobs             *jobmanager.Manager
	searchFacade     *search.Facade
	defaultNamespace string
}

// Config bundles Server's constructor arguments.
type Config struct {
	Fetcher          *fetcher.Fetcher
	SitemapResolver  *sitemap.Resolver
	LinkMapper       *linkmapper.Mapper
	Embedder         embed.Embedder
	Store            vectorstore.VectorDB
	Pipeline         *pipeline.Pipeline
	Jobs             *jobmanager.Manager
	SearchFacade     *search.Facade
	DefaultNamespace string
}

// New builds a Server from cfg.
func New(cfg Config) *Server {
	return &Server{
		fetcher:          cfg.Fetcher,
		sitemapResolver:  cfg.SitemapResolver,
		linkMapper:       cfg.LinkMapper,
		embedder:         cfg.Embedder,
		store:            cfg.Store,
		pipeline:         cfg.Pipeline,
		jobs:             cfg.Jobs,
		searchFacade:     cfg.SearchFacade,
		defaultNamespace: cfg.DefaultNamespace,
	}
}

// Handler builds the /api/v1 mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/crawl", s.handleCrawl)
	mux.HandleFunc("/api/v1/sitemap", s.handleSitemap)
	mux.HandleFunc("/api/v1/map", s.handleMap)
	mux.HandleFunc("/api/v1/batch-crawl", s.handleBatchCrawl)
	mux.HandleFunc("/api/v1/chunk", s.handleChunk)
	mux.HandleFunc("/api/v1/search", s.handleSearch)
	mux.HandleFunc("/api/v1/cache", s.handleCache)
	mux.HandleFunc("/api/v1/jobs", s.handleJobsCollection)
	mux.HandleFunc("/api/v1/jobs/", s.handleJobsItem)
	mux.HandleFunc("/api/v1/ws", s.handleWebSocket)

	return mux
}

const defaultRequestTimeout = 60 * time.Second

// resolveNamespace applies the explicit-argument-then-header-then-server-
// default-then-hard-coded-default precedence used by every namespace-scoped
// endpoint.
func (s *Server) resolveNamespace(r *http.Request, explicit string) string {
	return namespace.Resolve(explicit, namespace.Resolve(r.Header.Get(namespace.Header), s.defaultNamespace))
}
