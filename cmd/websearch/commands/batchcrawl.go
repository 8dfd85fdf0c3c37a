// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/northbound/websearch/internal/chunker"
	"github.com/northbound/websearch/internal/fetcher"
	"github.com/northbound/websearch/internal/namespace"
	"github.com/northbound/websearch/internal/pipeline"
)

// NewBatchCrawlCmd constructs `websearch batch-crawl`.
func NewBatchCrawlCmd() *cobra.Command {
	var urls []string
	var domain string
	var ns string
	var strategy string
	var maxChunkSize int
	var chunkOverlap int
	var mode string
	var concurrency int
	var rateLimitMs int
	var pathFilter string
	var maxUrls int

	cmd := &cobra.Command{
		Use:   "batch-crawl",
		Short: "Fetch, chunk, embed, and store a batch of URLs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(urls) == 0 && domain == "" {
				return userError(fmt.Errorf("batch-crawl: --url (repeatable) or --domain is required"))
			}

			comps, closeFn, err := buildComponents()
			if err != nil {
				return err
			}
			defer closeFn()

			strat := chunker.Strategy(strategy)
			if strat == "" {
				strat = chunker.StrategySentence
			}
			size := maxChunkSize
			if size <= 0 {
				size = 1000
			}
			fetchMode := fetcher.Mode(mode)
			if fetchMode == "" {
				fetchMode = fetcher.ModeAuto
			}
			conc := concurrency
			if conc <= 0 {
				conc = 4
			}

			req := pipeline.Request{
				URLs:           urls,
				Domain:         domain,
				FetchMode:      fetchMode,
				ChunkStrategy:  strat,
				MaxChunkSize:   size,
				ChunkOverlap:   chunkOverlap,
				MaxConcurrency: conc,
				RateLimitMs:    rateLimitMs,
				PathFilter:     pathFilter,
				MaxUrls:        maxUrls,
				Namespace:      namespace.Resolve(ns, comps.cfg.DefaultNamespace),
			}

			result, err := comps.pipeline.Run(cmd.Context(), req, nil)
			if err != nil {
				return classify(err)
			}
			return printJSON(result)
		},
	}

	cmd.Flags().StringArrayVarP(&urls, "url", "u", nil, "URL to crawl (repeatable)")
	cmd.Flags().StringVar(&domain, "domain", "", "domain to sitemap-discover and union with --url")
	cmd.Flags().StringVar(&ns, "namespace", "", "namespace to store chunks under (defaults to the configured default)")
	cmd.Flags().StringVar(&strategy, "strategy", "sentence", "chunking strategy: sentence, token, or semantic")
	cmd.Flags().IntVar(&maxChunkSize, "max-chunk-size", 1000, "maximum chunk size")
	cmd.Flags().IntVar(&chunkOverlap, "chunk-overlap", 0, "overlap between consecutive chunks")
	cmd.Flags().StringVar(&mode, "mode", "auto", "fetch mode: static, dynamic, or auto")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "maximum number of URLs fetched concurrently")
	cmd.Flags().IntVar(&rateLimitMs, "rate-limit-ms", 0, "minimum delay between requests to the same host")
	cmd.Flags().StringVar(&pathFilter, "path-filter", "", "regular expression restricting sitemap-discovered paths")
	cmd.Flags().IntVar(&maxUrls, "max-urls", 0, "maximum URLs in the combined explicit and sitemap-discovered list (0 = no limit)")

	return cmd
}
