// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/northbound/websearch/internal/namespace"
)

// scoredChunk mirrors the HTTP /cache response shape.
type scoredChunk struct {
	ChunkID  string            `json:"chunkId"`
	Score    float32           `json:"score"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
}

// NewCacheCmd constructs `websearch cache`.
func NewCacheCmd() *cobra.Command {
	var query string
	var topK int
	var threshold float64
	var ns string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Query the local vector store for semantically similar chunks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if query == "" {
				return userError(fmt.Errorf("cache: --query is required"))
			}

			comps, closeFn, err := buildComponents()
			if err != nil {
				return err
			}
			defer closeFn()

			vec, err := comps.embedder.EmbedText(cmd.Context(), query)
			if err != nil {
				return classify(err)
			}

			k := topK
			if k <= 0 {
				k = 10
			}
			resolvedNS := namespace.Resolve(ns, comps.cfg.DefaultNamespace)

			matches, err := comps.store.Query(resolvedNS, vec, k, float32(threshold))
			if err != nil {
				return classify(err)
			}

			hits := make([]scoredChunk, 0, len(matches))
			for _, m := range matches {
				hits = append(hits, scoredChunk{
					ChunkID:  m.ChunkID,
					Score:    m.Score,
					Text:     m.Text,
					Metadata: m.Metadata,
				})
			}
			return printJSON(hits)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "query text (required)")
	cmd.Flags().IntVar(&topK, "top-k", 10, "maximum number of matches to return")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "minimum cosine similarity score")
	cmd.Flags().StringVar(&ns, "namespace", "", "namespace to query (defaults to the configured default)")

	return cmd
}
