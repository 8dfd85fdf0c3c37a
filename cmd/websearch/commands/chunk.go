// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package commands

import (
	"github.com/spf13/cobra"

	"github.com/northbound/websearch/internal/chunker"
)

// NewChunkCmd constructs `websearch chunk`.
func NewChunkCmd() *cobra.Command {
	var content string
	var strategy string
	var maxChunkSize int
	var overlap int
	var sourceURL string
	var namespace string

	cmd := &cobra.Command{
		Use:   "chunk",
		Short: "Split text into bounded, ordered chunks",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := content
			if text == "" {
				stdin, err := readStdin()
				if err != nil {
					return err
				}
				text = stdin
			}

			strat := chunker.Strategy(strategy)
			if strat == "" {
				strat = chunker.StrategySentence
			}
			size := maxChunkSize
			if size <= 0 {
				size = 1000
			}

			chunks, err := chunker.Chunk(chunker.Request{
				Content:      text,
				Strategy:     strat,
				MaxChunkSize: size,
				Overlap:      overlap,
				SourceURL:    sourceURL,
				Namespace:    namespace,
			})
			if err != nil {
				return classify(err)
			}
			return printJSON(chunks)
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "text to chunk (reads stdin if omitted)")
	cmd.Flags().StringVar(&strategy, "strategy", "sentence", "chunking strategy: sentence, token, or semantic")
	cmd.Flags().IntVar(&maxChunkSize, "max-chunk-size", 1000, "maximum chunk size")
	cmd.Flags().IntVar(&overlap, "overlap", 0, "overlap between consecutive chunks")
	cmd.Flags().StringVar(&sourceURL, "source-url", "", "source URL to attach to each chunk")
	cmd.Flags().StringVar(&namespace, "namespace", "", "namespace to attach to each chunk")

	return cmd
}
