// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/northbound/websearch/internal/search"
)

// NewSearchCmd constructs `websearch search`.
func NewSearchCmd() *cobra.Command {
	var query string
	var maxResults int
	var freshness string
	var language string
	var includeDomains []string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run a web search and return ranked results",
		RunE: func(cmd *cobra.Command, args []string) error {
			if query == "" {
				return userError(fmt.Errorf("search: --query is required"))
			}

			comps, closeFn, err := buildComponents()
			if err != nil {
				return err
			}
			defer closeFn()

			resp, err := comps.searchFacade.Search(cmd.Context(), query, search.Options{
				MaxResults:     maxResults,
				Freshness:      freshness,
				Language:       language,
				IncludeDomains: includeDomains,
			})
			if err != nil {
				return classify(err)
			}
			return printJSON(resp)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "search query (required)")
	cmd.Flags().IntVar(&maxResults, "max-results", 10, "maximum number of results")
	cmd.Flags().StringVar(&freshness, "freshness", "", "freshness filter (provider-specific)")
	cmd.Flags().StringVar(&language, "language", "", "language filter (provider-specific)")
	cmd.Flags().StringArrayVar(&includeDomains, "include-domains", nil, "restrict results to these domains (repeatable)")

	return cmd
}
