// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/northbound/websearch/internal/fetcher"
)

// NewCrawlCmd constructs `websearch crawl`.
func NewCrawlCmd() *cobra.Command {
	var url string
	var mode string
	var includeLinks bool
	var includeImages bool
	var waitForSelector string

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Fetch a single URL and return its normalized content",
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				return userError(fmt.Errorf("crawl: --url is required"))
			}

			comps, closeFn, err := buildComponents()
			if err != nil {
				return err
			}
			defer closeFn()

			fetchMode := fetcher.Mode(mode)
			if fetchMode == "" {
				fetchMode = fetcher.ModeAuto
			}

			result, err := comps.fetcher.Fetch(cmd.Context(), fetcher.Request{
				URL:             url,
				Mode:            fetchMode,
				IncludeLinks:    includeLinks,
				IncludeImages:   includeImages,
				WaitForSelector: waitForSelector,
			})
			if err != nil {
				return classify(err)
			}
			return printJSON(result)
		},
	}

	cmd.Flags().StringVarP(&url, "url", "u", "", "URL to fetch (required)")
	cmd.Flags().StringVar(&mode, "mode", "auto", "fetch mode: static, dynamic, or auto")
	cmd.Flags().BoolVar(&includeLinks, "include-links", false, "include discovered links in the result")
	cmd.Flags().BoolVar(&includeImages, "include-images", false, "include discovered images in the result")
	cmd.Flags().StringVar(&waitForSelector, "wait-for-selector", "", "CSS selector to wait for in dynamic mode")

	return cmd
}
