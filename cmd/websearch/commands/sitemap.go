// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSitemapCmd constructs `websearch sitemap`.
func NewSitemapCmd() *cobra.Command {
	var domain string
	var maxUrls int
	var pathFilter string

	cmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Discover URLs for a domain via its sitemap",
		RunE: func(cmd *cobra.Command, args []string) error {
			if domain == "" {
				return userError(fmt.Errorf("sitemap: --domain is required"))
			}

			comps, closeFn, err := buildComponents()
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := comps.sitemapResolver.Discover(cmd.Context(), domain, maxUrls, pathFilter)
			if err != nil {
				return classify(err)
			}
			return printJSON(result)
		},
	}

	cmd.Flags().StringVar(&domain, "domain", "", "domain to discover (required)")
	cmd.Flags().IntVar(&maxUrls, "max-urls", 0, "maximum URLs to return (0 = no limit)")
	cmd.Flags().StringVar(&pathFilter, "path-filter", "", "regular expression restricting discovered paths")

	return cmd
}
