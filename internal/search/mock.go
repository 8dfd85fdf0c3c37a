// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package search

import (
	"context"
	"fmt"
)

// MockProvider returns deterministic, synthetic results without making a
// network call or needing configuration — used in tests.
type MockProvider struct{}

func (MockProvider) Search(ctx context.Context, query string, opts Options) (string, []Result, error) {
	n := opts.MaxResults
	if n <= 0 {
		n = 3
	}
	results := make([]Result, 0, n)
	for i := 0; i < n; i++ {
		results = append(results, Result{
			Title:   fmt.Sprintf("%s result %d", query, i+1),
			URL:     fmt.Sprintf("https://example.com/%s/%d", query, i+1),
			Snippet: fmt.Sprintf("Synthetic snippet %d for %q", i+1, query),
		})
	}
	return "mock", results, nil
}
