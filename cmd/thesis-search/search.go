// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/thesis-search/internal/format"
	"github.com/pdiddy/thesis-search/internal/httputil"
	"github.com/pdiddy/thesis-search/internal/logger"
	"github.com/pdiddy/thesis-search/internal/thesis"
	"github.com/pdiddy/thesis-search/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Run one semantic search and print the ranked results",
	Long: `Search sends the query to the thesis search service and prints the ranked
results. The query comes from --query or from the positional arguments.
Transient failures (429, 502, 503, 504, timeouts and network errors) are
retried with a linear backoff before the error is reported.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("query", "", "free-text question about a thesis")
	searchCmd.Flags().Int("top-k", 0, "number of results, clamped to 1..50 (default search.top_k)")
	searchCmd.Flags().String("format", "text", "output format: text, json or yaml")
	searchCmd.Flags().String("save", "", "also write the query and results to this YAML file")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	if query == "" {
		query = strings.Join(args, " ")
	}
	topK, _ := cmd.Flags().GetInt("top-k")
	if topK == 0 {
		topK = clientConfig.Search.TopK
	}
	outFormat, _ := cmd.Flags().GetString("format")
	savePath, _ := cmd.Flags().GetString("save")

	client, err := newClient(logger.FromContext(cmd.Context()))
	if err != nil {
		return err
	}

	resp, err := client.Search(cmd.Context(), query, topK)
	switch {
	case errors.Is(err, thesis.ErrEmptyQuery):
		return fmt.Errorf("provide a query with --query or as arguments")
	case httputil.IsAbandoned(err):
		return fmt.Errorf("search interrupted")
	case err != nil:
		return fmt.Errorf("search failed: %w", err)
	}

	if savePath != "" {
		req := types.SearchRequest{Query: query, TopK: thesis.ClampTopK(topK)}
		if err := format.WriteRecord(savePath, format.NewRecord(client.BaseURL(), req, resp, time.Now())); err != nil {
			return err
		}
	}
	return format.Write(cmd.OutOrStdout(), outFormat, resp)
}
