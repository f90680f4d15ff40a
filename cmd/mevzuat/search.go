package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mevzuatlab/mevzuat/application/service"
	"github.com/mevzuatlab/mevzuat/domain/document"
	"github.com/mevzuatlab/mevzuat/domain/search"
	"github.com/mevzuatlab/mevzuat/internal/log"
)

func searchCmd() *cobra.Command {
	var (
		envFile         string
		searchType      string
		limit           int
		docTypes        []string
		yearFrom        int
		yearTo          int
		includeRepealed bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a one-shot search against the indexed corpus",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runSearch(cmd, envFile, query, searchType, limit, docTypes, yearFrom, yearTo, includeRepealed)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&searchType, "type", "", "Search type: keyword, semantic, mixed (default: mixed)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")
	cmd.Flags().StringSliceVar(&docTypes, "document-type", nil, "Restrict to document types (e.g. KANUN)")
	cmd.Flags().IntVar(&yearFrom, "year-from", 0, "Earliest publication year")
	cmd.Flags().IntVar(&yearTo, "year-to", 0, "Latest publication year")
	cmd.Flags().BoolVar(&includeRepealed, "include-repealed", false, "Include repealed articles")

	return cmd
}

func runSearch(cmd *cobra.Command, envFile, query, searchType string, limit int, docTypes []string, yearFrom, yearTo int, includeRepealed bool) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	logger := log.Configure(cfg)

	client, err := buildClient(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	var opts []service.SearchOption
	if searchType != "" {
		opts = append(opts, service.WithSearchType(search.Type(searchType)))
	}
	if limit > 0 {
		opts = append(opts, service.WithLimit(limit))
	}

	var filters []search.FiltersOption
	if len(docTypes) > 0 {
		types := make([]document.Type, len(docTypes))
		for i, t := range docTypes {
			types[i] = document.NormalizeType(t)
		}
		filters = append(filters, search.WithDocumentTypes(types...))
	}
	if yearFrom > 0 || yearTo > 0 {
		filters = append(filters, search.WithYearRange(yearFrom, yearTo))
	}
	if includeRepealed {
		filters = append(filters, search.WithIncludeRepealed(true))
	}
	if len(filters) > 0 {
		opts = append(opts, service.WithFilters(filters...))
	}

	results, err := client.Search.Search(cmd.Context(), query, opts...)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "no results")
		return nil
	}

	for i, r := range results {
		fmt.Fprintf(out, "%2d. [%.3f %s] %s", i+1, r.Score(), r.MatchType(), r.DocumentTitle())
		if r.ArticleNumber() != "" {
			fmt.Fprintf(out, ", madde %s", r.ArticleNumber())
		}
		fmt.Fprintln(out)
		if s := r.Snippet(); s != "" {
			fmt.Fprintf(out, "    %s\n", s)
		}
	}

	return nil
}
