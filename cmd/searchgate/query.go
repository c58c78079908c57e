package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/basket/searchgate/internal/audit"
	"github.com/basket/searchgate/internal/config"
	"github.com/basket/searchgate/internal/search"
	"github.com/basket/searchgate/internal/telemetry"
)

// runQueryCommand runs one search against the configured providers and
// prints the payload as JSON.
func runQueryCommand(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	provider := fs.String("provider", "", "search provider: brave, perplexity, bocha (default from config)")
	count := fs.Int("count", 0, "number of results (0 = provider default)")
	country := fs.String("country", "", "country code (brave only)")
	searchLang := fs.String("search-lang", "", "result language (brave only)")
	uiLang := fs.String("ui-lang", "", "interface language (brave only)")
	freshness := fs.String("freshness", "", "recency filter (brave/bocha)")
	site := fs.String("site", "", "restrict to a site (bocha only)")
	summary := fs.Bool("summary", false, "request an answer summary (bocha only)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		fmt.Fprintln(os.Stderr, "usage: searchgate query [flags] <terms>")
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}

	logger := telemetry.NewConsoleLogger(cfg.LogLevel)
	if err := audit.Init(cfg.HomeDir); err == nil {
		defer audit.Close()
	}

	store, err := openCacheStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cache: %v\n", err)
		return 1
	}
	defer store.Close()

	core := buildSearchGateway(cfg, store, logger, nil)

	req := search.Request{
		Query:      query,
		Provider:   search.Provider(*provider),
		Country:    *country,
		SearchLang: *searchLang,
		UILang:     *uiLang,
		Freshness:  *freshness,
		Site:       *site,
	}
	if *count > 0 {
		req.Count = count
	}
	if *summary {
		req.Summary = summary
	}

	payload, err := core.Search(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "search: %v\n", err)
		recordQuery(req, nil, err)
		return 1
	}
	recordQuery(req, payload, nil)

	enc := json.NewEncoder(os.Stdout)
	if isatty.IsTerminal(os.Stdout.Fd()) {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(payload); err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		return 1
	}
	if payload.Error != nil {
		return 1
	}
	return 0
}

func recordQuery(req search.Request, payload *search.Payload, err error) {
	e := audit.Entry{
		Provider: string(req.Provider),
		Query:    req.Query,
	}
	switch {
	case err != nil:
		e.Outcome = audit.OutcomeError
	case payload.Error != nil:
		e.Outcome = audit.OutcomeRejected
		e.Code = payload.Error.Code
	case payload.Cached:
		e.Outcome = audit.OutcomeCached
		e.Provider = string(payload.Provider)
		e.Results = payload.Count
		e.TookMs = payload.TookMs
	default:
		e.Outcome = audit.OutcomeOK
		e.Provider = string(payload.Provider)
		e.Results = payload.Count
		e.TookMs = payload.TookMs
	}
	audit.Record(e)
}
