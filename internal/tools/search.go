package tools

import (
	"log/slog"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/basket/searchgate/internal/audit"
	"github.com/basket/searchgate/internal/search"
)

// SearchInput is the tool-facing parameter shape. It mirrors the
// gateway request; provider-exclusive fields are rejected by the
// gateway when the active provider does not accept them.
type SearchInput struct {
	Query      string `json:"query"`
	Provider   string `json:"provider,omitempty"`
	Count      *int   `json:"count,omitempty"`
	Country    string `json:"country,omitempty"`
	SearchLang string `json:"search_lang,omitempty"`
	UILang     string `json:"ui_lang,omitempty"`
	Freshness  string `json:"freshness,omitempty"`
	Site       string `json:"site,omitempty"`
	Summary    *bool  `json:"summary,omitempty"`
}

func (in SearchInput) toRequest() search.Request {
	return search.Request{
		Query:      in.Query,
		Provider:   search.Provider(in.Provider),
		Count:      in.Count,
		Country:    in.Country,
		SearchLang: in.SearchLang,
		UILang:     in.UILang,
		Freshness:  in.Freshness,
		Site:       in.Site,
		Summary:    in.Summary,
	}
}

func registerSearch(g *genkit.Genkit, reg *Registry) ai.Tool {
	return genkit.DefineTool(g, "web_search",
		"Search the web for current information. Returns results with titles, URLs, descriptions, and source sites. Use this tool immediately when the user asks to search or look something up — do not ask for confirmation.",
		func(ctx *ai.ToolContext, input SearchInput) (*search.Payload, error) {
			start := time.Now()
			payload, err := reg.Search(ctx, input)
			recordInvocation(input, payload, err, time.Since(start))
			if err != nil {
				slog.Warn("web_search tool failed", "provider", input.Provider, "error", err)
				return nil, err
			}
			return payload, nil
		},
	)
}

func recordInvocation(input SearchInput, payload *search.Payload, err error, took time.Duration) {
	e := audit.Entry{
		Provider: input.Provider,
		Query:    input.Query,
		TookMs:   took.Milliseconds(),
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
	default:
		e.Outcome = audit.OutcomeOK
		e.Provider = string(payload.Provider)
		e.Results = payload.Count
	}
	audit.Record(e)
}
