package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/basket/searchgate/internal/cache"
	sgotel "github.com/basket/searchgate/internal/otel"
)

// DefaultTimeout bounds each outbound provider call unless configured.
const DefaultTimeout = 30 * time.Second

// Options configures a Gateway. Cache and Sanitize are collaborators the
// core consumes through narrow shapes; nil values disable caching and
// sanitization respectively (tests only — production wiring always sets
// both).
type Options struct {
	// APIKeys holds configured credentials by provider. Environment
	// variables are consulted when a provider's entry is empty.
	APIKeys map[Provider]string

	// DefaultProvider is used when a request names none.
	DefaultProvider Provider

	// PerplexityBaseURL, when set, overrides endpoint inference.
	PerplexityBaseURL string
	// PerplexityModel, when set, overrides the inferred model.
	PerplexityModel string

	// Timeout bounds each provider call. Zero means DefaultTimeout.
	Timeout time.Duration

	// Getenv is the environment lookup. Defaults to os.Getenv.
	Getenv func(string) string

	Cache    cache.Store
	Sanitize func(string) string
	Logger   *slog.Logger
	Metrics  *sgotel.Metrics
}

// Gateway is the search dispatch core.
type Gateway struct {
	opts     Options
	getenv   func(string) string
	cache    cache.Store
	sanitize func(string) string
	logger   *slog.Logger
	metrics  *sgotel.Metrics
	timeout  time.Duration
	now      func() time.Time

	brave      *braveExecutor
	perplexity *perplexityExecutor
	bocha      *bochaExecutor
}

// New builds a Gateway.
func New(opts Options) *Gateway {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	sanitize := opts.Sanitize
	if sanitize == nil {
		sanitize = func(s string) string { return s }
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if opts.DefaultProvider == "" {
		opts.DefaultProvider = ProviderBrave
	}
	// The executors share one client; per-call deadlines come from the
	// request context, not a client-level timeout.
	client := &http.Client{}
	return &Gateway{
		opts:       opts,
		getenv:     getenv,
		cache:      opts.Cache,
		sanitize:   sanitize,
		logger:     logger,
		metrics:    opts.Metrics,
		timeout:    timeout,
		now:        time.Now,
		brave:      newBraveExecutor(client),
		perplexity: newPerplexityExecutor(client),
		bocha:      newBochaExecutor(client),
	}
}

// Search runs one search invocation: resolve credentials, validate and
// normalize parameters, consult the cache, execute the provider call on
// a miss, assemble the uniform payload, and write the cache.
//
// Pre-flight problems (missing keys, incompatible parameters, malformed
// freshness) come back as a Payload carrying Error, with a nil error
// return and no network traffic. Transport failures come back as a
// non-nil error.
func (g *Gateway) Search(ctx context.Context, req Request) (*Payload, error) {
	if strings.TrimSpace(req.Query) == "" {
		return g.rejected(ctx, reject(CodeEmptyQuery, "query must not be empty", "")), nil
	}
	if req.Provider == "" {
		req.Provider = g.opts.DefaultProvider
	}
	if !req.Provider.Valid() {
		return g.rejected(ctx, reject(CodeInvalidProvider,
			"unknown provider "+string(req.Provider),
			"valid providers: brave, perplexity, bocha")), nil
	}

	if p := validateParams(req); p != nil {
		return g.rejected(ctx, p), nil
	}

	count := resolveCount(req.Count, req.Provider)

	freshness := ""
	if req.Freshness != "" {
		var p *Payload
		freshness, p = normalizeFreshness(req.Provider, req.Freshness)
		if p != nil {
			return g.rejected(ctx, p), nil
		}
	}

	cred := g.resolveCredential(req.Provider)
	if cred.Source == SourceNone {
		return g.rejected(ctx, missingKey(req.Provider)), nil
	}
	g.logger.Debug("credential resolved",
		"provider", req.Provider, "source", cred.Source)

	key := g.cacheKey(req, count, freshness)
	if payload := g.cacheGet(ctx, key); payload != nil {
		g.logger.Info("search served from cache", "provider", req.Provider, "query", req.Query)
		return payload, nil
	}

	start := g.now()
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	out, err := g.execute(callCtx, req, count, freshness, cred)
	if err != nil {
		if g.metrics != nil {
			g.metrics.ProviderErrors.Add(ctx, 1, metric.WithAttributes(
				attribute.String("provider", string(req.Provider))))
		}
		return nil, err
	}
	tookMs := g.now().Sub(start).Milliseconds()
	if g.metrics != nil {
		g.metrics.ProviderDuration.Record(ctx, g.now().Sub(start).Seconds(), metric.WithAttributes(
			attribute.String("provider", string(req.Provider))))
	}

	payload := g.assemble(req, out, tookMs)
	g.cachePut(ctx, key, payload)

	if g.metrics != nil {
		g.metrics.SearchDuration.Record(ctx, g.now().Sub(start).Seconds(), metric.WithAttributes(
			attribute.String("provider", string(req.Provider))))
	}
	g.logger.Info("search completed",
		"provider", req.Provider, "query", req.Query,
		"results", payload.Count, "took_ms", tookMs)
	return payload, nil
}

func (g *Gateway) rejected(ctx context.Context, p *Payload) *Payload {
	if g.metrics != nil {
		g.metrics.Rejections.Add(ctx, 1, metric.WithAttributes(
			attribute.String("code", p.Error.Code)))
	}
	g.logger.Warn("search rejected", "code", p.Error.Code, "message", p.Error.Message)
	return p
}

func (g *Gateway) cacheKey(req Request, count int, freshness string) string {
	fields := cache.KeyFields{
		Country:    req.Country,
		SearchLang: req.SearchLang,
		UILang:     req.UILang,
		Freshness:  freshness,
		Site:       req.Site,
	}
	if req.Summary != nil {
		fields.Summary = *req.Summary
		fields.SummarySet = true
	}
	return cache.Key(string(req.Provider), req.Query, count, fields)
}

func (g *Gateway) cacheGet(ctx context.Context, key string) *Payload {
	if g.cache == nil {
		return nil
	}
	data, ok, err := g.cache.Get(ctx, key)
	if err != nil {
		g.logger.Warn("cache read failed", "error", err)
		return nil
	}
	if !ok {
		if g.metrics != nil {
			g.metrics.CacheMisses.Add(ctx, 1)
		}
		return nil
	}
	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		g.logger.Warn("cache entry unreadable, treating as miss", "error", err)
		return nil
	}
	if g.metrics != nil {
		g.metrics.CacheHits.Add(ctx, 1)
	}
	payload.Cached = true
	return &payload
}

func (g *Gateway) cachePut(ctx context.Context, key string, payload *Payload) {
	if g.cache == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		g.logger.Warn("cache marshal failed", "error", err)
		return
	}
	if err := g.cache.Put(ctx, key, data); err != nil {
		g.logger.Warn("cache write failed", "error", err)
	}
}

func (g *Gateway) execute(ctx context.Context, req Request, count int, freshness string, cred Credential) (*providerOutput, error) {
	switch req.Provider {
	case ProviderBrave:
		return g.brave.search(ctx, braveQuery{
			query:      req.Query,
			count:      count,
			country:    req.Country,
			searchLang: req.SearchLang,
			uiLang:     req.UILang,
			freshness:  freshness,
		}, cred.APIKey)
	case ProviderPerplexity:
		return g.perplexity.search(ctx, req.Query, count, cred)
	default:
		summary := false
		if req.Summary != nil {
			summary = *req.Summary
		}
		return g.bocha.search(ctx, bochaQuery{
			query:     req.Query,
			count:     count,
			freshness: freshness,
			site:      req.Site,
			summary:   summary,
		}, cred.APIKey)
	}
}

// assemble builds the uniform payload. Free text fields pass through the
// sanitizer; URLs stay raw so downstream tools can chain on them.
func (g *Gateway) assemble(req Request, out *providerOutput, tookMs int64) *Payload {
	payload := &Payload{
		Query:    req.Query,
		Provider: req.Provider,
		TookMs:   tookMs,
	}

	results := out.results
	if req.Provider == ProviderPerplexity {
		results = perplexityResults(out)
		payload.Citations = out.citations
	}
	for i := range results {
		results[i].Title = g.sanitize(results[i].Title)
		results[i].Description = g.sanitize(results[i].Description)
	}
	payload.Results = results
	payload.Count = len(results)
	payload.Summary = g.sanitize(out.summary)
	return payload
}

// perplexityResults converts synthesized content plus citations into
// discrete hits: one per citation, the synthesized answer attached to
// the first. With no citations the answer becomes a single result.
func perplexityResults(out *providerOutput) []NormalizedResult {
	var results []NormalizedResult
	for i, citation := range out.citations {
		description := ""
		if i == 0 {
			description = trimSnippet(out.content, 500)
		}
		results = append(results, NormalizedResult{
			Title:       citationTitle(citation),
			URL:         citation,
			Description: description,
			SiteName:    hostOf(citation),
		})
	}
	if len(results) == 0 && out.content != "" {
		results = append(results, NormalizedResult{
			Title:       "Perplexity Search Result",
			Description: out.content,
		})
	}
	return results
}

// citationTitle extracts a display title from a citation URL.
func citationTitle(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	path := strings.TrimRight(u.Path, "/")
	if path == "" {
		return u.Host
	}
	parts := strings.Split(path, "/")
	last := parts[len(parts)-1]
	if last == "" {
		return u.Host
	}
	return strings.ReplaceAll(last, "-", " ") + " — " + u.Host
}

// trimSnippet returns s truncated to max characters with an ellipsis.
func trimSnippet(s string, max int) string {
	if s == "" || len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
