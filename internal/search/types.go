// Package search implements the multi-provider web-search core: one
// logical search operation that fans out to Brave, Perplexity, or Bocha,
// normalizes their incompatible request and response shapes into a single
// contract, and caches responses to avoid redundant paid API calls.
package search

// Provider identifies a search backend.
type Provider string

const (
	ProviderBrave      Provider = "brave"
	ProviderPerplexity Provider = "perplexity"
	ProviderBocha      Provider = "bocha"
)

// Valid reports whether p names a known backend.
func (p Provider) Valid() bool {
	switch p {
	case ProviderBrave, ProviderPerplexity, ProviderBocha:
		return true
	}
	return false
}

// Request is one search invocation. Built per call, never mutated.
// Fields exclusive to one provider are rejected when another provider
// is active — see validateParams.
type Request struct {
	Query    string   `json:"query"`
	Provider Provider `json:"provider,omitempty"`

	// Count is a pointer so "absent" is distinguishable from zero;
	// absent falls back to the default before clamping.
	Count *int `json:"count,omitempty"`

	// Brave-only.
	Country    string `json:"country,omitempty"`
	SearchLang string `json:"search_lang,omitempty"`
	UILang     string `json:"ui_lang,omitempty"`

	// Brave and Bocha.
	Freshness string `json:"freshness,omitempty"`

	// Bocha-only.
	Site    string `json:"site,omitempty"`
	Summary *bool  `json:"summary,omitempty"`
}

// NormalizedResult is the uniform per-hit shape. URL is deliberately the
// raw source string: downstream tools chain on the literal URL, so it is
// never wrapped by the sanitizer.
type NormalizedResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Published   string `json:"published,omitempty"`
	SiteName    string `json:"siteName,omitempty"`
	SiteIcon    string `json:"siteIcon,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// ErrorDetail is a pre-flight structured rejection: detected before any
// network call, returned as an ordinary value, never raised.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// Payload is the uniform output of the search operation. Either Error is
// set (structured rejection) or the search fields are.
type Payload struct {
	Error *ErrorDetail `json:"error,omitempty"`

	Query    string             `json:"query,omitempty"`
	Provider Provider           `json:"provider,omitempty"`
	Count    int                `json:"count,omitempty"`
	TookMs   int64              `json:"tookMs,omitempty"`
	Results  []NormalizedResult `json:"results,omitempty"`

	// Citations carries Perplexity's source URLs, raw.
	Citations []string `json:"citations,omitempty"`
	// Summary carries Bocha's answer summary, sanitized.
	Summary string `json:"summary,omitempty"`
	// Cached marks a payload served from the cache.
	Cached bool `json:"cached,omitempty"`
}

// providerOutput is the provider-neutral intermediate shape executors
// return: discrete hits for Brave/Bocha, synthesized content plus
// citations for Perplexity. All free text is still raw here; the
// assembler owns sanitization.
type providerOutput struct {
	results   []NormalizedResult
	content   string
	citations []string
	summary   string
}
