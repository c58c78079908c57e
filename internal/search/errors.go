package search

import "fmt"

// Rejection codes. Stable: callers and dashboards key off them.
const (
	CodeEmptyQuery            = "empty_query"
	CodeInvalidProvider       = "invalid_provider"
	CodeMissingKeyBrave       = "missing_key_brave"
	CodeMissingKeyPerplexity  = "missing_key_perplexity"
	CodeMissingKeyBocha       = "missing_key_bocha"
	CodeUnsupportedCountry    = "unsupported_country"
	CodeUnsupportedSearchLang = "unsupported_search_lang"
	CodeUnsupportedUILang     = "unsupported_ui_lang"
	CodeUnsupportedSite       = "unsupported_site"
	CodeUnsupportedSummary    = "unsupported_summary"
	CodeUnsupportedFreshness  = "unsupported_freshness"
	CodeInvalidFreshness      = "invalid_freshness"
)

func reject(code, message, hint string) *Payload {
	return &Payload{Error: &ErrorDetail{Code: code, Message: message, Hint: hint}}
}

// unsupportedParam builds the rejection for a field supplied while a
// provider that does not accept it is active.
func unsupportedParam(code, field string, active, wants Provider) *Payload {
	return reject(code,
		fmt.Sprintf("parameter %q is not supported by provider %q", field, active),
		fmt.Sprintf("%q is only available with provider=%s; drop the parameter or switch providers", field, wants),
	)
}

func missingKey(p Provider) *Payload {
	switch p {
	case ProviderBrave:
		return reject(CodeMissingKeyBrave,
			"no Brave Search API key configured",
			"set api_keys.brave in config.yaml or export BRAVE_API_KEY")
	case ProviderPerplexity:
		return reject(CodeMissingKeyPerplexity,
			"no Perplexity API key configured",
			"set api_keys.perplexity in config.yaml, or export PERPLEXITY_API_KEY or OPENROUTER_API_KEY")
	default:
		return reject(CodeMissingKeyBocha,
			"no Bocha API key configured",
			"set api_keys.bocha in config.yaml or export BOCHA_API_KEY")
	}
}

// TransportError is a runtime failure talking to a provider: non-success
// HTTP status, timeout, or an unparseable body. Unlike rejections these
// propagate as errors; the invocation runtime renders them.
type TransportError struct {
	Provider   Provider
	StatusCode int
	Snippet    string
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s API returned %d: %s", e.Provider, e.StatusCode, e.Snippet)
	}
	return fmt.Sprintf("%s request failed: %s", e.Provider, e.Snippet)
}
