package search

// defaultCount is used when an invocation supplies no count.
const defaultCount = 10

// maxCountFor caps count per provider. Brave pages up to 20 results per
// request; the POST providers cap at 10.
func maxCountFor(p Provider) int {
	if p == ProviderBrave {
		return 20
	}
	return 10
}

// resolveCount clamps the requested count into [1, max] for the
// provider. Absent input falls back to the default before clamping.
func resolveCount(count *int, p Provider) int {
	n := defaultCount
	if count != nil {
		n = *count
	}
	if n < 1 {
		return 1
	}
	if max := maxCountFor(p); n > max {
		return max
	}
	return n
}

// validateParams rejects provider-exclusive fields supplied while a
// different provider is active. Runs before any network call so an
// incompatible invocation costs no quota.
func validateParams(req Request) *Payload {
	p := req.Provider
	if p != ProviderBrave {
		if req.Country != "" {
			return unsupportedParam(CodeUnsupportedCountry, "country", p, ProviderBrave)
		}
		if req.SearchLang != "" {
			return unsupportedParam(CodeUnsupportedSearchLang, "search_lang", p, ProviderBrave)
		}
		if req.UILang != "" {
			return unsupportedParam(CodeUnsupportedUILang, "ui_lang", p, ProviderBrave)
		}
	}
	if p != ProviderBocha {
		if req.Site != "" {
			return unsupportedParam(CodeUnsupportedSite, "site", p, ProviderBocha)
		}
		if req.Summary != nil {
			return unsupportedParam(CodeUnsupportedSummary, "summary", p, ProviderBocha)
		}
	}
	if p == ProviderPerplexity && req.Freshness != "" {
		return reject(CodeUnsupportedFreshness,
			`parameter "freshness" is not supported by provider "perplexity"`,
			`"freshness" is only available with provider=brave or provider=bocha`)
	}
	return nil
}
