package search

import "strings"

// Source labels where a credential came from. Only the label is ever
// logged — never the key itself.
type Source string

const (
	SourceConfig      Source = "config"
	SourceProviderEnv Source = "provider_env"
	SourceAltEnv      Source = "alt_env"
	SourceNone        Source = "none"
)

// Provider credential environment variables. OPENROUTER_API_KEY is an
// alternate-platform fallback honored only for Perplexity.
const (
	envBraveKey      = "BRAVE_API_KEY"
	envPerplexityKey = "PERPLEXITY_API_KEY"
	envOpenRouterKey = "OPENROUTER_API_KEY"
	envBochaKey      = "BOCHA_API_KEY"
)

const (
	perplexityDirectURL = "https://api.perplexity.ai/chat/completions"
	perplexityProxyURL  = "https://openrouter.ai/api/v1/chat/completions"

	perplexityDirectModel = "sonar"
	perplexityProxyModel  = "perplexity/sonar"
)

// Credential is a resolved provider credential with provenance.
// BaseURL and Model are populated for Perplexity only.
type Credential struct {
	APIKey  string
	Source  Source
	BaseURL string
	Model   string
}

// credentialSource is one rung of a precedence chain: evaluated in
// order, first non-empty value wins and is tagged with its source.
type credentialSource struct {
	source Source
	lookup func() string
}

func resolveChain(sources []credentialSource) Credential {
	for _, s := range sources {
		if v := strings.TrimSpace(s.lookup()); v != "" {
			return Credential{APIKey: v, Source: s.source}
		}
	}
	return Credential{Source: SourceNone}
}

// resolveCredential determines the API key for the provider.
// Precedence: configured key, then the provider env var, and for
// Perplexity an alternate-platform env var as a final fallback.
func (g *Gateway) resolveCredential(p Provider) Credential {
	configKey := func() string { return g.opts.APIKeys[p] }

	switch p {
	case ProviderBrave:
		return resolveChain([]credentialSource{
			{SourceConfig, configKey},
			{SourceProviderEnv, func() string { return g.getenv(envBraveKey) }},
		})
	case ProviderBocha:
		return resolveChain([]credentialSource{
			{SourceConfig, configKey},
			{SourceProviderEnv, func() string { return g.getenv(envBochaKey) }},
		})
	case ProviderPerplexity:
		cred := resolveChain([]credentialSource{
			{SourceConfig, configKey},
			{SourceProviderEnv, func() string { return g.getenv(envPerplexityKey) }},
			{SourceAltEnv, func() string { return g.getenv(envOpenRouterKey) }},
		})
		if cred.Source == SourceNone {
			return cred
		}
		cred.BaseURL, cred.Model = g.perplexityEndpoint(cred)
		return cred
	}
	return Credential{Source: SourceNone}
}

// perplexityEndpoint selects the chat-completions endpoint and model.
// An explicit configured base URL wins outright. Otherwise the source
// decides: the provider env var means a direct key, the alternate env
// var means the proxy platform. A configured key has no such signal, so
// its literal prefix is inspected; keys matching neither prefix default
// to the proxy, which accepts foreign key shapes.
func (g *Gateway) perplexityEndpoint(cred Credential) (baseURL, model string) {
	direct := func() (string, string) { return perplexityDirectURL, perplexityDirectModel }
	proxy := func() (string, string) { return perplexityProxyURL, perplexityProxyModel }

	switch {
	case g.opts.PerplexityBaseURL != "":
		baseURL = g.opts.PerplexityBaseURL
		_, model = proxy()
		if strings.HasPrefix(cred.APIKey, "pplx-") {
			_, model = direct()
		}
	case cred.Source == SourceProviderEnv:
		baseURL, model = direct()
	case cred.Source == SourceAltEnv:
		baseURL, model = proxy()
	case strings.HasPrefix(cred.APIKey, "pplx-"):
		baseURL, model = direct()
	case strings.HasPrefix(cred.APIKey, "sk-or-"):
		baseURL, model = proxy()
	default:
		baseURL, model = proxy()
	}

	if g.opts.PerplexityModel != "" {
		model = g.opts.PerplexityModel
	}
	return baseURL, model
}
