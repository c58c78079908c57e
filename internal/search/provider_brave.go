package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const braveEndpoint = "https://api.search.brave.com/res/v1/web/search"

// braveExecutor performs a single GET against the Brave Search API.
type braveExecutor struct {
	endpoint string
	client   *http.Client
}

func newBraveExecutor(client *http.Client) *braveExecutor {
	return &braveExecutor{endpoint: braveEndpoint, client: client}
}

// braveQuery is the validated, Brave-scoped parameter set.
type braveQuery struct {
	query      string
	count      int
	country    string
	searchLang string
	uiLang     string
	freshness  string
}

// braveResponse matches the relevant fields of the Brave Search API response.
type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
			PageAge     string `json:"page_age"`
			Profile     struct {
				Name string `json:"name"`
			} `json:"profile"`
			MetaURL struct {
				Favicon string `json:"favicon"`
			} `json:"meta_url"`
			Thumbnail struct {
				Src string `json:"src"`
			} `json:"thumbnail"`
		} `json:"results"`
	} `json:"web"`
}

func (b *braveExecutor) search(ctx context.Context, q braveQuery, apiKey string) (*providerOutput, error) {
	params := url.Values{}
	params.Set("q", q.query)
	params.Set("count", strconv.Itoa(q.count))
	if q.country != "" {
		params.Set("country", q.country)
	}
	if q.searchLang != "" {
		params.Set("search_lang", q.searchLang)
	}
	if q.uiLang != "" {
		params.Set("ui_lang", q.uiLang)
	}
	if q.freshness != "" {
		params.Set("freshness", q.freshness)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brave request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(ProviderBrave, resp); err != nil {
		return nil, err
	}
	body, err := readLimited(resp.Body)
	if err != nil {
		return nil, err
	}
	return parseBraveResponse(body, q.count)
}

// parseBraveResponse maps Brave's flat web result list into the neutral
// shape. siteName falls back to the parsed URL host when the API omits
// the profile name.
func parseBraveResponse(data []byte, limit int) (*providerOutput, error) {
	var resp braveResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse brave response: %w", err)
	}
	out := &providerOutput{}
	for _, r := range resp.Web.Results {
		siteName := r.Profile.Name
		if siteName == "" {
			siteName = hostOf(r.URL)
		}
		out.results = append(out.results, NormalizedResult{
			Title:       r.Title,
			URL:         r.URL,
			Description: r.Description,
			Published:   r.PageAge,
			SiteName:    siteName,
			SiteIcon:    r.MetaURL.Favicon,
			ImageURL:    r.Thumbnail.Src,
		})
		if len(out.results) >= limit {
			break
		}
	}
	return out, nil
}
