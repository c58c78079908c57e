package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const bochaEndpoint = "https://api.bochaai.com/v1/web-search"

// bochaExecutor performs a single POST against the Bocha web-search API.
type bochaExecutor struct {
	endpoint string
	client   *http.Client
}

func newBochaExecutor(client *http.Client) *bochaExecutor {
	return &bochaExecutor{endpoint: bochaEndpoint, client: client}
}

// bochaQuery is the validated, Bocha-scoped parameter set.
type bochaQuery struct {
	query     string
	count     int
	freshness string
	site      string
	summary   bool
}

type bochaRequestBody struct {
	Query     string `json:"query"`
	Count     int    `json:"count"`
	Freshness string `json:"freshness,omitempty"`
	Summary   bool   `json:"summary,omitempty"`
}

// bochaResponse matches the relevant fields of Bocha's response, which
// nests web results and image results separately.
type bochaResponse struct {
	Data struct {
		WebPages struct {
			Value []struct {
				Name          string `json:"name"`
				URL           string `json:"url"`
				Snippet       string `json:"snippet"`
				Summary       string `json:"summary"`
				SiteName      string `json:"siteName"`
				SiteIcon      string `json:"siteIcon"`
				DatePublished string `json:"datePublished"`
			} `json:"value"`
		} `json:"webPages"`
		Images struct {
			Value []struct {
				ThumbnailURL string `json:"thumbnailUrl"`
				HostPageURL  string `json:"hostPageUrl"`
			} `json:"value"`
		} `json:"images"`
		Summary string `json:"summary"`
	} `json:"data"`
}

func (b *bochaExecutor) search(ctx context.Context, q bochaQuery, apiKey string) (*providerOutput, error) {
	query := q.query
	if q.site != "" {
		// Bocha has no dedicated site parameter; fold it into the query.
		query = fmt.Sprintf("%s site:%s", q.query, q.site)
	}
	bodyBytes, err := json.Marshal(bochaRequestBody{
		Query:     query,
		Count:     q.count,
		Freshness: q.freshness,
		Summary:   q.summary,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal bocha request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bocha request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(ProviderBocha, resp); err != nil {
		return nil, err
	}
	body, err := readLimited(resp.Body)
	if err != nil {
		return nil, err
	}
	return parseBochaResponse(body, q.count)
}

// parseBochaResponse flattens Bocha's nested shape. An image is joined
// to a web result by matching its host-page URL against the result URL;
// only results with a matching image get an imageUrl.
func parseBochaResponse(data []byte, limit int) (*providerOutput, error) {
	var resp bochaResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse bocha response: %w", err)
	}

	imageByPage := make(map[string]string, len(resp.Data.Images.Value))
	for _, img := range resp.Data.Images.Value {
		if img.HostPageURL != "" && img.ThumbnailURL != "" {
			imageByPage[img.HostPageURL] = img.ThumbnailURL
		}
	}

	out := &providerOutput{summary: resp.Data.Summary}
	for _, page := range resp.Data.WebPages.Value {
		description := page.Snippet
		if page.Summary != "" {
			description = page.Summary
		}
		siteName := page.SiteName
		if siteName == "" {
			siteName = hostOf(page.URL)
		}
		out.results = append(out.results, NormalizedResult{
			Title:       page.Name,
			URL:         page.URL,
			Description: description,
			Published:   page.DatePublished,
			SiteName:    siteName,
			SiteIcon:    page.SiteIcon,
			ImageURL:    imageByPage[page.URL],
		})
		if len(out.results) >= limit {
			break
		}
	}
	return out, nil
}
