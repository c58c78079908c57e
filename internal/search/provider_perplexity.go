package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// perplexityExecutor performs a single chat-completions POST whose one
// user message is the raw query. The endpoint host is decided by the
// credential resolver: direct Perplexity or the proxy platform.
type perplexityExecutor struct {
	// endpointOverride replaces the credential's base URL. Test hook.
	endpointOverride string
	client           *http.Client
}

func newPerplexityExecutor(client *http.Client) *perplexityExecutor {
	return &perplexityExecutor{client: client}
}

type perplexityRequest struct {
	Model    string              `json:"model"`
	Messages []perplexityMessage `json:"messages"`
}

type perplexityMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// perplexityResponse matches the relevant fields of the chat-completions
// response: AI-synthesized prose plus citation URLs, not discrete hits.
type perplexityResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Citations []string `json:"citations"`
}

func (p *perplexityExecutor) search(ctx context.Context, query string, count int, cred Credential) (*providerOutput, error) {
	endpoint := cred.BaseURL
	if p.endpointOverride != "" {
		endpoint = p.endpointOverride
	}

	reqBody := perplexityRequest{
		Model: cred.Model,
		Messages: []perplexityMessage{
			{Role: "user", Content: query},
		},
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal perplexity request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cred.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("perplexity request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(ProviderPerplexity, resp); err != nil {
		return nil, err
	}
	body, err := readLimited(resp.Body)
	if err != nil {
		return nil, err
	}
	return parsePerplexityResponse(body, count)
}

func parsePerplexityResponse(data []byte, limit int) (*providerOutput, error) {
	var resp perplexityResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse perplexity response: %w", err)
	}
	out := &providerOutput{citations: resp.Citations}
	if len(resp.Choices) > 0 {
		out.content = resp.Choices[0].Message.Content
	}
	if len(out.citations) > limit {
		out.citations = out.citations[:limit]
	}
	return out, nil
}
