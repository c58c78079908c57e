package search

import (
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	// maxBodyBytes caps how much of a provider response we will read.
	maxBodyBytes = 1 << 20
	// maxSnippetBytes caps the body excerpt carried by transport errors.
	maxSnippetBytes = 1024
)

// checkStatus converts a non-success HTTP status into a TransportError
// carrying the status code and a body snippet.
func checkStatus(p Provider, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxSnippetBytes))
	return &TransportError{
		Provider:   p,
		StatusCode: resp.StatusCode,
		Snippet:    strings.TrimSpace(string(body)),
	}
}

func readLimited(r io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, maxBodyBytes))
}

// hostOf extracts the bare host from a URL for siteName fallbacks.
func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}
