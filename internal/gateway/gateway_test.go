package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/basket/searchgate/internal/search"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	core := search.New(search.Options{
		Getenv: func(string) string { return "" },
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	s, err := New(Config{
		Gateway: core,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Version: "test",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestSearchEndpointRejection(t *testing.T) {
	srv := httptest.NewServer(testServer(t).Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/search", "application/json",
		strings.NewReader(`{"query":"go generics","provider":"brave"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	// Pre-flight rejections are ordinary payloads, not HTTP errors.
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("no request ID assigned")
	}
	var payload search.Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Error == nil || payload.Error.Code != search.CodeMissingKeyBrave {
		t.Fatalf("payload = %+v, want missing-key rejection", payload)
	}
}

func TestSearchEndpointValidation(t *testing.T) {
	srv := httptest.NewServer(testServer(t).Handler())
	defer srv.Close()

	tests := []struct {
		name string
		body string
	}{
		{"missing query", `{"provider":"brave"}`},
		{"wrong query type", `{"query":7}`},
		{"unknown field", `{"query":"q","paging":true}`},
		{"fractional count", `{"query":"q","count":2.5}`},
		{"not json", `query=q`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/v1/search", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			var he httpError
			if err := json.NewDecoder(resp.Body).Decode(&he); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if he.Error.Code != "invalid_request" {
				t.Errorf("code = %q", he.Error.Code)
			}
		})
	}
}

func TestSearchEndpointMethod(t *testing.T) {
	srv := httptest.NewServer(testServer(t).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/search")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	srv := httptest.NewServer(testServer(t).Handler())
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set("X-Request-ID", "caller-supplied")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("X-Request-ID"); got != "caller-supplied" {
		t.Errorf("request ID = %q, want caller's", got)
	}
}

func TestHealthz(t *testing.T) {
	core := search.New(search.Options{
		Getenv: func(string) string { return "" },
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	probeErr := error(nil)
	s, err := New(Config{
		Gateway:    core,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Version:    "1.2.3",
		CacheProbe: func(context.Context) error { return probeErr },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["healthy"] != true || body["version"] != "1.2.3" {
		t.Errorf("body = %v", body)
	}

	probeErr = errors.New("cache offline")
	resp2, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("unhealthy status = %d, want 503", resp2.StatusCode)
	}
}
