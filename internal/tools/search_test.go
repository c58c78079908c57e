package tools

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/basket/searchgate/internal/search"
)

func intPtr(n int) *int    { return &n }
func boolPtr(b bool) *bool { return &b }

func TestSearchInputToRequest(t *testing.T) {
	in := SearchInput{
		Query:      "golangyaml",
		Provider:   "brave",
		Count:      intPtr(5),
		Country:    "DE",
		SearchLang: "de",
		UILang:     "en",
		Freshness:  "pm",
	}
	req := in.toRequest()
	if req.Provider != search.ProviderBrave {
		t.Errorf("provider = %q", req.Provider)
	}
	if req.Count == nil || *req.Count != 5 {
		t.Errorf("count = %v", req.Count)
	}
	if req.Country != "DE" || req.SearchLang != "de" || req.UILang != "en" || req.Freshness != "pm" {
		t.Errorf("brave fields lost: %+v", req)
	}

	in = SearchInput{Query: "q", Provider: "bocha", Site: "example.com", Summary: boolPtr(true)}
	req = in.toRequest()
	if req.Site != "example.com" || req.Summary == nil || !*req.Summary {
		t.Errorf("bocha fields lost: %+v", req)
	}
}

func TestRegistrySearchPropagatesRejections(t *testing.T) {
	gw := search.New(search.Options{
		Getenv: func(string) string { return "" },
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	reg := NewRegistry(gw)

	payload, err := reg.Search(context.Background(), SearchInput{Query: "q", Provider: "brave"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if payload.Error == nil || payload.Error.Code != search.CodeMissingKeyBrave {
		t.Fatalf("payload = %+v, want missing-key rejection", payload)
	}
}
