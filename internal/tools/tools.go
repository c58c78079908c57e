// Package tools exposes the search gateway as Genkit tools so agent
// runtimes can call it during generation.
package tools

import (
	"context"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/basket/searchgate/internal/search"
)

// Registry holds the Genkit tool definitions backed by the gateway.
type Registry struct {
	Gateway *search.Gateway
	Tools   []ai.ToolRef
}

func NewRegistry(gw *search.Gateway) *Registry {
	return &Registry{Gateway: gw}
}

// RegisterAll creates and registers the built-in tools with the Genkit
// instance, populating Tools for use in Generate calls.
func (r *Registry) RegisterAll(g *genkit.Genkit) {
	searchTool := registerSearch(g, r)
	r.Tools = []ai.ToolRef{searchTool}
}

// Search runs one gateway search on behalf of a tool invocation.
func (r *Registry) Search(ctx context.Context, input SearchInput) (*search.Payload, error) {
	return r.Gateway.Search(ctx, input.toRequest())
}
