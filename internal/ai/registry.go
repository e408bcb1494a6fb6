package ai

import (
	"context"
	"fmt"
	"slices"
	"sort"
)

// Registry holds the closed set of providers, keyed by name. It is built
// once at startup; adding a backend means registering one more Provider
// implementation, not branching logic in callers.
type Registry struct {
	providers map[ProviderName]Provider
}

// NewRegistry builds a registry from the given providers.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[ProviderName]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

// Get retrieves a provider by name.
func (r *Registry) Get(name ProviderName) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// Names returns the registered provider names, sorted.
func (r *Registry) Names() []ProviderName {
	names := make([]ProviderName, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Generate validates the request and dispatches it to the named provider.
// An empty model means the provider's default; a non-empty model must be in
// the provider's catalog.
func (r *Registry) Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error) {
	p, ok := r.providers[req.Provider]
	if !ok {
		return GenerationResult{}, fmt.Errorf("%w: %q", ErrUnknownProvider, req.Provider)
	}
	if req.Model != "" && !slices.Contains(p.Models(), req.Model) {
		return GenerationResult{}, fmt.Errorf("%w: %q does not offer %q", ErrUnknownModel, req.Provider, req.Model)
	}
	return p.Generate(ctx, req)
}
