// Package metadata wires the external media search providers behind a single
// registry. Every provider absorbs its own upstream failures and degrades to a
// fallback or empty result set; callers never see an upstream error.
package metadata

import (
	"context"
	"sort"

	"tasteid/internal/models"
)

// Searcher is the contract every provider implements. Results are already
// sanitized: the rest of the system performs no validation beyond what item
// creation requires.
type Searcher interface {
	Search(ctx context.Context, query string) []models.SearchResult
}

// Registry maps a search domain (movies, anime, games, ...) to its provider.
type Registry struct {
	providers map[string]Searcher
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Searcher)}
}

// Register binds a provider to a domain name.
func (r *Registry) Register(domain string, s Searcher) {
	r.providers[domain] = s
}

// Lookup returns the provider for the domain.
func (r *Registry) Lookup(domain string) (Searcher, bool) {
	s, ok := r.providers[domain]
	return s, ok
}

// Domains returns the registered domain names, sorted.
func (r *Registry) Domains() []string {
	domains := make([]string, 0, len(r.providers))
	for d := range r.providers {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}
