package source

import (
	"context"
	"fmt"
	"sort"

	"NewsDesk/internal/domain"
	"NewsDesk/internal/window"
)

// Fetcher captures a single candidate provider (Naver search, RSS feed, etc.).
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, w window.Window) ([]domain.Article, error)
}

// Registry keeps a mapping from provider names to their implementations.
type Registry struct {
	fetchers map[string]Fetcher
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{fetchers: map[string]Fetcher{}}
}

// Register adds or replaces a provider implementation.
func (r *Registry) Register(f Fetcher) {
	if r.fetchers == nil {
		r.fetchers = map[string]Fetcher{}
	}
	r.fetchers[f.Name()] = f
}

// Resolve returns a provider by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Fetcher, error) {
	if f, ok := r.fetchers[name]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("source %s is not registered", name)
}

// Names lists registered providers in a stable order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.fetchers))
	for name := range r.fetchers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
