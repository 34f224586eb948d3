package scraper

import (
	"context"
	"fmt"

	"ShortsPublisher/internal/domain"
)

// Account describes a single source account provided by config.
type Account struct {
	Name    string
	Options map[string]string
}

// Request carries all parameters required to execute one scrape pass.
type Request struct {
	Account Account
	Known   map[string]struct{}
	Limit   int
}

// Scraper captures a single source-platform strategy (Instagram, Reddit, etc.).
type Scraper interface {
	Name() string
	Scrape(ctx context.Context, req Request) ([]domain.SourceItem, error)
}

// Registry keeps a mapping from strategy names to their implementations.
type Registry struct {
	scrapers map[string]Scraper
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scrapers: map[string]Scraper{}}
}

// Register adds or replaces a scraper implementation.
func (r *Registry) Register(scraper Scraper) {
	if r.scrapers == nil {
		r.scrapers = map[string]Scraper{}
	}
	r.scrapers[scraper.Name()] = scraper
}

// Resolve returns a scraper by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Scraper, error) {
	if scraper, ok := r.scrapers[name]; ok {
		return scraper, nil
	}
	return nil, fmt.Errorf("scraper %s is not registered", name)
}
