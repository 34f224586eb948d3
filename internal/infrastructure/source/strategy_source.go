package source

import (
	"context"
	"fmt"
	"log/slog"

	"ShortsPublisher/internal/config"
	"ShortsPublisher/internal/domain"
	"ShortsPublisher/internal/ports"
	"ShortsPublisher/internal/scraper"
)

const defaultAccountLimit = 10

// StrategySource implements ports.Source via registered scraper strategies.
type StrategySource struct {
	registry *scraper.Registry
	accounts []config.AccountConfig
	logger   *slog.Logger
}

var _ ports.Source = (*StrategySource)(nil)

// NewStrategySource wires the scraper registry with config-defined accounts.
func NewStrategySource(reg *scraper.Registry, accounts []config.AccountConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		accounts: accounts,
		logger:   log,
	}
}

// FetchNew iterates over configured accounts and executes their scrapers.
// Items whose id is already known are filtered out before aggregation.
func (s *StrategySource) FetchNew(ctx context.Context, known map[string]struct{}) ([]domain.SourceItem, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scraper registry is not configured")
	}

	s.debug("fetch new items", "accounts", len(s.accounts), "known", len(known))

	var aggregated []domain.SourceItem
	seen := map[string]struct{}{}
	for _, account := range s.accounts {
		s.debug("process account", "account", account.Name, "scraper", account.Scraper)
		strategy, err := s.registry.Resolve(account.Scraper)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", account.Name, err)
		}

		req := scraper.Request{
			Account: scraper.Account{Name: account.Name, Options: account.Options},
			Known:   known,
			Limit:   defaultAccountLimit,
		}

		results, err := strategy.Scrape(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("scrape account %s: %w", account.Name, err)
		}

		for _, item := range results {
			if _, ok := known[item.ID]; ok {
				continue
			}
			if _, ok := seen[item.ID]; ok {
				continue
			}
			seen[item.ID] = struct{}{}
			if item.Account == "" {
				item.Account = account.Name
			}
			aggregated = append(aggregated, item)
		}
		s.debug("account produced items", "account", account.Name, "count", len(results))
	}

	s.debug("strategy source done", "total_items", len(aggregated))
	return aggregated, nil
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
