package server

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/preston-bernstein/slate-scores-service/internal/config"
	"github.com/preston-bernstein/slate-scores-service/internal/metrics"
	"github.com/preston-bernstein/slate-scores-service/internal/providers"
	"github.com/preston-bernstein/slate-scores-service/internal/providers/espn"
	"github.com/preston-bernstein/slate-scores-service/internal/providers/fixture"
)

const (
	providerESPN    = "espn"
	providerFixture = "fixture"
)

func selectFetcher(cfg config.Config, table config.SportTable, logger *slog.Logger) providers.Fetcher {
	switch strings.ToLower(cfg.Provider) {
	case providerFixture, "":
		return fixture.New()
	case providerESPN:
		sports := make(map[string]espn.Sport, len(table))
		for key, sc := range table {
			sports[key] = espn.Sport{Path: sc.Path, Groups: sc.Groups}
		}
		return espn.NewClient(espn.Config{
			SiteURL: cfg.ESPN.SiteURL,
			WebURL:  cfg.ESPN.WebURL,
			Sports:  sports,
			Timeout: cfg.ESPN.Timeout,
			Logger:  logger,
		})
	default:
		if logger != nil {
			logger.Warn("unknown provider, falling back to fixture", slog.String("provider", cfg.Provider))
		}
		return fixture.New()
	}
}

// fetcherFactory assembles the fetcher with shared wrappers (rate limit + retry).
type fetcherFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newFetcherFactory(logger *slog.Logger, recorder *metrics.Recorder) fetcherFactory {
	return fetcherFactory{logger: logger, metrics: recorder}
}

func (f fetcherFactory) build(cfg config.Config, table config.SportTable) providers.Fetcher {
	return f.wrap(cfg, selectFetcher(cfg, table, f.logger))
}

func (f fetcherFactory) wrap(cfg config.Config, base providers.Fetcher) providers.Fetcher {
	// One limiter is shared by every sport and dataset so a cold scrape stays under upstream quota.
	limited := providers.NewRateLimitedFetcher(base, cfg.ESPN.RateInterval, f.logger)
	return providers.NewRetryingFetcher(limited, f.logger, f.metrics, normalizeProviderName(cfg.Provider, base), cfg.ESPN.RetryAttempts, 0)
}

// normalizeProviderName returns a lower-cased provider name, deriving from instance when not explicitly configured.
func normalizeProviderName(raw string, fetcher providers.Fetcher) string {
	if raw != "" {
		return strings.ToLower(raw)
	}
	if fetcher != nil {
		return strings.ToLower(fmt.Sprintf("%T", fetcher))
	}
	return "provider"
}
