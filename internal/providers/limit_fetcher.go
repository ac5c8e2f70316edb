package providers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/preston-bernstein/slate-scores-service/internal/domain/slate"
	"github.com/preston-bernstein/slate-scores-service/internal/logging"
)

// rateLimitedFetcher spaces upstream calls at least interval apart.
type rateLimitedFetcher struct {
	next     Fetcher
	interval time.Duration
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// NewRateLimitedFetcher returns a Fetcher that allows one call per interval.
// Calls block until a token is available or ctx is done.
func NewRateLimitedFetcher(next Fetcher, interval time.Duration, logger *slog.Logger) Fetcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &rateLimitedFetcher{
		next:     next,
		interval: interval,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		logger:   logger,
	}
}

func (f *rateLimitedFetcher) Fetch(ctx context.Context, kind slate.DatasetKind, sport, date string) ([]byte, error) {
	if f == nil || f.next == nil {
		var logger *slog.Logger
		if f != nil {
			logger = f.logger
		}
		logWithProvider(ctx, logger, slog.LevelWarn, "rate-limited", "provider unavailable")
		return nil, ErrProviderUnavailable
	}
	if err := f.limiter.Wait(ctx); err != nil {
		logWithProvider(ctx, f.logger, slog.LevelWarn, "rate-limited", "rate-limited fetch canceled", "err", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	logWithProvider(ctx, f.logger, slog.LevelDebug, "rate-limited", "rate-limited provider fetch",
		logging.FieldDataset, string(kind),
		logging.FieldSport, sport,
		logging.FieldDate, date,
	)
	return f.next.Fetch(ctx, kind, sport, date)
}
