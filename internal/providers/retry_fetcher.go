package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/preston-bernstein/slate-scores-service/internal/domain/slate"
	"github.com/preston-bernstein/slate-scores-service/internal/logging"
	"github.com/preston-bernstein/slate-scores-service/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
	maxBackoff           = 10 * time.Second
)

// retryingFetcher wraps a Fetcher with exponential backoff, honoring
// Retry-After on rate limits.
type retryingFetcher struct {
	inner        Fetcher
	logger       *slog.Logger
	metrics      *metrics.Recorder
	providerName string
	maxAttempts  int
	newBackOff   func() backoff.BackOff
}

// NewRetryingFetcher wraps inner with retries. Non-positive maxAttempts or
// initial backoff fall back to defaults.
func NewRetryingFetcher(inner Fetcher, logger *slog.Logger, recorder *metrics.Recorder, providerName string, maxAttempts int, initial time.Duration) Fetcher {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if initial <= 0 {
		initial = defaultBackoff
	}
	if providerName == "" {
		providerName = "provider"
	}
	return &retryingFetcher{
		inner:        inner,
		logger:       logger,
		metrics:      recorder,
		providerName: providerName,
		maxAttempts:  maxAttempts,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = initial
			b.MaxInterval = maxBackoff
			b.MaxElapsedTime = 0
			b.Reset()
			return b
		},
	}
}

func (r *retryingFetcher) Fetch(ctx context.Context, kind slate.DatasetKind, sport, date string) ([]byte, error) {
	if r.inner == nil {
		return nil, ErrProviderUnavailable
	}
	b := r.newBackOff()
	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		start := time.Now()
		data, err := r.inner.Fetch(ctx, kind, sport, date)
		r.metrics.RecordProviderAttempt(r.providerName, string(kind), time.Since(start), err)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if rlErr, ok := AsRateLimitError(err); ok {
			r.metrics.RecordRateLimit(r.providerName, rlErr.RetryAfter)
		}
		if attempt == r.maxAttempts || !Retryable(err) {
			break
		}

		delay := r.computeDelay(err, b)
		if delay == backoff.Stop {
			break
		}
		r.log(ctx, slog.LevelWarn, "provider fetch retry",
			logging.FieldDataset, string(kind),
			logging.FieldSport, sport,
			logging.FieldDate, date,
			"attempt", attempt,
			"max_attempts", r.maxAttempts,
			"delay_ms", delay.Milliseconds(),
			"err", err,
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	r.log(ctx, slog.LevelError, "provider fetch failed",
		logging.FieldDataset, string(kind),
		logging.FieldSport, sport,
		logging.FieldDate, date,
		"err", lastErr,
	)
	return nil, lastErr
}

func (r *retryingFetcher) computeDelay(err error, b backoff.BackOff) time.Duration {
	if rlErr, ok := AsRateLimitError(err); ok && rlErr.RetryAfter > 0 {
		return rlErr.RetryAfter
	}
	return b.NextBackOff()
}

func (r *retryingFetcher) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	logWithProvider(ctx, logging.FromContext(ctx, r.logger), level, r.providerName, msg, args...)
}
