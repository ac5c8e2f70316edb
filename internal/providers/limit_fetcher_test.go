package providers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/preston-bernstein/slate-scores-service/internal/domain/slate"
	"github.com/preston-bernstein/slate-scores-service/internal/teststubs"
)

func stubFetcher() *teststubs.StubFetcher {
	return &teststubs.StubFetcher{Payloads: map[slate.DatasetKind][]byte{slate.KindSchedule: []byte("{}")}}
}

func TestRateLimitedFetcherSpacesCalls(t *testing.T) {
	inner := stubFetcher()
	rl := NewRateLimitedFetcher(inner, 20*time.Millisecond, nil)

	start := time.Now()
	for i := 0; i < 2; i++ {
		if _, err := rl.Fetch(context.Background(), slate.KindSchedule, "nba", "20240115"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Fatalf("expected second call to wait for a token, elapsed %s", elapsed)
	}
	if inner.Calls.Load() != 2 {
		t.Fatalf("expected inner fetcher called twice, got %d", inner.Calls.Load())
	}
}

func TestRateLimitedFetcherRespectsCanceledContext(t *testing.T) {
	inner := stubFetcher()
	rl := NewRateLimitedFetcher(inner, time.Minute, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := rl.Fetch(ctx, slate.KindSchedule, "nba", "20240115"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled error, got %v", err)
	}
	if inner.Calls.Load() != 0 {
		t.Fatalf("expected inner fetcher not called on canceled context")
	}
}

func TestRateLimitedFetcherHandlesNilInner(t *testing.T) {
	rl := NewRateLimitedFetcher(nil, time.Millisecond, nil)
	if _, err := rl.Fetch(context.Background(), slate.KindSchedule, "nba", "20240115"); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestRateLimitedFetcherDefaultsInterval(t *testing.T) {
	rl := NewRateLimitedFetcher(stubFetcher(), 0, nil).(*rateLimitedFetcher)
	if rl.interval != time.Second {
		t.Fatalf("expected default interval 1s, got %s", rl.interval)
	}
}

func TestFetcherFunc(t *testing.T) {
	var f Fetcher = FetcherFunc(func(ctx context.Context, kind slate.DatasetKind, sport, date string) ([]byte, error) {
		return []byte(sport + date), nil
	})
	data, err := f.Fetch(context.Background(), slate.KindSchedule, "nba", "1")
	if err != nil || string(data) != "nba1" {
		t.Fatalf("unexpected %s %v", data, err)
	}
}
