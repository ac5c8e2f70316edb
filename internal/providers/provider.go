package providers

import (
	"context"

	"github.com/preston-bernstein/slate-scores-service/internal/domain/slate"
)

// Fetcher retrieves one raw upstream payload for a dataset kind, sport and
// date (YYYYMMDD). The payload is returned as-is; shaping it is the
// normalizer's job.
type Fetcher interface {
	Fetch(ctx context.Context, kind slate.DatasetKind, sport, date string) ([]byte, error)
}

// NormalizeFunc turns a raw payload into its canonical dataset.
type NormalizeFunc func(kind slate.DatasetKind, raw []byte) (slate.Dataset, error)

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, kind slate.DatasetKind, sport, date string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, kind slate.DatasetKind, sport, date string) ([]byte, error) {
	return f(ctx, kind, sport, date)
}
