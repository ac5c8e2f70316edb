// Package cache memoizes canonical datasets per (kind, sport, date).
//
// Presence is the only freshness signal: a day's data is treated as immutable
// once stored, so there is no TTL.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/preston-bernstein/slate-scores-service/internal/domain/slate"
	"github.com/preston-bernstein/slate-scores-service/internal/timeutil"
)

// ErrNotFound is returned by Load when nothing is stored under a key.
var ErrNotFound = errors.New("cache entry not found")

// Key identifies one cached dataset.
type Key struct {
	Kind  slate.DatasetKind
	Sport string
	Date  string // YYYYMMDD
}

// Validate rejects keys that cannot map to a storage location.
func (k Key) Validate() error {
	if !k.Kind.Valid() {
		return fmt.Errorf("unknown dataset kind %q", k.Kind)
	}
	if k.Sport == "" {
		return errors.New("sport required")
	}
	if strings.ContainsAny(k.Sport, `/\:.`) {
		return fmt.Errorf("invalid sport %q", k.Sport)
	}
	if _, err := timeutil.ParseDate(k.Date); err != nil {
		return fmt.Errorf("invalid date %q", k.Date)
	}
	return nil
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Kind, k.Sport, k.Date)
}

// SourceCache stores one payload per Key. Implementations need not lock:
// concurrent stores of the same key write identical content.
type SourceCache interface {
	Has(ctx context.Context, key Key) bool
	Load(ctx context.Context, key Key) ([]byte, error)
	Store(ctx context.Context, key Key, payload []byte) error
}

// WriteError wraps a failure to persist a dataset. It is fatal for the scrape
// that produced the payload.
type WriteError struct {
	Key Key
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cache write %s: %v", e.Key, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// IsWriteError reports whether err wraps a WriteError.
func IsWriteError(err error) bool {
	var wErr *WriteError
	return errors.As(err, &wErr)
}
