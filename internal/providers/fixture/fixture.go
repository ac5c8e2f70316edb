// Package fixture serves canned ESPN-shaped payloads for local runs and tests.
package fixture

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/preston-bernstein/slate-scores-service/internal/domain/slate"
	"github.com/preston-bernstein/slate-scores-service/internal/providers"
)

//go:embed payloads
var payloads embed.FS

// Provider returns the same deterministic payloads for every date.
type Provider struct{}

// New creates a fixture provider.
func New() *Provider {
	return &Provider{}
}

// Fetch returns the embedded payload for kind and sport; date is ignored.
func (p *Provider) Fetch(ctx context.Context, kind slate.DatasetKind, sport, date string) ([]byte, error) {
	_ = date
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Payload(kind, sport)
}

// Payload returns the raw embedded payload for kind and sport.
func Payload(kind slate.DatasetKind, sport string) ([]byte, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown dataset kind %q", kind)
	}
	sport = strings.ToLower(sport)
	raw, err := payloads.ReadFile("payloads/" + sport + "/" + string(kind) + ".json")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", providers.ErrUnknownSport, sport)
	}
	return raw, nil
}

// Sports lists the sports that have fixture payloads.
func Sports() []string {
	entries, err := fs.ReadDir(payloads, "payloads")
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out
}
