package fixture

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/preston-bernstein/slate-scores-service/internal/domain/slate"
	"github.com/preston-bernstein/slate-scores-service/internal/providers"
)

func TestFetchReturnsPayloadPerKindAndSport(t *testing.T) {
	p := New()
	for _, kind := range slate.DatasetKinds {
		for _, sport := range []string{"nba", "NCAAMBB"} {
			raw, err := p.Fetch(context.Background(), kind, sport, "20250114")
			if err != nil {
				t.Fatalf("%s/%s: unexpected error %v", kind, sport, err)
			}
			if !json.Valid(raw) {
				t.Fatalf("%s/%s: payload is not valid json", kind, sport)
			}
		}
	}
}

func TestFetchRejectsUnknownSport(t *testing.T) {
	_, err := New().Fetch(context.Background(), slate.KindSchedule, "curling", "20250114")
	if !errors.Is(err, providers.ErrUnknownSport) {
		t.Fatalf("expected ErrUnknownSport, got %v", err)
	}
}

func TestFetchHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Fetch(ctx, slate.KindSchedule, "nba", "20250114"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPayloadRejectsUnknownKind(t *testing.T) {
	if _, err := Payload("standings", "nba"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestSportsListsPayloadDirectories(t *testing.T) {
	got := Sports()
	if len(got) != 2 || got[0] != "nba" || got[1] != "ncaambb" {
		t.Fatalf("unexpected sports %v", got)
	}
}
