package store

import (
	"reflect"
	"testing"

	"github.com/preston-bernstein/slate-scores-service/internal/domain/slate"
)

func sampleSlate(date string, ids ...string) slate.Slate {
	games := make(map[string]slate.UnifiedGame, len(ids))
	for _, id := range ids {
		games[id] = slate.UnifiedGame{GameID: id, Sport: "nba", SlateScore: 0.5}
	}
	return slate.NewSlate(date, []string{"nba"}, games, nil)
}

func TestMemoryStoreSetAndGet(t *testing.T) {
	s := NewMemoryStore()
	s.SetSlate(sampleSlate("20250114", "1", "2"))

	sl, ok := s.Slate("20250114")
	if !ok {
		t.Fatalf("expected slate for date")
	}
	if got := len(sl.Games); got != 2 {
		t.Fatalf("expected 2 games, got %d", got)
	}

	game, ok := s.Game("20250114", "1")
	if !ok {
		t.Fatalf("expected to find game with id 1")
	}
	if game.Sport != "nba" {
		t.Fatalf("unexpected sport %s", game.Sport)
	}
}

func TestMemoryStoreGetNotFound(t *testing.T) {
	s := NewMemoryStore()
	if _, ok := s.Slate("20250114"); ok {
		t.Fatalf("expected missing date to return false")
	}
	s.SetSlate(sampleSlate("20250114", "1"))
	if _, ok := s.Game("20250114", "missing"); ok {
		t.Fatalf("expected missing id to return false")
	}
	if _, ok := s.Game("20250115", "1"); ok {
		t.Fatalf("expected missing date to return false")
	}
}

func TestMemoryStoreSetReplacesSlate(t *testing.T) {
	s := NewMemoryStore()
	s.SetSlate(sampleSlate("20250114", "old"))
	s.SetSlate(sampleSlate("20250114", "new"))

	if _, ok := s.Game("20250114", "old"); ok {
		t.Fatalf("expected old slate to be replaced")
	}
	if _, ok := s.Game("20250114", "new"); !ok {
		t.Fatalf("expected new game present")
	}
}

func TestMemoryStoreRetainDropsOtherDates(t *testing.T) {
	s := NewMemoryStore()
	s.SetSlate(sampleSlate("20250113", "a"))
	s.SetSlate(sampleSlate("20250114", "b"))
	s.SetSlate(sampleSlate("20250115", "c"))

	s.Retain([]string{"20250114", "20250115"})

	if got, want := s.Dates(), []string{"20250114", "20250115"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Dates = %v, want %v", got, want)
	}
}
