package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/preston-bernstein/slate-scores-service/internal/domain/slate"
)

func TestRunPrintsRankedGames(t *testing.T) {
	t.Setenv("PROVIDER_RATE_INTERVAL", "1ms")
	var stdout, stderr bytes.Buffer
	args := []string{"-date", "20250114", "-provider", "fixture", "-cache-dir", t.TempDir()}
	if err := run(context.Background(), args, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v (stderr %s)", err, stderr.String())
	}

	var games []slate.UnifiedGame
	if err := json.Unmarshal(stdout.Bytes(), &games); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(games) != 5 {
		t.Fatalf("expected 5 games, got %d", len(games))
	}
	for i := 1; i < len(games); i++ {
		if games[i].SlateScore > games[i-1].SlateScore {
			t.Fatalf("games not ranked: %v then %v", games[i-1].SlateScore, games[i].SlateScore)
		}
	}
}

func TestRunFiltersSportsAndRefreshes(t *testing.T) {
	t.Setenv("PROVIDER_RATE_INTERVAL", "1ms")
	var stdout, stderr bytes.Buffer
	args := []string{"-date", "2025-01-14", "-sports", "ncaambb", "-refresh", "-cache-dir", t.TempDir()}
	if err := run(context.Background(), args, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	var games []slate.UnifiedGame
	if err := json.Unmarshal(stdout.Bytes(), &games); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(games) != 2 || games[0].Sport != "ncaambb" {
		t.Fatalf("unexpected games: %+v", games)
	}
}

func TestRunRejectsUnknownProvider(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), []string{"-provider", "nope", "-cache-dir", t.TempDir()}, &stdout, &stderr); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestRunRejectsBadDate(t *testing.T) {
	var stdout, stderr bytes.Buffer
	args := []string{"-date", "tomorrow", "-provider", "fixture", "-cache-dir", t.TempDir()}
	if err := run(context.Background(), args, &stdout, &stderr); err == nil {
		t.Fatalf("expected error for bad date")
	}
}
