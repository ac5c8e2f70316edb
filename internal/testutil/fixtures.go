package testutil

import (
	"github.com/preston-bernstein/slate-scores-service/internal/domain/slate"
)

// SampleGame returns a minimal scored game with the provided id.
func SampleGame(id, sport string, score float64) slate.UnifiedGame {
	return slate.UnifiedGame{
		GameID:     id,
		Sport:      sport,
		Date:       "2025-01-15T00:30Z",
		Link:       "https://www.espn.com/" + sport + "/game/_/gameId/" + id,
		Home:       slate.GameTeam{ID: "home", Name: "Home", Record: "10-5"},
		Away:       slate.GameTeam{ID: "away", Name: "Away", Record: "8-7"},
		SlateScore: score,
	}
}

// SampleSlate builds a slate for date covering the sports of the given games.
func SampleSlate(date string, games ...slate.UnifiedGame) slate.Slate {
	byID := make(map[string]slate.UnifiedGame, len(games))
	seen := map[string]struct{}{}
	var sports []string
	for _, g := range games {
		byID[g.GameID] = g
		if _, ok := seen[g.Sport]; !ok {
			seen[g.Sport] = struct{}{}
			sports = append(sports, g.Sport)
		}
	}
	return slate.NewSlate(date, sports, byID, nil)
}
