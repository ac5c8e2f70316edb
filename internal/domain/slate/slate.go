package slate

import "sort"

// Slate is the scored set of games for one date across one or more sports.
type Slate struct {
	Date     string                 `json:"date"`
	Sports   []string               `json:"sports"`
	Games    map[string]UnifiedGame `json:"games"`
	Ranking  []string               `json:"ranking"`
	Failures map[string]string      `json:"failures,omitempty"`
}

// NewSlate builds a slate and computes its ranking.
func NewSlate(date string, sports []string, games map[string]UnifiedGame, failures map[string]string) Slate {
	if games == nil {
		games = map[string]UnifiedGame{}
	}
	if len(failures) == 0 {
		failures = nil
	}
	return Slate{
		Date:     date,
		Sports:   sports,
		Games:    games,
		Ranking:  Rank(games),
		Failures: failures,
	}
}

// Rank returns game ids ordered by score (highest first). Ties fall back to
// start time, then id, so the order is stable across calls.
func Rank(games map[string]UnifiedGame) []string {
	ids := sortedKeys(games)
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := games[ids[i]], games[ids[j]]
		if a.SlateScore != b.SlateScore {
			return a.SlateScore > b.SlateScore
		}
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.GameID < b.GameID
	})
	return ids
}

// Ranked returns the games in ranking order.
func (s Slate) Ranked() []UnifiedGame {
	out := make([]UnifiedGame, 0, len(s.Ranking))
	for _, id := range s.Ranking {
		if g, ok := s.Games[id]; ok {
			out = append(out, g)
		}
	}
	return out
}

// FilterSports returns a copy holding only games for the given sports.
func (s Slate) FilterSports(sports []string) Slate {
	want := make(map[string]struct{}, len(sports))
	for _, sp := range sports {
		want[sp] = struct{}{}
	}
	games := make(map[string]UnifiedGame)
	for id, g := range s.Games {
		if _, ok := want[g.Sport]; ok {
			games[id] = g
		}
	}
	failures := make(map[string]string)
	for sp, msg := range s.Failures {
		if _, ok := want[sp]; ok {
			failures[sp] = msg
		}
	}
	return NewSlate(s.Date, sports, games, failures)
}

// HasSports reports whether the slate was built for every sport given.
func (s Slate) HasSports(sports []string) bool {
	have := make(map[string]struct{}, len(s.Sports))
	for _, sp := range s.Sports {
		have[sp] = struct{}{}
	}
	for _, sp := range sports {
		if _, ok := have[sp]; !ok {
			return false
		}
	}
	return true
}
