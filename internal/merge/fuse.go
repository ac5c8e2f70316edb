package merge

import (
	"fmt"

	"github.com/preston-bernstein/slate-scores-service/internal/domain/slate"
)

// FuseStats counts how each source contributed to a fused slate.
type FuseStats struct {
	Scheduled      int `json:"scheduled"`
	WithMatchup    int `json:"withMatchup"`
	WithPowerIndex int `json:"withPowerIndex"`
	// Matchup entries with no schedule entry. They are not part of the result.
	DroppedMatchup int `json:"droppedMatchup"`
}

// Fuse builds one UnifiedGame per scheduled game. The schedule seeds each
// record; power-index team data and then matchup data are merged over it.
// Scheduled games with no enrichment are kept with absent metrics.
func Fuse(sport string, schedule slate.ScheduleDataset, power slate.PowerIndexDataset, matchup slate.MatchupDataset) (map[string]slate.UnifiedGame, FuseStats, error) {
	stats := FuseStats{Scheduled: len(schedule)}
	games := make(map[string]slate.UnifiedGame, len(schedule))

	for id := range matchup {
		if _, ok := schedule[id]; !ok {
			stats.DroppedMatchup++
		}
	}

	for id, sg := range schedule {
		base, err := ToTree(sg)
		if err != nil {
			return nil, stats, fmt.Errorf("fuse %s: %w", id, err)
		}
		base["sport"] = sport

		overlay := Tree{}
		mg, hasMatchup := matchup[id]
		if hasMatchup {
			stats.WithMatchup++
			if overlay, err = ToTree(mg); err != nil {
				return nil, stats, fmt.Errorf("fuse %s: %w", id, err)
			}
		}

		homePower, homeOK := power[sg.Home.ID]
		awayPower, awayOK := power[sg.Away.ID]
		if homeOK && awayOK {
			stats.WithPowerIndex++
		}
		for side, team := range map[string]struct {
			power slate.PowerIndexTeam
			ok    bool
		}{"home": {homePower, homeOK}, "away": {awayPower, awayOK}} {
			sideOverlay := Tree{}
			if team.ok {
				if sideOverlay, err = ToTree(team.power); err != nil {
					return nil, stats, fmt.Errorf("fuse %s.%s: %w", id, side, err)
				}
			}
			if m, ok := overlay[side].(Tree); ok {
				sideOverlay = DeepMerge(sideOverlay, m)
			}
			overlay[side] = sideOverlay
		}

		var g slate.UnifiedGame
		if err := FromTree(DeepMerge(base, overlay), &g); err != nil {
			return nil, stats, fmt.Errorf("fuse %s: %w", id, err)
		}
		games[id] = g
	}
	return games, stats, nil
}
