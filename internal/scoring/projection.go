package scoring

import (
	"math"

	"github.com/preston-bernstein/slate-scores-service/internal/domain/slate"
)

// Project derives spread, points, win probability and American odds for both
// teams from offensive and defensive power indexes. ok is false when the
// engine has no projection params or either team lacks the needed stats.
func (e *Engine) Project(g slate.UnifiedGame) (*slate.Projection, bool) {
	if e.cfg.Projection == nil {
		return nil, false
	}
	return Project(g.Home.PowerIndexes, g.Away.PowerIndexes, e.cfg.PowerIndex, *e.cfg.Projection)
}

// Project is the engine-free form of (*Engine).Project.
func Project(home, away slate.PowerIndexes, keys PowerIndexKeys, p ProjectionParams) (*slate.Projection, bool) {
	homeOff, ok1 := home.Lookup(keys.Category, keys.Offense)
	homeDef, ok2 := home.Lookup(keys.Category, keys.Defense)
	awayOff, ok3 := away.Lookup(keys.Category, keys.Offense)
	awayDef, ok4 := away.Lookup(keys.Category, keys.Defense)
	if !(ok1 && ok2 && ok3 && ok4) {
		return nil, false
	}

	homeSpread := (awayOff + awayDef) - (homeOff + homeDef) - p.HomeCourtAdvantage
	total := p.AverageTotalPoints + (homeOff + awayOff) - (homeDef + awayDef)
	homePoints := (total - homeSpread) / 2
	awayPoints := total - homePoints
	if homePoints <= 0 || awayPoints <= 0 {
		return nil, false
	}

	homeProb := pythagorean(homePoints, awayPoints, p.PythagoreanExponent)
	awayProb := 1 - homeProb
	if !(homeProb > 0 && homeProb < 1) {
		return nil, false
	}

	return &slate.Projection{
		Home: slate.TeamProjection{
			Spread:      homeSpread,
			Points:      homePoints,
			Probability: homeProb,
			Odds:        americanOdds(homeProb),
		},
		Away: slate.TeamProjection{
			Spread:      -homeSpread,
			Points:      awayPoints,
			Probability: awayProb,
			Odds:        americanOdds(awayProb),
		},
	}, true
}

func pythagorean(points, oppPoints, exponent float64) float64 {
	team := math.Pow(points, exponent)
	opp := math.Pow(oppPoints, exponent)
	return team / (team + opp)
}

// americanOdds converts a win probability in (0,1) to a moneyline.
func americanOdds(p float64) float64 {
	if p < 0.5 {
		return 100 * (1 - p) / p
	}
	return -100 * p / (1 - p)
}
