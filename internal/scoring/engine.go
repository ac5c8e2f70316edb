// Package scoring turns a unified game into a single interest score.
//
// Each metric yields a component in [0,1]. Present components are combined as
// a weighted mean over the weights of present metrics only, so a game missing
// some data is scored on what it has rather than dragged toward zero.
package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/preston-bernstein/slate-scores-service/internal/domain/slate"
)

// Metric names one score component.
type Metric string

const (
	MetricMatchupQuality Metric = "matchup-quality"
	MetricWinProbability Metric = "win-probability"
	MetricRecord         Metric = "record"
	MetricPowerIndex     Metric = "power-index"
	MetricSpread         Metric = "predicted-spread"
)

var metricOrder = []Metric{
	MetricMatchupQuality,
	MetricWinProbability,
	MetricRecord,
	MetricPowerIndex,
	MetricSpread,
}

var errNonFinite = errors.New("non-finite value")

// Engine scores games for one sport.
type Engine struct {
	cfg Config
}

// NewEngine validates cfg and returns an Engine bound to it.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scoring config: %w", err)
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Score computes the interest score for g. Output is deterministic for a given
// game and config.
func (e *Engine) Score(g slate.UnifiedGame) Result {
	var (
		weighted   float64
		weightSum  float64
		components []Component
	)
	for _, m := range metricOrder {
		value, ok, err := e.component(m, g)
		if err != nil {
			return Unscoreable(fmt.Sprintf("%s: %v", m, err))
		}
		if !ok {
			continue
		}
		w := e.cfg.Weights.of(m)
		if w == 0 {
			continue
		}
		components = append(components, Component{Metric: m, Value: value, Weight: w})
		weighted += value * w
		weightSum += w
	}
	if weightSum == 0 {
		return Unscoreable("no metrics available")
	}
	score := weighted / weightSum
	if !finite(score) {
		return Unscoreable(errNonFinite.Error())
	}
	return Scored(clamp01(score), components)
}

func (e *Engine) component(m Metric, g slate.UnifiedGame) (float64, bool, error) {
	switch m {
	case MetricMatchupQuality:
		return matchupQualityComponent(g)
	case MetricWinProbability:
		return winProbabilityComponent(g)
	case MetricRecord:
		return recordComponent(g)
	case MetricPowerIndex:
		return e.powerIndexComponent(g)
	case MetricSpread:
		return e.spreadComponent(g)
	}
	return 0, false, fmt.Errorf("unknown metric %q", m)
}

// matchupQualityComponent scores the pairing quality. The provider reports
// one value per matchup, so the away side stands in when home's is missing.
func matchupQualityComponent(g slate.UnifiedGame) (float64, bool, error) {
	q := qualities(g.Home).MatchupQuality
	if q == nil {
		q = qualities(g.Away).MatchupQuality
	}
	if q == nil {
		return 0, false, nil
	}
	if !finite(*q) {
		return 0, false, errNonFinite
	}
	return clamp01(*q / 100), true, nil
}

func winProbabilityComponent(g slate.UnifiedGame) (float64, bool, error) {
	home := qualities(g.Home).TeamPredWinPct
	away := qualities(g.Away).TeamPredWinPct
	if home == nil || away == nil {
		return 0, false, nil
	}
	if !finite(*home) || !finite(*away) {
		return 0, false, errNonFinite
	}
	return clamp01(1 - math.Abs(*home-*away)/100), true, nil
}

// recordComponent averages both teams' win rates. A blank record is absent;
// an unparseable one is malformed. A 0-0 record leaves the metric absent.
func recordComponent(g slate.UnifiedGame) (float64, bool, error) {
	if g.Home.Record == "" || g.Away.Record == "" {
		return 0, false, nil
	}
	home, err := slate.ParseRecord(g.Home.Record)
	if err != nil {
		return 0, false, err
	}
	away, err := slate.ParseRecord(g.Away.Record)
	if err != nil {
		return 0, false, err
	}
	homeRate, ok := home.WinRate()
	if !ok {
		return 0, false, nil
	}
	awayRate, ok := away.WinRate()
	if !ok {
		return 0, false, nil
	}
	return (homeRate + awayRate) / 2, true, nil
}

func (e *Engine) powerIndexComponent(g slate.UnifiedGame) (float64, bool, error) {
	keys := e.cfg.PowerIndex
	home, ok := g.Home.PowerIndexes.Lookup(keys.Category, keys.Rating)
	if !ok {
		return 0, false, nil
	}
	away, ok := g.Away.PowerIndexes.Lookup(keys.Category, keys.Rating)
	if !ok {
		return 0, false, nil
	}
	if !finite(home) || !finite(away) {
		return 0, false, errNonFinite
	}
	scale := e.cfg.Scaling.PowerIndex
	return (sigmoid(home, scale) + sigmoid(away, scale)) / 2, true, nil
}

// spreadComponent decays with the predicted margin. The margin is symmetric,
// so the away side's prediction stands in when home's is missing.
func (e *Engine) spreadComponent(g slate.UnifiedGame) (float64, bool, error) {
	margin := qualities(g.Home).TeamPredMov
	if margin == nil {
		margin = qualities(g.Away).TeamPredMov
	}
	if margin == nil {
		return 0, false, nil
	}
	if !finite(*margin) {
		return 0, false, errNonFinite
	}
	return negExp(*margin, e.cfg.Scaling.Spread), true, nil
}

func qualities(t slate.GameTeam) slate.MatchupQualities {
	if t.MatchupQualities == nil {
		return slate.MatchupQualities{}
	}
	return *t.MatchupQualities
}

func sigmoid(x, scale float64) float64 {
	return 1 / (1 + math.Exp(-x/scale))
}

func negExp(x, scale float64) float64 {
	return math.Exp(-(x * x) / scale)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
