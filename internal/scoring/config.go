package scoring

import (
	"errors"
	"fmt"
	"math"
)

// Weights sets the relative importance of each metric. Absent metrics drop
// out of both numerator and denominator, so weights need not sum to 1.
type Weights struct {
	MatchupQuality float64 `yaml:"matchupQuality" json:"matchupQuality"`
	WinProbability float64 `yaml:"winProbability" json:"winProbability"`
	Record         float64 `yaml:"record" json:"record"`
	PowerIndex     float64 `yaml:"powerIndex" json:"powerIndex"`
	Spread         float64 `yaml:"spread" json:"spread"`
}

func (w Weights) of(m Metric) float64 {
	switch m {
	case MetricMatchupQuality:
		return w.MatchupQuality
	case MetricWinProbability:
		return w.WinProbability
	case MetricRecord:
		return w.Record
	case MetricPowerIndex:
		return w.PowerIndex
	case MetricSpread:
		return w.Spread
	}
	return 0
}

// ScalingFactors are sport-specific normalization constants.
type ScalingFactors struct {
	PowerIndex float64 `yaml:"powerIndex" json:"powerIndex"`
	Spread     float64 `yaml:"spread" json:"spread"`
}

// PowerIndexKeys locates the stats used from a team's power indexes.
type PowerIndexKeys struct {
	Category string `yaml:"category" json:"category"`
	Rating   string `yaml:"rating" json:"rating"`
	Offense  string `yaml:"offense" json:"offense,omitempty"`
	Defense  string `yaml:"defense" json:"defense,omitempty"`
}

// ProjectionParams are the constants behind spread/points projections.
type ProjectionParams struct {
	HomeCourtAdvantage  float64 `yaml:"homeCourtAdvantage" json:"homeCourtAdvantage"`
	AverageTotalPoints  float64 `yaml:"averageTotalPoints" json:"averageTotalPoints"`
	PythagoreanExponent float64 `yaml:"pythagoreanExponent" json:"pythagoreanExponent"`
}

// Config is the immutable per-sport scoring configuration.
type Config struct {
	Weights    Weights
	Scaling    ScalingFactors
	PowerIndex PowerIndexKeys
	Projection *ProjectionParams
}

// Validate rejects configurations the engine cannot score with.
func (c Config) Validate() error {
	var errs []error
	total := 0.0
	for _, m := range metricOrder {
		w := c.Weights.of(m)
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			errs = append(errs, fmt.Errorf("weight %s must be a non-negative number", m))
			continue
		}
		total += w
	}
	if total <= 0 {
		errs = append(errs, errors.New("at least one weight must be positive"))
	}
	if !(c.Scaling.PowerIndex > 0) {
		errs = append(errs, errors.New("scaling factor powerIndex must be positive"))
	}
	if !(c.Scaling.Spread > 0) {
		errs = append(errs, errors.New("scaling factor spread must be positive"))
	}
	if c.PowerIndex.Category == "" || c.PowerIndex.Rating == "" {
		errs = append(errs, errors.New("power index category and rating are required"))
	}
	if p := c.Projection; p != nil {
		if !(p.PythagoreanExponent > 0) || !(p.AverageTotalPoints > 0) {
			errs = append(errs, errors.New("projection exponent and average total must be positive"))
		}
		if c.PowerIndex.Offense == "" || c.PowerIndex.Defense == "" {
			errs = append(errs, errors.New("projection needs power index offense and defense stats"))
		}
	}
	return errors.Join(errs...)
}
