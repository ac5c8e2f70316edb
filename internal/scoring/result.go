package scoring

import "github.com/preston-bernstein/slate-scores-service/internal/domain/slate"

// Component is one metric's normalized value and the weight it carries.
type Component struct {
	Metric Metric  `json:"metric"`
	Value  float64 `json:"value"`
	Weight float64 `json:"weight"`
}

// Result is either a score in [0,1] or Unscoreable with a reason.
type Result struct {
	value      float64
	scored     bool
	reason     string
	components []Component
}

// Scored builds a successful result.
func Scored(value float64, components []Component) Result {
	return Result{value: value, scored: true, components: components}
}

// Unscoreable builds a result for a game that lacks usable data.
func Unscoreable(reason string) Result {
	return Result{reason: reason}
}

// Value returns the score and whether the game was scoreable.
func (r Result) Value() (float64, bool) {
	return r.value, r.scored
}

// Reason explains an Unscoreable result.
func (r Result) Reason() string {
	return r.reason
}

// Components lists the metrics that contributed to a Scored result.
func (r Result) Components() []Component {
	out := make([]Component, len(r.components))
	copy(out, r.components)
	return out
}

// Wire returns the score, or the -1 sentinel when unscoreable.
func (r Result) Wire() float64 {
	if !r.scored {
		return slate.Sentinel
	}
	return r.value
}
