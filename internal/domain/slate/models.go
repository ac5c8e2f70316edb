package slate

// Sentinel is the wire value for a game that could not be scored.
const Sentinel = -1.0

// TeamRef identifies a team as listed on a schedule entry.
type TeamRef struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	ShortName    string `json:"shortName,omitempty"`
	Abbreviation string `json:"abbreviation,omitempty"`
	LogoURL      string `json:"logo,omitempty"`
	Record       string `json:"record,omitempty"`
}

// Broadcast describes one carrier of a game, keyed by network short name.
type Broadcast struct {
	Market string `json:"market,omitempty"`
	Type   string `json:"type,omitempty"`
}

// PowerIndexes maps a metric category to its stats, e.g. bpi.bpi.
// A missing category means unknown, never zero.
type PowerIndexes map[string]map[string]float64

// Lookup returns the value for category.stat when present.
func (p PowerIndexes) Lookup(category, stat string) (float64, bool) {
	if p == nil {
		return 0, false
	}
	stats, ok := p[category]
	if !ok {
		return 0, false
	}
	v, ok := stats[stat]
	return v, ok
}

// MatchupQualities holds provider predictor stats for one side of a pairing.
// Any subset may be absent.
type MatchupQualities struct {
	MatchupQuality *float64 `json:"matchupquality,omitempty"`
	TeamPredWinPct *float64 `json:"teampredwinpct,omitempty"`
	TeamPredMov    *float64 `json:"teampredmov,omitempty"`
}

// GameTeam is one side of a unified game after all sources are merged.
type GameTeam struct {
	ID               string            `json:"id"`
	Name             string            `json:"name,omitempty"`
	ShortName        string            `json:"shortName,omitempty"`
	Abbreviation     string            `json:"abbreviation,omitempty"`
	LogoURL          string            `json:"logo,omitempty"`
	Record           string            `json:"record,omitempty"`
	Division         string            `json:"division,omitempty"`
	Conference       string            `json:"conference,omitempty"`
	PowerIndexes     PowerIndexes      `json:"powerIndexes,omitempty"`
	MatchupQualities *MatchupQualities `json:"matchupQualities,omitempty"`
}

// TeamProjection is the model's view of one side of a game.
type TeamProjection struct {
	Spread      float64 `json:"spread"`
	Points      float64 `json:"points"`
	Probability float64 `json:"probability"`
	Odds        float64 `json:"odds"`
}

// Projection is derived from offensive/defensive power indexes.
type Projection struct {
	Home TeamProjection `json:"home"`
	Away TeamProjection `json:"away"`
}

// UnifiedGame is one game with schedule, power-index and matchup data fused.
type UnifiedGame struct {
	GameID     string               `json:"gameId"`
	Sport      string               `json:"sport"`
	Date       string               `json:"date"`
	Link       string               `json:"link,omitempty"`
	Broadcasts map[string]Broadcast `json:"broadcasts,omitempty"`
	Home       GameTeam             `json:"home"`
	Away       GameTeam             `json:"away"`
	Projection *Projection          `json:"projection,omitempty"`
	SlateScore float64              `json:"slateScore"`
	Interest   string               `json:"interest,omitempty"`
}

// Float returns a pointer to v; handy for building MatchupQualities.
func Float(v float64) *float64 {
	return &v
}
