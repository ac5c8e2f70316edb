package slate

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// DatasetKind names one of the three upstream datasets.
type DatasetKind string

const (
	KindSchedule       DatasetKind = "schedule"
	KindPowerIndex     DatasetKind = "power-index"
	KindMatchupQuality DatasetKind = "matchup-quality"
)

// DatasetKinds lists every kind in fetch order.
var DatasetKinds = []DatasetKind{KindSchedule, KindPowerIndex, KindMatchupQuality}

// Valid reports whether k is a known dataset kind.
func (k DatasetKind) Valid() bool {
	switch k {
	case KindSchedule, KindPowerIndex, KindMatchupQuality:
		return true
	}
	return false
}

// Dataset is a canonical record set. The set of implementations is closed:
// ScheduleDataset, PowerIndexDataset and MatchupDataset.
type Dataset interface {
	Kind() DatasetKind
	Validate() error
	isDataset()
}

// ScheduleGame is one event from the schedule feed.
type ScheduleGame struct {
	GameID     string               `json:"gameId"`
	Date       string               `json:"date"`
	Link       string               `json:"link"`
	Broadcasts map[string]Broadcast `json:"broadcasts,omitempty"`
	Home       TeamRef              `json:"home"`
	Away       TeamRef              `json:"away"`
}

// ScheduleDataset maps game id to schedule entry.
type ScheduleDataset map[string]ScheduleGame

// PowerIndexTeam is one team from the power-index feed.
type PowerIndexTeam struct {
	ID           string       `json:"id"`
	Name         string       `json:"name,omitempty"`
	ShortName    string       `json:"shortName,omitempty"`
	Abbreviation string       `json:"abbreviation,omitempty"`
	LogoURL      string       `json:"logo,omitempty"`
	Division     string       `json:"division,omitempty"`
	Conference   string       `json:"conference,omitempty"`
	PowerIndexes PowerIndexes `json:"powerIndexes,omitempty"`
}

// PowerIndexDataset maps team id to power-index entry.
type PowerIndexDataset map[string]PowerIndexTeam

// MatchupTeam is one side of a matchup-quality event.
type MatchupTeam struct {
	ID               string            `json:"id"`
	Name             string            `json:"name,omitempty"`
	ShortName        string            `json:"shortName,omitempty"`
	Abbreviation     string            `json:"abbreviation,omitempty"`
	LogoURL          string            `json:"logo,omitempty"`
	MatchupQualities *MatchupQualities `json:"matchupQualities,omitempty"`
}

// MatchupGame is one event from the matchup-quality feed.
type MatchupGame struct {
	GameID     string               `json:"gameId"`
	Date       string               `json:"date"`
	Link       string               `json:"link"`
	Broadcasts map[string]Broadcast `json:"broadcasts,omitempty"`
	Home       MatchupTeam          `json:"home"`
	Away       MatchupTeam          `json:"away"`
}

// MatchupDataset maps game id to matchup entry.
type MatchupDataset map[string]MatchupGame

func (ScheduleDataset) Kind() DatasetKind   { return KindSchedule }
func (PowerIndexDataset) Kind() DatasetKind { return KindPowerIndex }
func (MatchupDataset) Kind() DatasetKind    { return KindMatchupQuality }

func (ScheduleDataset) isDataset()   {}
func (PowerIndexDataset) isDataset() {}
func (MatchupDataset) isDataset()    {}

// Validate checks identity fields and record invariants.
func (d ScheduleDataset) Validate() error {
	for _, id := range sortedKeys(d) {
		g := d[id]
		if g.GameID != id {
			return NewNormalizationError(KindSchedule, id, fmt.Sprintf("game id mismatch %q", g.GameID))
		}
		for _, side := range []struct {
			name string
			team TeamRef
		}{{"home", g.Home}, {"away", g.Away}} {
			team, path := side.team, id+"."+side.name
			if team.ID == "" {
				return NewNormalizationError(KindSchedule, path, "missing team id")
			}
			if _, err := ParseRecord(team.Record); err != nil {
				return NewNormalizationError(KindSchedule, path+".record", err.Error())
			}
		}
	}
	return nil
}

// Validate checks team ids and that every stat is finite.
func (d PowerIndexDataset) Validate() error {
	for _, id := range sortedKeys(d) {
		team := d[id]
		if team.ID != id {
			return NewNormalizationError(KindPowerIndex, id, fmt.Sprintf("team id mismatch %q", team.ID))
		}
		for _, category := range sortedKeys(team.PowerIndexes) {
			stats := team.PowerIndexes[category]
			for _, stat := range sortedKeys(stats) {
				v := stats[stat]
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return NewNormalizationError(KindPowerIndex, id+"."+category+"."+stat, "non-finite value")
				}
			}
		}
	}
	return nil
}

// Validate checks identity fields and that predictor stats are finite.
func (d MatchupDataset) Validate() error {
	for _, id := range sortedKeys(d) {
		g := d[id]
		if g.GameID != id {
			return NewNormalizationError(KindMatchupQuality, id, fmt.Sprintf("game id mismatch %q", g.GameID))
		}
		for _, side := range []struct {
			name string
			team MatchupTeam
		}{{"home", g.Home}, {"away", g.Away}} {
			team, path := side.team, id+"."+side.name
			if team.ID == "" {
				return NewNormalizationError(KindMatchupQuality, path, "missing team id")
			}
			if err := team.MatchupQualities.validate(); err != nil {
				return NewNormalizationError(KindMatchupQuality, path+".matchupQualities", err.Error())
			}
		}
	}
	return nil
}

func (m *MatchupQualities) validate() error {
	if m == nil {
		return nil
	}
	for _, f := range []struct {
		name string
		v    *float64
	}{
		{"matchupquality", m.MatchupQuality},
		{"teampredwinpct", m.TeamPredWinPct},
		{"teampredmov", m.TeamPredMov},
	} {
		name, v := f.name, f.v
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return fmt.Errorf("%s: non-finite value", name)
		}
	}
	return nil
}

// DecodeDataset decodes canonical JSON for kind and validates it.
func DecodeDataset(kind DatasetKind, data []byte) (Dataset, error) {
	var ds Dataset
	switch kind {
	case KindSchedule:
		var v ScheduleDataset
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		ds = v
	case KindPowerIndex:
		var v PowerIndexDataset
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		ds = v
	case KindMatchupQuality:
		var v MatchupDataset
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		ds = v
	default:
		return nil, fmt.Errorf("unknown dataset kind %q", kind)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// EncodeDataset renders a dataset as indented canonical JSON.
func EncodeDataset(ds Dataset) ([]byte, error) {
	if ds == nil {
		return nil, fmt.Errorf("encode dataset: nil")
	}
	return json.MarshalIndent(ds, "", "  ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
