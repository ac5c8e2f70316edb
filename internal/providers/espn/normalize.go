package espn

import (
	"encoding/json"
	"fmt"

	"github.com/preston-bernstein/slate-scores-service/internal/domain/slate"
)

// Normalize dispatches raw to the normalizer for kind.
func Normalize(kind slate.DatasetKind, raw []byte) (slate.Dataset, error) {
	switch kind {
	case slate.KindSchedule:
		return NormalizeSchedule(raw)
	case slate.KindPowerIndex:
		return NormalizePowerIndex(raw)
	case slate.KindMatchupQuality:
		return NormalizeMatchupQuality(raw)
	}
	return nil, fmt.Errorf("unknown dataset kind %q", kind)
}

// NormalizeSchedule maps a scoreboard payload to game id -> schedule entry.
// Every event needs both teams with a total record and a Gamecast link.
func NormalizeSchedule(raw []byte) (slate.ScheduleDataset, error) {
	const kind = slate.KindSchedule
	var payload scoreboardResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, slate.NewNormalizationError(kind, "", err.Error())
	}
	if payload.Events == nil {
		return nil, slate.NewNormalizationError(kind, "events", "missing")
	}

	out := make(slate.ScheduleDataset, len(*payload.Events))
	for i, ev := range *payload.Events {
		path := fmt.Sprintf("events[%d]", i)
		comp, err := eventBasics(kind, path, ev, out)
		if err != nil {
			return nil, err
		}
		g := slate.ScheduleGame{GameID: ev.ID, Date: ev.Date}

		if g.Link, err = gamecastLink(kind, path+".links", ev.Links); err != nil {
			return nil, err
		}
		if g.Broadcasts, err = broadcasts(kind, path+".competitions[0].geoBroadcasts", comp.GeoBroadcasts); err != nil {
			return nil, err
		}
		sides, err := sidesOf(kind, path+".competitions[0].competitors", comp.Competitors)
		if err != nil {
			return nil, err
		}
		for side, c := range sides {
			ref, err := scheduleTeam(kind, fmt.Sprintf("%s.%s", path, side), c)
			if err != nil {
				return nil, err
			}
			if side == "home" {
				g.Home = ref
			} else {
				g.Away = ref
			}
		}
		out[ev.ID] = g
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// NormalizePowerIndex flattens each team's category value arrays against the
// top-level category name arrays into {category: {stat: value}}.
func NormalizePowerIndex(raw []byte) (slate.PowerIndexDataset, error) {
	const kind = slate.KindPowerIndex
	var payload powerIndexResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, slate.NewNormalizationError(kind, "", err.Error())
	}
	if payload.Categories == nil {
		return nil, slate.NewNormalizationError(kind, "categories", "missing")
	}
	if payload.Teams == nil {
		return nil, slate.NewNormalizationError(kind, "teams", "missing")
	}

	names := make(map[string][]string, len(*payload.Categories))
	for _, cat := range *payload.Categories {
		names[cat.Name] = cat.Names
	}

	out := make(slate.PowerIndexDataset, len(*payload.Teams))
	for i, entry := range *payload.Teams {
		path := fmt.Sprintf("teams[%d]", i)
		team := entry.Team
		if team == nil || team.ID == "" {
			return nil, slate.NewNormalizationError(kind, path+".team.id", "missing")
		}
		if _, dup := out[team.ID]; dup {
			return nil, slate.NewNormalizationError(kind, path, fmt.Sprintf("duplicate team id %q", team.ID))
		}
		if len(team.Logos) == 0 {
			return nil, slate.NewNormalizationError(kind, path+".team.logos", "missing")
		}
		if team.Group == nil || team.Group.Parent == nil {
			return nil, slate.NewNormalizationError(kind, path+".team.group", "missing division or conference")
		}

		indexes := make(slate.PowerIndexes, len(entry.Categories))
		for j, cat := range entry.Categories {
			catPath := fmt.Sprintf("%s.categories[%d]", path, j)
			statNames, ok := names[cat.Name]
			if !ok {
				return nil, slate.NewNormalizationError(kind, catPath, fmt.Sprintf("unknown category %q", cat.Name))
			}
			if len(statNames) != len(cat.Values) {
				return nil, slate.NewNormalizationError(kind, catPath,
					fmt.Sprintf("%d names for %d values", len(statNames), len(cat.Values)))
			}
			stats := make(map[string]float64, len(statNames))
			for k, name := range statNames {
				// Null means unknown; leave the stat absent rather than zero.
				if cat.Values[k] != nil {
					stats[name] = *cat.Values[k]
				}
			}
			indexes[cat.Name] = stats
		}

		out[team.ID] = slate.PowerIndexTeam{
			ID:           team.ID,
			Name:         team.DisplayName,
			ShortName:    team.ShortDisplayName,
			Abbreviation: team.Abbreviation,
			LogoURL:      team.Logos[0].Href,
			Division:     team.Group.ShortName,
			Conference:   team.Group.Parent.ShortName,
			PowerIndexes: indexes,
		}
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// NormalizeMatchupQuality maps a daily power index payload to game id ->
// matchup entry, attaching each team's predictor stats to its side.
func NormalizeMatchupQuality(raw []byte) (slate.MatchupDataset, error) {
	const kind = slate.KindMatchupQuality
	var payload scoreboardResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, slate.NewNormalizationError(kind, "", err.Error())
	}
	if payload.Events == nil {
		return nil, slate.NewNormalizationError(kind, "events", "missing")
	}

	out := make(slate.MatchupDataset, len(*payload.Events))
	for i, ev := range *payload.Events {
		path := fmt.Sprintf("events[%d]", i)
		comp, err := eventBasics(kind, path, ev, out)
		if err != nil {
			return nil, err
		}
		g := slate.MatchupGame{GameID: ev.ID, Date: ev.Date}

		if g.Link, err = gamecastLink(kind, path+".competitions[0].links", comp.Links); err != nil {
			return nil, err
		}
		if g.Broadcasts, err = broadcasts(kind, path+".competitions[0].geoBroadcasts", comp.GeoBroadcasts); err != nil {
			return nil, err
		}

		qualities := make(map[string]*slate.MatchupQualities, len(comp.PowerIndexes))
		for _, pi := range comp.PowerIndexes {
			qualities[pi.ID] = matchupQualities(pi)
		}

		sides, err := sidesOf(kind, path+".competitions[0].competitors", comp.Competitors)
		if err != nil {
			return nil, err
		}
		for side, c := range sides {
			team := slate.MatchupTeam{
				ID:               c.Team.ID,
				Name:             c.Team.DisplayName,
				ShortName:        c.Team.ShortDisplayName,
				Abbreviation:     c.Team.Abbreviation,
				MatchupQualities: qualities[c.Team.ID],
			}
			if len(c.Team.Logos) > 0 {
				team.LogoURL = c.Team.Logos[0].Href
			}
			if side == "home" {
				g.Home = team
			} else {
				g.Away = team
			}
		}
		out[ev.ID] = g
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func eventBasics[V any](kind slate.DatasetKind, path string, ev event, seen map[string]V) (competition, error) {
	if ev.ID == "" {
		return competition{}, slate.NewNormalizationError(kind, path+".id", "missing")
	}
	if _, dup := seen[ev.ID]; dup {
		return competition{}, slate.NewNormalizationError(kind, path, fmt.Sprintf("duplicate game id %q", ev.ID))
	}
	if ev.Date == "" {
		return competition{}, slate.NewNormalizationError(kind, path+".date", "missing")
	}
	if len(ev.Competitions) == 0 {
		return competition{}, slate.NewNormalizationError(kind, path+".competitions", "missing")
	}
	return ev.Competitions[0], nil
}

// sidesOf indexes competitors by home/away; both must be present with a team id.
func sidesOf(kind slate.DatasetKind, path string, competitors []competitor) (map[string]competitor, error) {
	sides := make(map[string]competitor, 2)
	for i, c := range competitors {
		if c.HomeAway != "home" && c.HomeAway != "away" {
			return nil, slate.NewNormalizationError(kind, fmt.Sprintf("%s[%d].homeAway", path, i), fmt.Sprintf("unexpected %q", c.HomeAway))
		}
		if c.Team == nil || c.Team.ID == "" {
			return nil, slate.NewNormalizationError(kind, fmt.Sprintf("%s[%d].team.id", path, i), "missing")
		}
		if _, dup := sides[c.HomeAway]; dup {
			return nil, slate.NewNormalizationError(kind, path, "duplicate "+c.HomeAway+" competitor")
		}
		sides[c.HomeAway] = c
	}
	for _, side := range []string{"home", "away"} {
		if _, ok := sides[side]; !ok {
			return nil, slate.NewNormalizationError(kind, path, "missing "+side+" competitor")
		}
	}
	return sides, nil
}

func scheduleTeam(kind slate.DatasetKind, path string, c competitor) (slate.TeamRef, error) {
	record := ""
	found := false
	for _, r := range c.Records {
		if r.Type == recordTypeTotal {
			record, found = r.Summary, true
			break
		}
	}
	if !found {
		return slate.TeamRef{}, slate.NewNormalizationError(kind, path+".records", "no total record")
	}
	return slate.TeamRef{
		ID:           c.Team.ID,
		Name:         c.Team.DisplayName,
		ShortName:    c.Team.ShortDisplayName,
		Abbreviation: c.Team.Abbreviation,
		LogoURL:      c.Team.Logo,
		Record:       record,
	}, nil
}

func gamecastLink(kind slate.DatasetKind, path string, links []link) (string, error) {
	for _, l := range links {
		if l.Text == linkGamecast && l.Href != "" {
			return l.Href, nil
		}
	}
	return "", slate.NewNormalizationError(kind, path, "no Gamecast link")
}

func broadcasts(kind slate.DatasetKind, path string, geo []geoBroadcast) (map[string]slate.Broadcast, error) {
	if len(geo) == 0 {
		return nil, nil
	}
	out := make(map[string]slate.Broadcast, len(geo))
	for i, b := range geo {
		if b.Media == nil || b.Media.ShortName == "" {
			return nil, slate.NewNormalizationError(kind, fmt.Sprintf("%s[%d].media.shortName", path, i), "missing")
		}
		if b.Market == nil || b.Type == nil {
			return nil, slate.NewNormalizationError(kind, fmt.Sprintf("%s[%d]", path, i), "missing market or type")
		}
		out[b.Media.ShortName] = slate.Broadcast{Market: b.Market.Type, Type: b.Type.ShortName}
	}
	return out, nil
}

func matchupQualities(pi teamPowerIndexes) *slate.MatchupQualities {
	var q slate.MatchupQualities
	found := false
	for _, stat := range pi.Stats {
		if stat.Value == nil {
			continue
		}
		v := *stat.Value
		switch stat.Name {
		case statMatchupQuality:
			q.MatchupQuality, found = &v, true
		case statTeamPredWinPct:
			q.TeamPredWinPct, found = &v, true
		case statTeamPredMov:
			q.TeamPredMov, found = &v, true
		}
	}
	if !found {
		return nil
	}
	return &q
}
