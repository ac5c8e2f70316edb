package espn

type teamInfo struct {
	ID               string `json:"id"`
	DisplayName      string `json:"displayName"`
	ShortDisplayName string `json:"shortDisplayName"`
	Abbreviation     string `json:"abbreviation"`
	Logo             string `json:"logo"`
	Logos            []struct {
		Href string `json:"href"`
	} `json:"logos"`
	Group *struct {
		ShortName string `json:"shortName"`
		Parent    *struct {
			ShortName string `json:"shortName"`
		} `json:"parent"`
	} `json:"group"`
}

type competitor struct {
	HomeAway string    `json:"homeAway"`
	Team     *teamInfo `json:"team"`
	Records  []struct {
		Type    string `json:"type"`
		Summary string `json:"summary"`
	} `json:"records"`
}

type link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

type geoBroadcast struct {
	Media *struct {
		ShortName string `json:"shortName"`
	} `json:"media"`
	Market *struct {
		Type string `json:"type"`
	} `json:"market"`
	Type *struct {
		ShortName string `json:"shortName"`
	} `json:"type"`
}

type teamPowerIndexes struct {
	ID    string `json:"id"`
	Stats []struct {
		Name  string   `json:"name"`
		Value *float64 `json:"value"`
	} `json:"stats"`
}

type competition struct {
	Competitors   []competitor       `json:"competitors"`
	Links         []link             `json:"links"`
	GeoBroadcasts []geoBroadcast     `json:"geoBroadcasts"`
	PowerIndexes  []teamPowerIndexes `json:"powerIndexes"`
}

type event struct {
	ID           string        `json:"id"`
	Date         string        `json:"date"`
	Links        []link        `json:"links"`
	Competitions []competition `json:"competitions"`
}

// scoreboardResponse is the schedule feed; dailyPowerIndexResponse shares its shape.
type scoreboardResponse struct {
	Events *[]event `json:"events"`
}

type powerIndexResponse struct {
	Categories *[]struct {
		Name  string   `json:"name"`
		Names []string `json:"names"`
	} `json:"categories"`
	Teams *[]struct {
		Team       *teamInfo `json:"team"`
		Categories []struct {
			Name   string     `json:"name"`
			Values []*float64 `json:"values"`
		} `json:"categories"`
	} `json:"teams"`
}
