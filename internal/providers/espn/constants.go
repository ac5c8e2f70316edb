package espn

import "time"

const (
	providerName       = "espn"
	defaultSiteURL     = "https://site.api.espn.com"
	defaultWebURL      = "https://site.web.api.espn.com"
	defaultHTTPTimeout = 15 * time.Second
	defaultLimit       = "1000"
	userAgent          = "slate-scores-service/1.0"

	schedulePath       = "/apis/site/v2/sports/%s/scoreboard"
	powerIndexPath     = "/apis/fitt/v3/sports/%s/powerindex"
	matchupQualityPath = "/apis/site/v2/sports/%s/dailypowerindex"

	recordTypeTotal = "total"
	linkGamecast    = "Gamecast"

	statMatchupQuality = "matchupquality"
	statTeamPredWinPct = "teampredwinpct"
	statTeamPredMov    = "teampredmov"
)
