package config

import "time"

const (
	envESPNSiteURL     = "ESPN_SITE_URL"
	envESPNWebURL      = "ESPN_WEB_URL"
	envESPNTimeout     = "ESPN_TIMEOUT"
	envRateInterval    = "PROVIDER_RATE_INTERVAL"
	envRetryAttempts   = "PROVIDER_RETRY_ATTEMPTS"
	defaultESPNSite    = "https://site.api.espn.com"
	defaultESPNWeb     = "https://site.web.api.espn.com"
	defaultESPNTimeout = 15 * time.Second
	// One request per second keeps a cold multi-sport scrape well under upstream limits.
	defaultRateInterval  = time.Second
	defaultRetryAttempts = 3
)

// ESPNConfig controls how we talk to the ESPN site APIs.
type ESPNConfig struct {
	SiteURL       string
	WebURL        string
	Timeout       time.Duration
	RateInterval  time.Duration
	RetryAttempts int
}

func loadESPN() ESPNConfig {
	return ESPNConfig{
		SiteURL:       envOrDefault(envESPNSiteURL, defaultESPNSite),
		WebURL:        envOrDefault(envESPNWebURL, defaultESPNWeb),
		Timeout:       durationEnvOrDefault(envESPNTimeout, defaultESPNTimeout),
		RateInterval:  durationEnvOrDefault(envRateInterval, defaultRateInterval),
		RetryAttempts: intEnvOrDefault(envRetryAttempts, defaultRetryAttempts),
	}
}
