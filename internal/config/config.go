package config

// Config holds runtime configuration for the server.
type Config struct {
	Port          string
	PollInterval  Duration
	PollDaysAhead int
	Timezone      string
	Provider      string
	SportsFile    string
	AdminToken    string
	CORSOrigins   []string
	ESPN          ESPNConfig
	Cache         CacheConfig
	Metrics       MetricsConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:          envOrDefault(envPort, defaultPort),
		PollInterval:  durationEnvOrDefault(envPollInterval, defaultPollInterval),
		PollDaysAhead: nonNegativeIntEnvOrDefault(envPollDaysAhead, defaultPollDaysAhead),
		Timezone:      envOrDefault(envTimezone, defaultTimezone),
		Provider:      envOrDefault(envProvider, defaultProvider),
		SportsFile:    envOrDefault(envSportsConfig, ""),
		AdminToken:    envOrDefault(envAdminToken, ""),
		CORSOrigins:   listEnvOrDefault(envCORSOrigins, []string{"*"}),
		ESPN:          loadESPN(),
		Cache:         loadCache(),
		Metrics:       loadMetrics(),
	}
}
