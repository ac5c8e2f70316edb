package config

import "time"

const (
	envPort          = "PORT"
	envPollInterval  = "POLL_INTERVAL"
	envPollDaysAhead = "POLL_DAYS_AHEAD"
	envTimezone      = "TIMEZONE"
	envProvider      = "PROVIDER"
	envSportsConfig  = "SPORTS_CONFIG"
	envAdminToken    = "ADMIN_TOKEN"
	envCORSOrigins   = "CORS_ORIGINS"
	envMetricsPort   = "METRICS_PORT"
	envMetricsOn     = "METRICS_ENABLED"
	envOtelEndpoint  = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService   = "OTEL_SERVICE_NAME"
	envOtelInsecure  = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort = "3000"
	// Slate data is published once per day; polling more often only re-reads the cache.
	defaultPollInterval  = 15 * Duration(time.Minute)
	defaultPollDaysAhead = 1
	// Provider dates follow US Eastern time.
	defaultTimezone    = "America/New_York"
	defaultProvider    = "fixture"
	defaultMetricsPort = "9090"
	defaultServiceName = "slate-scores-service"
)
