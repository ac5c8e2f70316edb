package config

const (
	envCacheBackend   = "CACHE_BACKEND"
	envCacheDir       = "CACHE_DIR"
	envCacheRetention = "CACHE_RETENTION_DAYS"
	envRedisURL       = "REDIS_URL"

	// CacheBackendFS stores one JSON file per (dataset, sport, date).
	CacheBackendFS = "fs"
	// CacheBackendRedis stores one key per (dataset, sport, date).
	CacheBackendRedis = "redis"

	defaultCacheDir       = "data"
	defaultCacheRetention = 30
)

// CacheConfig selects and configures the source cache backend.
type CacheConfig struct {
	Backend       string
	Dir           string
	RetentionDays int // fs only; 0 disables pruning
	RedisURL      string
}

func loadCache() CacheConfig {
	return CacheConfig{
		Backend:       envOrDefault(envCacheBackend, CacheBackendFS),
		Dir:           envOrDefault(envCacheDir, defaultCacheDir),
		RetentionDays: nonNegativeIntEnvOrDefault(envCacheRetention, defaultCacheRetention),
		RedisURL:      envOrDefault(envRedisURL, "redis://localhost:6379/0"),
	}
}
