package metrics

import (
	"sync"
	"time"
)

type providerStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	lastRetryAfter  time.Duration
	lastCallLatency time.Duration
}

type cacheStats struct {
	hits        int
	misses      int
	writes      int
	writeErrors int
}

type scoreStats struct {
	scored      int
	unscoreable int
}

// Recorder captures lightweight, in-memory metrics and mirrors them to
// OpenTelemetry instruments when configured.
type Recorder struct {
	mu     sync.Mutex
	stats  map[string]*providerStats
	caches map[string]*cacheStats
	scores map[string]*scoreStats
	otel   *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats:  make(map[string]*providerStats),
		caches: make(map[string]*cacheStats),
		scores: make(map[string]*scoreStats),
		otel:   otel,
	}
}

// RecordProviderAttempt counts one upstream fetch for a dataset and stores the last observed latency.
func (r *Recorder) RecordProviderAttempt(provider, dataset string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.providerStats(provider)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordProviderAttempt(provider, dataset, duration, err)
	}
}

// RecordRateLimit tracks that a provider response hit a rate limit and stores the last Retry-After.
func (r *Recorder) RecordRateLimit(provider string, retryAfter time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.providerStats(provider)
	stats.rateLimitHits++
	if retryAfter > 0 {
		stats.lastRetryAfter = retryAfter
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRateLimit(provider, retryAfter)
	}
}

// RecordCacheLookup counts a hit or miss for a dataset.
func (r *Recorder) RecordCacheLookup(dataset string, hit bool) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.cacheStats(dataset)
	if hit {
		stats.hits++
	} else {
		stats.misses++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCacheLookup(dataset, hit)
	}
}

// RecordCacheWrite counts a store for a dataset.
func (r *Recorder) RecordCacheWrite(dataset string, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.cacheStats(dataset)
	stats.writes++
	if err != nil {
		stats.writeErrors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCacheWrite(dataset, err)
	}
}

// RecordScores counts games scored and left unscoreable for a sport.
func (r *Recorder) RecordScores(sport string, scored, unscoreable int) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats, ok := r.scores[sport]
	if !ok {
		stats = &scoreStats{}
		r.scores[sport] = stats
	}
	stats.scored += scored
	stats.unscoreable += unscoreable
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordScores(sport, scored, unscoreable)
	}
}

// ProviderCalls returns the total attempts recorded for a provider.
func (r *Recorder) ProviderCalls(provider string) int {
	return r.Snapshot(provider).Calls
}

// ProviderErrors returns the total failed attempts recorded for a provider.
func (r *Recorder) ProviderErrors(provider string) int {
	return r.Snapshot(provider).Errors
}

// RateLimitHits returns the number of rate limit events seen for a provider.
func (r *Recorder) RateLimitHits(provider string) int {
	return r.Snapshot(provider).RateLimitHits
}

// LastRetryAfter returns the most recent Retry-After recorded for a provider.
func (r *Recorder) LastRetryAfter(provider string) time.Duration {
	return r.Snapshot(provider).LastRetryAfter
}

// LastCallLatency returns the last recorded latency for a provider call.
func (r *Recorder) LastCallLatency(provider string) time.Duration {
	return r.Snapshot(provider).LastCallLatency
}

// Snapshot returns a copy of the current stats for the provider.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(provider string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.stats[provider]
	if !ok {
		return Snapshot{}
	}
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		RateLimitHits:   stats.rateLimitHits,
		LastRetryAfter:  stats.lastRetryAfter,
		LastCallLatency: stats.lastCallLatency,
	}
}

// CacheSnapshot is a copy of cache counters for one dataset.
type CacheSnapshot struct {
	Hits        int
	Misses      int
	Writes      int
	WriteErrors int
}

// Cache returns the cache counters for dataset.
func (r *Recorder) Cache(dataset string) CacheSnapshot {
	if r == nil {
		return CacheSnapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.caches[dataset]
	if !ok {
		return CacheSnapshot{}
	}
	return CacheSnapshot{Hits: stats.hits, Misses: stats.misses, Writes: stats.writes, WriteErrors: stats.writeErrors}
}

// Scores returns how many games were scored and left unscoreable for sport.
func (r *Recorder) Scores(sport string) (scored, unscoreable int) {
	if r == nil {
		return 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if stats, ok := r.scores[sport]; ok {
		return stats.scored, stats.unscoreable
	}
	return 0, 0
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordPollerCycle tracks poller cycles and errors.
func (r *Recorder) RecordPollerCycle(duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordPoller(duration, err)
}

// providerStats and cacheStats expect r.mu to be held.
func (r *Recorder) providerStats(provider string) *providerStats {
	stats, ok := r.stats[provider]
	if !ok {
		stats = &providerStats{}
		r.stats[provider] = stats
	}
	return stats
}

func (r *Recorder) cacheStats(dataset string) *cacheStats {
	stats, ok := r.caches[dataset]
	if !ok {
		stats = &cacheStats{}
		r.caches[dataset] = stats
	}
	return stats
}
