package config

import "time"

// CacheConfig controls the Redis response cache on the public event
// listing. Caching is disabled when Enabled is false or no Redis client
// is available. Only successful GET responses up to MaxBodyBytes are
// stored.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads the cache settings with short-TTL defaults; the
// event listing tolerates 30 seconds of staleness, reserved-seat reads
// never go through the cache.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "events-cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
