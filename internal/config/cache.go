package config

import "time"

// CacheConfig controls the Redis-backed catalog cache.  When Enabled is
// false or no Redis client could be constructed, handlers read straight
// from the database.  TTL bounds how stale a cached catalog listing can
// get; the catalog is read-only from this service's perspective so there
// is no invalidation beyond expiry.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		TTL:     envDur("CACHE_TTL", 60*time.Second),
		Prefix:  envStr("CACHE_PREFIX", "catalog"),
	}
}
