package config

import "time"

// RateLimitConfig controls the Redis token-bucket limiter applied to
// the reservation endpoints.  Holds are cheap to place and expensive to
// squat on, so the limiter is the first defence against a client
// spamming hold requests.
type RateLimitConfig struct {
	Enabled        bool          // master switch
	Capacity       int           // bucket size (burst allowance)
	RefillTokens   int           // tokens added per refill interval
	RefillInterval time.Duration // how often the bucket refills
	TTL            time.Duration // how long idle buckets live in Redis
	KeyStrategy    string        // which request attributes form the bucket key
	Prefix         string        // Redis key namespace
	Debug          bool          // emit limiter diagnostics
}

// LoadRateLimitConfig reads RATE_LIMIT_* environment variables, falling
// back to defaults that allow a burst of 60 requests refilled at one
// per second.  The TTL is clamped so buckets outlive at least five
// refill intervals.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Capacity:       envInt("RATE_LIMIT_CAPACITY", 60),
		RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
		TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:    envStr("RATE_LIMIT_KEY_STRATEGY", "ip_user_route"),
		Prefix:         envStr("RATE_LIMIT_PREFIX", "rl"),
		Debug:          envBool("RATE_LIMIT_DEBUG", false),
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
		cfg.TTL = minTTL
	}
	return cfg
}
