package resilience

import "time"

// Config bounds retries and breaker trips for artifact store and queue calls.
// Zero fields fall back to the store defaults.
type Config struct {
	RetryMaxAttempts    int
	RetryInitialBackoff time.Duration
	RetryMaxBackoff     time.Duration
	RetryMultiplier     float64

	BreakerEnabled          bool
	BreakerMinRequests      uint32
	BreakerFailureRatio     float64
	BreakerOpenTimeout      time.Duration
	BreakerHalfOpenMaxCalls uint32
}

// Artifacts are a few megabytes at most and saves are rare, so the store
// policy backs off longer than a request-path dependency would.
var storeDefaults = Config{
	RetryMaxAttempts:    3,
	RetryInitialBackoff: 200 * time.Millisecond,
	RetryMaxBackoff:     2 * time.Second,
	RetryMultiplier:     2.0,

	BreakerEnabled:          true,
	BreakerMinRequests:      5,
	BreakerFailureRatio:     0.6,
	BreakerOpenTimeout:      30 * time.Second,
	BreakerHalfOpenMaxCalls: 1,
}

func DefaultConfig() Config {
	return storeDefaults
}

// StoreConfig applies operator overrides on top of the store defaults.
// Non-positive attempts or timeout keep the default.
func StoreConfig(attempts int, breakerEnabled bool, openTimeout time.Duration) Config {
	cfg := DefaultConfig()
	cfg.RetryMaxAttempts = positiveOr(attempts, cfg.RetryMaxAttempts)
	cfg.BreakerEnabled = breakerEnabled
	cfg.BreakerOpenTimeout = positiveOr(openTimeout, cfg.BreakerOpenTimeout)
	return cfg
}

func (c Config) normalize() Config {
	def := storeDefaults
	c.RetryMaxAttempts = positiveOr(c.RetryMaxAttempts, def.RetryMaxAttempts)
	c.RetryInitialBackoff = positiveOr(c.RetryInitialBackoff, def.RetryInitialBackoff)
	c.RetryMaxBackoff = max(positiveOr(c.RetryMaxBackoff, def.RetryMaxBackoff), c.RetryInitialBackoff)
	if c.RetryMultiplier < 1 {
		c.RetryMultiplier = def.RetryMultiplier
	}

	c.BreakerMinRequests = positiveOr(c.BreakerMinRequests, def.BreakerMinRequests)
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1 {
		c.BreakerFailureRatio = def.BreakerFailureRatio
	}
	c.BreakerOpenTimeout = positiveOr(c.BreakerOpenTimeout, def.BreakerOpenTimeout)
	c.BreakerHalfOpenMaxCalls = positiveOr(c.BreakerHalfOpenMaxCalls, def.BreakerHalfOpenMaxCalls)
	return c
}

func positiveOr[T int | uint32 | time.Duration](v, fallback T) T {
	if v > 0 {
		return v
	}
	return fallback
}
