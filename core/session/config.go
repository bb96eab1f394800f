package session

import (
	"time"
)

// Config holds manager settings loadable from the environment.
type Config struct {
	// TTL is the idle timeout; each touched request pushes expiration
	// out by this much.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	// TouchInterval throttles how often activity extends a session,
	// keeping per-request store writes in check. Zero disables touch.
	TouchInterval time.Duration `env:"SESSION_TOUCH_INTERVAL" envDefault:"5m"`
}

func defaultConfig() *Config {
	return &Config{
		TTL:           7 * 24 * time.Hour,
		TouchInterval: 5 * time.Minute,
	}
}

// Option overrides a manager setting at construction.
type Option func(*Config)

// WithTTL sets the idle timeout.
func WithTTL(ttl time.Duration) Option {
	return func(c *Config) {
		c.TTL = ttl
	}
}

// WithTouchInterval sets the minimum spacing between activity updates.
// Zero disables auto-touch entirely.
func WithTouchInterval(interval time.Duration) Option {
	return func(c *Config) {
		c.TouchInterval = interval
	}
}
