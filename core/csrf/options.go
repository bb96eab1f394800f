package csrf

import "time"

// Option configures a Guard during construction.
type Option func(*Config)

// WithTokenTTL sets the token lifetime. Zero or negative disables
// expiry; tokens then remain valid for as long as the secret does.
func WithTokenTTL(ttl time.Duration) Option {
	return func(cfg *Config) {
		cfg.TokenTTL = ttl
	}
}

// WithFormField sets the hidden form field name tokens are read from.
func WithFormField(name string) Option {
	return func(cfg *Config) {
		cfg.FormField = name
	}
}

// WithHeaderName sets the request header name tokens are read from.
func WithHeaderName(name string) Option {
	return func(cfg *Config) {
		cfg.HeaderName = name
	}
}

// WithAcceptForm toggles the hidden form field delivery surface.
func WithAcceptForm(accept bool) Option {
	return func(cfg *Config) {
		cfg.AcceptForm = accept
	}
}

// WithAcceptHeader toggles the request header delivery surface.
func WithAcceptHeader(accept bool) Option {
	return func(cfg *Config) {
		cfg.AcceptHeader = accept
	}
}
