package csrf

import "time"

// Config contains CSRF guard settings loaded from environment variables.
type Config struct {
	// TokenTTL bounds how long an issued token verifies. Zero or
	// negative disables the time bound; tokens then die only when the
	// session secret rotates or the session ends.
	TokenTTL time.Duration `env:"CSRF_TOKEN_TTL" envDefault:"1h"`
	// FormField is the hidden form field tokens are read from.
	FormField string `env:"CSRF_FORM_FIELD" envDefault:"csrf_token"`
	// HeaderName is the request header tokens are read from.
	HeaderName string `env:"CSRF_HEADER_NAME" envDefault:"X-CSRF-Token"`
	// AcceptForm enables the hidden form field delivery surface.
	AcceptForm bool `env:"CSRF_ACCEPT_FORM" envDefault:"true"`
	// AcceptHeader enables the request header delivery surface.
	AcceptHeader bool `env:"CSRF_ACCEPT_HEADER" envDefault:"true"`
}

// DefaultTokenTTL is the token lifetime used when none is configured.
const DefaultTokenTTL = time.Hour

const (
	// DefaultFormField is the standard hidden form field name.
	DefaultFormField = "csrf_token"
	// DefaultHeaderName is the standard token header name.
	DefaultHeaderName = "X-CSRF-Token"
)

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		TokenTTL:     DefaultTokenTTL,
		FormField:    DefaultFormField,
		HeaderName:   DefaultHeaderName,
		AcceptForm:   true,
		AcceptHeader: true,
	}
}

func defaultConfig() *Config {
	cfg := DefaultConfig()
	return &cfg
}

// NewFromConfig creates a Guard from the given configuration. Options
// are applied after the config and take precedence over it.
func NewFromConfig(cfg Config, opts ...Option) (*Guard, error) {
	for _, opt := range opts {
		opt(&cfg)
	}
	return newGuard(&cfg)
}
