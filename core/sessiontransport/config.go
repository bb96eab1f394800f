package sessiontransport

import (
	"github.com/hardenlab/csrfkit/core/session"
)

// CookieConfig provides environment-based configuration for cookie-based
// session transport.
type CookieConfig struct {
	// CookieName is the name of the session cookie.
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"__session"`
}

// DefaultCookieConfig returns a CookieConfig with sensible defaults.
func DefaultCookieConfig() CookieConfig {
	return CookieConfig{
		CookieName: "__session",
	}
}

// NewCookieFromConfig creates a cookie-based session transport from
// configuration. The session manager and cookie manager must be provided
// by the caller; the cookie manager is normally a *cookie.Manager.
func NewCookieFromConfig[Data any](cfg CookieConfig, mgr *session.Manager[Data], cookieMgr cookieManager) *Cookie[Data] {
	return NewCookie[Data](mgr, cookieMgr, cfg.CookieName)
}
