package sessiontransport

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hardenlab/csrfkit/core/cookie"
	"github.com/hardenlab/csrfkit/core/handler"
	"github.com/hardenlab/csrfkit/core/session"
	"github.com/hardenlab/csrfkit/pkg/clientip"
	"github.com/hardenlab/csrfkit/pkg/fingerprint"
)

// cookieManager is the slice of cookie.Manager the transport relies on.
type cookieManager interface {
	GetSigned(r *http.Request, name string) (string, error)
	SetSigned(w http.ResponseWriter, name, value string, opts ...cookie.Option) error
	Delete(w http.ResponseWriter, name string)
}

// Cookie provides HTTP cookie-based session transport.
// It stores Session.Token as the cookie value (signed via cookie.Manager).
type Cookie[Data any] struct {
	manager   *session.Manager[Data]
	cookieMgr cookieManager
	name      string
}

// NewCookie creates a new cookie-based session transport. The cookie
// manager is normally a *cookie.Manager.
func NewCookie[Data any](mgr *session.Manager[Data], cookieMgr cookieManager, name string) *Cookie[Data] {
	return &Cookie[Data]{
		manager:   mgr,
		cookieMgr: cookieMgr,
		name:      name,
	}
}

// Load resolves the session referenced by the request cookie. A missing,
// tampered, or stale cookie degrades to a fresh anonymous session rather
// than an error: every request gets a session, and with it a place for
// the CSRF secret to live.
func (c *Cookie[Data]) Load(ctx handler.Context) (session.Session[Data], error) {
	token, err := c.cookieMgr.GetSigned(ctx.Request(), c.name)
	if err != nil {
		return c.newAnonymous(ctx)
	}

	sess, err := c.manager.GetByToken(ctx, token)
	if err != nil {
		return c.newAnonymous(ctx)
	}

	return sess, nil
}

func (c *Cookie[Data]) newAnonymous(ctx handler.Context) (session.Session[Data], error) {
	return c.manager.New(ctx, session.NewSessionParams{
		Fingerprint: fingerprint.Cookie(ctx.Request()),
		IP:          clientip.GetIP(ctx.Request()),
		UserAgent:   ctx.Request().Header.Get("User-Agent"),
	})
}

// Save writes the session token to the response as a signed cookie whose
// MaxAge mirrors the server-side expiration.
func (c *Cookie[Data]) Save(ctx handler.Context, sess session.Session[Data]) error {
	until := time.Until(sess.ExpiresAt)
	if until <= 0 {
		return fmt.Errorf("%w (expired %v ago)", ErrSessionExpired, -until)
	}

	return c.cookieMgr.SetSigned(ctx.ResponseWriter(), c.name, sess.Token,
		cookie.WithHTTPOnly(true),
		cookie.WithSecure(true),
		cookie.WithSameSite(http.SameSiteLaxMode),
		cookie.WithMaxAge(int(until.Seconds())),
	)
}

// Store persists the session after a request and keeps the cookie in
// sync. Deleted sessions clear the cookie instead of re-issuing it; this
// is the path a logged-out or invalidated session takes.
func (c *Cookie[Data]) Store(ctx handler.Context, sess session.Session[Data]) error {
	if err := c.manager.Store(ctx, sess); err != nil {
		if errors.Is(err, session.ErrNotAuthenticated) {
			c.cookieMgr.Delete(ctx.ResponseWriter(), c.name)
			return nil
		}
		return err
	}

	return c.Save(ctx, sess)
}

// Authenticate binds the current session to a user and re-issues the
// cookie. The session token and CSRF secret both rotate, so forms
// rendered before login must fetch a fresh token.
func (c *Cookie[Data]) Authenticate(ctx handler.Context, userID uuid.UUID) (session.Session[Data], error) {
	currentSess, err := c.Load(ctx)
	if err != nil {
		return session.Session[Data]{}, err
	}

	authSess, err := c.manager.Authenticate(ctx, currentSess, userID)
	if err != nil {
		return session.Session[Data]{}, err
	}

	if err := c.Save(ctx, authSess); err != nil {
		return session.Session[Data]{}, err
	}

	return authSess, nil
}

// Logout replaces the session with a fresh anonymous one and re-issues
// the cookie. Tokens derived from the old session die with it.
func (c *Cookie[Data]) Logout(ctx handler.Context) (session.Session[Data], error) {
	currentSess, err := c.Load(ctx)
	if err != nil {
		return session.Session[Data]{}, err
	}

	anonSess, err := c.manager.Logout(ctx, currentSess)
	if err != nil {
		return session.Session[Data]{}, err
	}

	if err := c.Save(ctx, anonSess); err != nil {
		return session.Session[Data]{}, err
	}

	return anonSess, nil
}

// Delete removes the session from the store and clears the cookie.
func (c *Cookie[Data]) Delete(ctx handler.Context) error {
	currentSess, err := c.Load(ctx)
	if err != nil {
		return err
	}

	if err := c.manager.Delete(ctx, currentSess.ID); err != nil {
		return err
	}

	c.cookieMgr.Delete(ctx.ResponseWriter(), c.name)

	return nil
}

// Touch re-reads the session, letting the manager apply its throttled
// sliding expiration, and refreshes the cookie only when the expiration
// actually moved. Useful for long-running handlers that want to extend
// the session outside the normal Store-on-completion flow.
func (c *Cookie[Data]) Touch(ctx handler.Context, sess session.Session[Data]) error {
	refreshed, err := c.manager.GetByID(ctx, sess.ID)
	if err != nil {
		return err
	}

	if refreshed.UpdatedAt.After(sess.UpdatedAt) {
		return c.Save(ctx, refreshed)
	}

	return nil
}
