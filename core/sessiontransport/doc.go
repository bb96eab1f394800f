// Package sessiontransport binds the transport-agnostic core/session
// package to HTTP cookies.
//
// The transport stores Session.Token as a signed cookie value
// (cookie.Manager handles signing and verification), keeps the cookie's
// MaxAge synchronized with the server-side expiration, and extracts
// client metadata when minting new sessions.
//
// # Graceful degradation
//
// Load never fails a request for lack of a valid cookie: missing,
// tampered, and stale cookies all degrade to a fresh anonymous session.
// This matters for CSRF protection, which needs a session to anchor the
// secret before the user ever authenticates - the first GET that renders
// a form must already own a session.
//
// # Client metadata
//
// New sessions record three request-derived attributes:
//   - IP address via clientip.GetIP (proxy-header aware)
//   - User-Agent from the request header
//   - device fingerprint via fingerprint.Cookie
//
// All three survive Authenticate and Logout, which replace the token and
// CSRF secret but keep the client identity.
//
// # Usage
//
//	store := memory.New[SessionData]()
//	sessionMgr, _ := session.NewManager[SessionData](store)
//	cookieMgr, _ := cookie.New([]string{os.Getenv("COOKIE_SECRET")})
//	transport := sessiontransport.NewCookie(sessionMgr, cookieMgr, "__session")
//
//	// In middleware:
//	sess, err := transport.Load(ctx)   // anonymous session if no cookie
//	defer transport.Store(ctx, sess)   // persist + re-issue cookie
//
//	// On login:
//	sess, err = transport.Authenticate(ctx, userID)
//
//	// On logout:
//	sess, err = transport.Logout(ctx)
//
// # Rotation
//
// Authenticate and Logout both rotate Session.Token (the cookie value)
// and the session's CSRF secret, closing session fixation and leaving no
// pre-privilege-change token valid. Store clears the cookie when the
// session was deleted during the request.
package sessiontransport
