// Package csrf implements stateless issuance and verification of
// per-session request tokens that prove a state-changing request was
// authored by the application's own pages, not forged by another origin.
//
// # Model
//
// Each session owns a high-entropy secret that never leaves the server.
// Tokens are derived from that secret and handed to the client; on every
// non-safe request the submitted token is re-derived and compared. A
// cross-site attacker can make the victim's browser attach cookies, but
// cannot read the token embedded in a page or set a custom header
// cross-origin, so forged requests fail verification.
//
// Token layout: base64url(salt || issued_at) + "." + base64url(mac).
// The MAC key is expanded from the session secret with HKDF-SHA256 under
// a fixed label, and the MAC covers the session ID together with the
// payload, binding every token to exactly one session. The random salt
// makes each issued token unique without any server-side bookkeeping:
// verification needs only the session secret, never a token registry.
//
// Rotating the secret (session.RotateCSRFSecret, done automatically on
// authentication) invalidates every previously issued token at once.
// Independently of rotation, tokens older than the configured TTL are
// rejected with ErrTokenExpired.
//
// # Delivery surfaces
//
// The same token value travels either of two ways, checked in this order:
//
//   - a hidden form field (default "csrf_token") for plain HTML forms
//   - a request header (default "X-CSRF-Token") for fetch/XHR clients
//
// Either surface can be disabled; tokens arriving only through a
// disabled surface are rejected with ErrUnsupportedSurface.
//
// # Usage
//
//	guard, err := csrf.New(csrf.WithTokenTTL(30 * time.Minute))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// When rendering a form:
//	token, err := guard.Issue(sess.CSRFSecret, sess.ID)
//	// template: {{ .HiddenField }} -> guard.HiddenField(token)
//
//	// When handling a POST:
//	token, err := guard.TokenFromRequest(r)
//	if err == nil {
//		err = guard.Verify(sess.CSRFSecret, sess.ID, token)
//	}
//
// Most applications never call Issue or Verify directly; the middleware
// package wires the guard into the request lifecycle and exposes the
// token to handlers and templates.
//
// # Configuration
//
// Environment variables, loaded via the config package:
//
//	CSRF_TOKEN_TTL      - token lifetime (default: 1h, <=0 disables)
//	CSRF_FORM_FIELD     - hidden form field name (default: csrf_token)
//	CSRF_HEADER_NAME    - token header name (default: X-CSRF-Token)
//	CSRF_ACCEPT_FORM    - accept the form surface (default: true)
//	CSRF_ACCEPT_HEADER  - accept the header surface (default: true)
package csrf
