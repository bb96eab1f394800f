package csrf

import (
	"errors"
	"fmt"
)

var (
	// ErrTokenMissing indicates the request carried no token on any
	// accepted delivery surface.
	ErrTokenMissing = errors.New("csrf token missing")

	// ErrInvalidToken indicates the token failed verification against
	// the session secret. It also covers sessions without a secret:
	// until one is issued, no token can be valid.
	ErrInvalidToken = errors.New("invalid csrf token")

	// ErrTokenExpired indicates an authentic token that outlived the
	// token TTL. It matches ErrInvalidToken under errors.Is, so callers
	// that do not care about the distinction can treat both alike.
	ErrTokenExpired = fmt.Errorf("csrf token expired: %w", ErrInvalidToken)

	// ErrNoSession indicates token verification was requested for a
	// request with no session to bind the token to.
	ErrNoSession = errors.New("no session for csrf verification")

	// ErrUnsupportedSurface indicates a token arrived only through a
	// delivery surface the guard is configured to reject.
	ErrUnsupportedSurface = errors.New("csrf token delivery surface not accepted")

	// ErrNoSecret indicates token issuance was attempted with an empty
	// session secret.
	ErrNoSecret = errors.New("csrf secret is empty")

	// ErrNoDeliverySurface indicates the guard was configured with both
	// delivery surfaces disabled, leaving no way to submit a token.
	ErrNoDeliverySurface = errors.New("at least one csrf delivery surface must be accepted")

	// ErrMissingSurfaceName indicates an empty form field or header name.
	ErrMissingSurfaceName = errors.New("csrf form field and header names must not be empty")
)
