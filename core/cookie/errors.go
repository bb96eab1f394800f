package cookie

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSecret indicates the manager was built without signing secrets.
	ErrNoSecret = errors.New("no secret provided for cookie manager")

	// ErrSecretTooShort indicates a signing secret under 32 characters,
	// the minimum for an HMAC-SHA256 key.
	ErrSecretTooShort = errors.New("secret must be at least 32 characters long")

	// ErrInvalidSignature indicates the cookie signature did not verify
	// against any configured secret. The value was tampered with, or it
	// was signed by a secret no longer in the rotation list.
	ErrInvalidSignature = errors.New("cookie signature verification failed")

	// ErrCookieNotFound indicates the request carries no cookie with the
	// requested name.
	ErrCookieNotFound = errors.New("cookie not found in request")

	// ErrInvalidFormat indicates a cookie value that does not decode as
	// the value|signature layout this package writes.
	ErrInvalidFormat = errors.New("invalid cookie format")
)

// ErrCookieTooLarge indicates the cookie exceeds the maximum allowed size.
type ErrCookieTooLarge struct {
	Name string
	Size int
	Max  int
}

// Error implements the error interface.
func (e ErrCookieTooLarge) Error() string {
	return fmt.Sprintf("cookie %q size %d exceeds maximum %d bytes", e.Name, e.Size, e.Max)
}
