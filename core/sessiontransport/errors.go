package sessiontransport

import "errors"

// ErrSessionExpired is returned when a session whose expiration has
// already passed is written to the transport.
var ErrSessionExpired = errors.New("sessiontransport: session expired")
