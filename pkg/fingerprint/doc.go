// Package fingerprint derives device fingerprints from HTTP requests
// for session validation.
//
// A fingerprint is a version-prefixed hash ("v1:<32 hex chars>") over
// stable client characteristics: User-Agent, Accept-* headers, and the
// set of common browser headers present on the request. The session
// layer stores one per session and can compare it on later requests to
// notice when a session token surfaces from a completely different
// client.
//
// Basic usage:
//
//	// When creating a session:
//	fp := fingerprint.Cookie(r)
//
//	// On later requests:
//	if err := fingerprint.ValidateCookie(r, sess.Fingerprint); err != nil {
//		// Possible session hijacking; re-authenticate.
//	}
//
// # Limitations
//
// Fingerprints are a tripwire, not an identity proof: browser updates
// change User-Agent strings, privacy tooling strips headers, and shared
// device images collide. Treat a mismatch as a signal to step up
// verification rather than to terminate the session outright, and keep
// the real protection in the session token and CSRF checks.
package fingerprint
