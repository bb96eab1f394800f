package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"sort"
	"strings"

	"github.com/hardenlab/csrfkit/pkg/clientip"
)

const (
	version = "v1:"
	// hashLen truncates SHA-256 to 128 bits, plenty for device
	// correlation at half the storage.
	hashLen = 16
	// totalLen is len(version) plus the hex encoding of the hash.
	totalLen = 35
)

// Generate builds a device fingerprint from request attributes and
// returns it as a version-prefixed string ("v1:<hex>").
//
// The default mix covers User-Agent, the Accept-* headers, and the set
// of stable headers present on the request. The client IP stays out
// unless WithIP is given: mobile networks and VPNs rotate addresses too
// aggressively for it to be a stable signal.
func Generate(r *http.Request, opts ...Option) string {
	o := applyOptions(opts...)

	var parts []string

	if o.includeUserAgent {
		parts = append(parts, r.UserAgent())
	}
	if o.includeAcceptHeaders {
		parts = append(parts,
			r.Header.Get("Accept-Language"),
			r.Header.Get("Accept-Encoding"),
			r.Header.Get("Accept"),
		)
	}
	if o.includeIP {
		parts = append(parts, clientip.GetIP(r))
	}
	if o.includeHeaderSet {
		parts = append(parts, presentHeaders(r))
	}

	// Drop empty components so a missing header and a disabled option
	// hash the same way.
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			filtered = append(filtered, part)
		}
	}

	// Pipe delimiter keeps ["ab","c"] and ["a","bc"] from colliding.
	hash := sha256.Sum256([]byte(strings.Join(filtered, "|")))

	return version + hex.EncodeToString(hash[:hashLen])
}

// Validate compares the current request against a stored fingerprint.
// It returns nil on match, ErrMismatch on a clean miss, and
// ErrInvalidFingerprint when the stored value is not a fingerprint at
// all. Pass the same options that produced the stored value.
func Validate(r *http.Request, stored string, opts ...Option) error {
	if !strings.HasPrefix(stored, version) || len(stored) != totalLen {
		return ErrInvalidFingerprint
	}

	if Generate(r, opts...) == stored {
		return nil
	}

	return ErrMismatch
}

// Cookie generates the fingerprint stored alongside cookie sessions.
// It uses the defaults (no IP), which tolerate network changes while
// still flagging a wholesale device swap.
func Cookie(r *http.Request) string {
	return Generate(r)
}

// ValidateCookie validates a fingerprint generated with Cookie.
func ValidateCookie(r *http.Request, stored string) error {
	return Validate(r, stored)
}

// Strict generates a fingerprint that also pins the client IP. Sessions
// validated this way break whenever the address changes, so reserve it
// for flows that can re-authenticate gracefully.
func Strict(r *http.Request) string {
	return Generate(r, WithIP())
}

// ValidateStrict validates a fingerprint generated with Strict.
func ValidateStrict(r *http.Request, stored string) error {
	return Validate(r, stored, WithIP())
}

// presentHeaders fingerprints which stable browser headers exist on the
// request, ignoring their values. Browsers differ in the header sets
// they send (Sec-Fetch-* on Chrome, minimal sets from API clients), so
// presence alone carries signal without the churn of raw values.
func presentHeaders(r *http.Request) string {
	var names []string
	for name := range r.Header {
		switch strings.ToLower(name) {
		case "user-agent", "accept", "accept-language", "accept-encoding",
			"connection", "upgrade-insecure-requests", "sec-fetch-dest",
			"sec-fetch-mode", "sec-fetch-site", "cache-control":
			names = append(names, strings.ToLower(name))
		}
	}

	sort.Strings(names)
	return strings.Join(names, ",")
}
