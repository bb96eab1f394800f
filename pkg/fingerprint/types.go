package fingerprint

import "errors"

// options controls which request attributes feed the fingerprint.
type options struct {
	includeIP            bool
	includeUserAgent     bool
	includeAcceptHeaders bool
	includeHeaderSet     bool
}

// Option is a functional option for fingerprint generation.
type Option func(*options)

// WithIP includes the client IP address in the fingerprint. Expect
// false positives from mobile and VPN users; see Strict.
func WithIP() Option {
	return func(o *options) {
		o.includeIP = true
	}
}

// WithoutIP excludes the client IP. This is the default; the option
// exists for explicitness at call sites.
func WithoutIP() Option {
	return func(o *options) {
		o.includeIP = false
	}
}

// WithoutUserAgent excludes the User-Agent header.
func WithoutUserAgent() Option {
	return func(o *options) {
		o.includeUserAgent = false
	}
}

// WithoutAcceptHeaders excludes the Accept-* headers, which can shift
// with content negotiation or browser extensions.
func WithoutAcceptHeaders() Option {
	return func(o *options) {
		o.includeAcceptHeaders = false
	}
}

// WithoutHeaderSet excludes the header-presence component.
func WithoutHeaderSet() Option {
	return func(o *options) {
		o.includeHeaderSet = false
	}
}

func applyOptions(opts ...Option) *options {
	o := &options{
		includeUserAgent:     true,
		includeAcceptHeaders: true,
		includeHeaderSet:     true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

var (
	// ErrInvalidFingerprint indicates the stored value is not a
	// fingerprint in a format this package produces.
	ErrInvalidFingerprint = errors.New("invalid fingerprint format")

	// ErrMismatch indicates the request no longer matches the stored
	// fingerprint: either a hijacked session or a legitimately changed
	// client setup.
	ErrMismatch = errors.New("fingerprint mismatch")
)
