package csrf

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

const (
	// SecretLength is the size of a per-session CSRF secret in bytes.
	SecretLength = 32
	// saltLength is the size of the random salt embedded in each token.
	saltLength = 16
	// tokenKeyInfo domain-separates the token MAC key from any other use
	// of the session secret.
	tokenKeyInfo = "csrfkit/token/v1"
)

// timeNow is stubbed in tests to age tokens without sleeping.
var timeNow = time.Now

// Guard issues and verifies request tokens derived from a per-session
// secret. The guard itself is stateless: the secret lives in the session
// record, and every token carries the material needed to re-derive its
// MAC. Two tokens for the same secret never share bytes thanks to the
// per-token salt, but all of them verify until the secret rotates.
type Guard struct {
	ttl          time.Duration
	formField    string
	headerName   string
	acceptForm   bool
	acceptHeader bool
}

// New creates a Guard with the given options applied over the defaults:
// one-hour token lifetime, "csrf_token" form field, "X-CSRF-Token" header,
// both delivery surfaces accepted.
func New(opts ...Option) (*Guard, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return newGuard(cfg)
}

func newGuard(cfg *Config) (*Guard, error) {
	if cfg.FormField == "" || cfg.HeaderName == "" {
		return nil, ErrMissingSurfaceName
	}
	if !cfg.AcceptForm && !cfg.AcceptHeader {
		return nil, ErrNoDeliverySurface
	}

	return &Guard{
		ttl:          cfg.TokenTTL,
		formField:    cfg.FormField,
		headerName:   cfg.HeaderName,
		acceptForm:   cfg.AcceptForm,
		acceptHeader: cfg.AcceptHeader,
	}, nil
}

// NewSecret generates a high-entropy per-session secret.
// Sessions normally call this through session.EnsureCSRFSecret; it is
// exported for guards used outside the session stack.
func NewSecret() ([]byte, error) {
	b := make([]byte, SecretLength)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Issue creates a token bound to the secret and session identity.
//
// The token is payload.mac in base64url, where payload is a random
// 16-byte salt followed by the issue time (unix seconds, big endian),
// and mac authenticates the session ID together with the payload. The
// salt makes every issued token distinct, so a token leaked from one
// response cannot be correlated with another, while all tokens derived
// from the current secret stay valid until it rotates.
func (g *Guard) Issue(secret []byte, sessionID uuid.UUID) (string, error) {
	if len(secret) == 0 {
		return "", ErrNoSecret
	}

	payload := make([]byte, saltLength+8)
	if _, err := rand.Read(payload[:saltLength]); err != nil {
		return "", fmt.Errorf("generate token salt: %w", err)
	}
	binary.BigEndian.PutUint64(payload[saltLength:], uint64(timeNow().Unix()))

	mac := g.computeMAC(secret, sessionID, payload)

	return base64.RawURLEncoding.EncodeToString(payload) +
		"." + base64.RawURLEncoding.EncodeToString(mac), nil
}

// Verify checks that the token was derived from the secret for this
// session and has not outlived the token TTL.
//
// An empty secret fails verification unconditionally: a session that has
// never issued a token has nothing a submitted token could match. The MAC
// is checked before the embedded timestamp is trusted, so expiry can only
// be reported for tokens that were genuinely ours.
func (g *Guard) Verify(secret []byte, sessionID uuid.UUID, token string) error {
	if token == "" {
		return ErrTokenMissing
	}
	if len(secret) == 0 {
		return ErrInvalidToken
	}

	payloadPart, macPart, ok := strings.Cut(token, ".")
	if !ok {
		return ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(payloadPart)
	if err != nil || len(payload) != saltLength+8 {
		return ErrInvalidToken
	}
	mac, err := base64.RawURLEncoding.DecodeString(macPart)
	if err != nil {
		return ErrInvalidToken
	}

	expected := g.computeMAC(secret, sessionID, payload)
	if !hmac.Equal(mac, expected) {
		return ErrInvalidToken
	}

	if g.ttl > 0 {
		issuedAt := time.Unix(int64(binary.BigEndian.Uint64(payload[saltLength:])), 0)
		if timeNow().After(issuedAt.Add(g.ttl)) {
			return ErrTokenExpired
		}
	}

	return nil
}

// TokenTTL returns the configured token lifetime. Zero or negative means
// tokens never expire on their own and die only with the secret.
func (g *Guard) TokenTTL() time.Duration {
	return g.ttl
}

// FormField returns the form field name tokens are read from.
func (g *Guard) FormField() string {
	return g.formField
}

// HeaderName returns the header name tokens are read from.
func (g *Guard) HeaderName() string {
	return g.headerName
}

// computeMAC authenticates the session identity and token payload with a
// key derived from the session secret.
func (g *Guard) computeMAC(secret []byte, sessionID uuid.UUID, payload []byte) []byte {
	h := hmac.New(sha256.New, deriveKey(secret))
	h.Write(sessionID[:])
	h.Write(payload)
	return h.Sum(nil)
}

// deriveKey expands the session secret into the token MAC key. Expansion
// keeps the raw secret out of the MAC computation and leaves room for
// other keys to be derived from the same secret under different labels.
func deriveKey(secret []byte) []byte {
	key := make([]byte, sha256.Size)
	kdf := hkdf.Expand(sha256.New, secret, []byte(tokenKeyInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		// A single SHA-256 block cannot exhaust HKDF output.
		panic(err)
	}
	return key
}
