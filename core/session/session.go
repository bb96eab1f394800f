package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	// tokenLength is the size of the transport token in bytes.
	tokenLength = 32
	// secretLength is the size of the per-session CSRF secret in bytes.
	secretLength = 32
)

// Session is one visitor's server-side state: a stable identity, a
// rotating transport credential, the CSRF secret, and whatever Data the
// application attaches.
type Session[Data any] struct {
	// ID survives for the whole session lifetime, across login and
	// token rotation.
	ID uuid.UUID

	// Token is the cryptographically secure session token (32 bytes base64url)
	// used as the transport credential (cookie value).
	Token string

	// UserID is uuid.Nil until Authenticate binds a user.
	UserID uuid.UUID

	// Fingerprint is the client fingerprint in its versioned v1:hash
	// form, recorded at creation for audit and anomaly checks.
	Fingerprint string

	IP        string
	UserAgent string

	// CSRFSecret is the per-session secret that request tokens are derived
	// from. It is nil until the first token is issued, replaced wholesale on
	// rotation, and discarded with the session record. It never leaves the
	// server.
	CSRFSecret []byte

	// Data is the application's own payload, persisted with the session.
	Data Data

	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt time.Time

	// isModified flags unsaved changes.
	isModified bool
}

// NewSessionParams carries the client attributes recorded on a new session.
type NewSessionParams struct {
	Fingerprint string
	IP          string
	UserAgent   string
}

// New builds an anonymous session with a fresh ID and transport token,
// flagged for saving. Params must carry the client IP. The CSRF secret
// stays empty until the first token issuance asks for one.
func New[Data any](params NewSessionParams, ttl time.Duration) (Session[Data], error) {
	if params.IP == "" {
		return Session[Data]{}, ErrMissingIP
	}

	token, err := generateToken()
	if err != nil {
		return Session[Data]{}, errors.Join(ErrTokenGeneration, err)
	}

	now := time.Now()
	return Session[Data]{
		ID:          uuid.New(),
		Token:       token,
		UserID:      uuid.Nil,
		Fingerprint: params.Fingerprint,
		IP:          params.IP,
		UserAgent:   params.UserAgent,
		Data:        *new(Data),
		ExpiresAt:   now.Add(ttl),
		CreatedAt:   now,
		UpdatedAt:   now,
		isModified:  true,
	}, nil
}

// Authenticate binds userID to the session, rotating the transport
// token and the CSRF secret while keeping the session ID. Tokens issued
// before login stop verifying. An optional data value replaces the
// payload in the same step.
func (s *Session[Data]) Authenticate(userID uuid.UUID, data ...Data) error {
	if err := s.rotateToken(); err != nil {
		return err
	}
	if err := s.RotateCSRFSecret(); err != nil {
		return err
	}
	s.UserID = userID
	if len(data) > 0 {
		s.Data = data[0]
	}
	s.UpdatedAt = time.Now()
	s.isModified = true
	return nil
}

// EnsureCSRFSecret returns the session's CSRF secret, generating and
// attaching one on first call. The returned slice is the live secret;
// callers must not mutate it.
func (s *Session[Data]) EnsureCSRFSecret() ([]byte, error) {
	if len(s.CSRFSecret) > 0 {
		return s.CSRFSecret, nil
	}

	secret, err := generateSecret()
	if err != nil {
		return nil, errors.Join(ErrSecretGeneration, err)
	}

	s.CSRFSecret = secret
	s.UpdatedAt = time.Now()
	s.isModified = true
	return s.CSRFSecret, nil
}

// RotateCSRFSecret replaces the CSRF secret with a fresh one.
// Every token derived from the previous secret fails verification from
// this point on. The replacement is a plain field write persisted by the
// store's atomic save, so an in-flight verify sees either the old or the
// new secret, never a mix.
func (s *Session[Data]) RotateCSRFSecret() error {
	secret, err := generateSecret()
	if err != nil {
		return errors.Join(ErrSecretGeneration, err)
	}
	s.CSRFSecret = secret
	s.UpdatedAt = time.Now()
	s.isModified = true
	return nil
}

// Refresh rotates the session token without changing authentication state,
// session ID, or the CSRF secret. Useful for periodic transport-credential
// rotation.
func (s *Session[Data]) Refresh() error {
	if err := s.rotateToken(); err != nil {
		return err
	}
	s.UpdatedAt = time.Now()
	s.isModified = true
	return nil
}

// Logout flags the session for deletion on the next write-back. The
// CSRF secret dies with the record.
func (s *Session[Data]) Logout() {
	s.DeletedAt = time.Now()
	s.isModified = true
}

// SetData replaces the application payload and flags the session for
// saving.
func (s *Session[Data]) SetData(data Data) {
	s.Data = data
	s.UpdatedAt = time.Now()
	s.isModified = true
}

// Touch pushes the expiration ttl into the future, but only when at
// least touchInterval has passed since the last update. Callers gate on
// IsModified to decide whether the result needs saving.
func (s *Session[Data]) Touch(ttl, touchInterval time.Duration) {
	if time.Since(s.UpdatedAt) >= touchInterval {
		s.ExpiresAt = time.Now().Add(ttl)
		s.UpdatedAt = time.Now()
		s.isModified = true
	}
}

// IsAuthenticated reports whether a user is bound to the session.
func (s Session[Data]) IsAuthenticated() bool {
	return s.UserID != uuid.Nil && s.Token != ""
}

// IsDeleted reports whether Logout has flagged the session.
func (s Session[Data]) IsDeleted() bool {
	return !s.DeletedAt.IsZero()
}

// IsModified reports whether the session has unsaved changes.
func (s Session[Data]) IsModified() bool {
	return s.isModified
}

// IsExpired reports whether the session has outlived ExpiresAt.
func (s Session[Data]) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// rotateToken swaps the transport token; the ID stays.
func (s *Session[Data]) rotateToken() error {
	newToken, err := generateToken()
	if err != nil {
		return errors.Join(ErrTokenGeneration, err)
	}
	s.Token = newToken
	s.isModified = true
	return nil
}

// generateToken returns 32 random bytes in unpadded base64url, the
// cookie-safe shape of the transport credential.
func generateToken() (string, error) {
	b := make([]byte, tokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// generateSecret creates 32 bytes (256 bits) of cryptographically secure
// random material for deriving request tokens.
func generateSecret() ([]byte, error) {
	b := make([]byte, secretLength)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
