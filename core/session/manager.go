package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Manager runs the session lifecycle against a Store: creation, lookup
// with sliding expiration, authentication, and deletion. Lookups extend
// a session at most once per touch interval, so hot sessions do not turn
// every read into a store write.
type Manager[Data any] struct {
	store         Store[Data]
	ttl           time.Duration
	touchInterval time.Duration
}

// NewManager creates a session manager with the specified store and options.
func NewManager[Data any](store Store[Data], opts ...Option) (*Manager[Data], error) {
	if store == nil {
		return nil, ErrNilStore
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &Manager[Data]{
		store:         store,
		ttl:           cfg.TTL,
		touchInterval: cfg.TouchInterval,
	}, nil
}

// NewFromConfig creates a session manager from environment-based configuration.
// Options are applied after the config and can override it.
func NewFromConfig[Data any](store Store[Data], cfg Config, opts ...Option) (*Manager[Data], error) {
	configOpts := make([]Option, 0, 2+len(opts))
	if cfg.TTL > 0 {
		configOpts = append(configOpts, WithTTL(cfg.TTL))
	}
	if cfg.TouchInterval > 0 {
		configOpts = append(configOpts, WithTouchInterval(cfg.TouchInterval))
	}
	configOpts = append(configOpts, opts...)

	return NewManager[Data](store, configOpts...)
}

// New creates a new anonymous session and persists it.
func (m *Manager[Data]) New(ctx context.Context, params NewSessionParams) (Session[Data], error) {
	sess, err := New[Data](params, m.ttl)
	if err != nil {
		return Session[Data]{}, err
	}

	if err := m.store.Save(ctx, &sess); err != nil {
		return Session[Data]{}, errors.Join(ErrSaveSession, err)
	}

	return sess, nil
}

// GetByID retrieves a session by ID, validates expiration, and extends it
// when the touch interval has elapsed.
func (m *Manager[Data]) GetByID(ctx context.Context, id uuid.UUID) (Session[Data], error) {
	record, err := m.store.GetByID(ctx, id)
	if err != nil {
		return Session[Data]{}, err
	}

	return m.validate(ctx, *record)
}

// GetByToken retrieves a session by token, validates expiration, and extends
// it when the touch interval has elapsed.
func (m *Manager[Data]) GetByToken(ctx context.Context, token string) (Session[Data], error) {
	record, err := m.store.GetByToken(ctx, token)
	if err != nil {
		return Session[Data]{}, err
	}

	return m.validate(ctx, *record)
}

// validate rejects expired sessions and applies the throttled sliding
// expiration to live ones.
func (m *Manager[Data]) validate(ctx context.Context, sess Session[Data]) (Session[Data], error) {
	if sess.IsExpired() {
		return Session[Data]{}, ErrExpired
	}

	if m.touchInterval > 0 {
		sess.Touch(m.ttl, m.touchInterval)
		if sess.IsModified() {
			if err := m.store.Save(ctx, &sess); err != nil {
				return Session[Data]{}, errors.Join(ErrSaveSession, err)
			}
		}
	}

	return sess, nil
}

// Authenticate binds the session to a user, rotating both the transport
// token and the CSRF secret, and persists the result. The session ID is
// preserved.
func (m *Manager[Data]) Authenticate(ctx context.Context, sess Session[Data], userID uuid.UUID, data ...Data) (Session[Data], error) {
	if err := sess.Authenticate(userID, data...); err != nil {
		return Session[Data]{}, err
	}

	if err := m.store.Save(ctx, &sess); err != nil {
		return Session[Data]{}, errors.Join(ErrSaveSession, err)
	}

	return sess, nil
}

// Logout deletes the current session and returns a fresh anonymous one
// carrying over the client attributes. Tokens bound to the old session's
// secret are dead after this call.
func (m *Manager[Data]) Logout(ctx context.Context, sess Session[Data]) (Session[Data], error) {
	if err := m.store.Delete(ctx, sess.ID); err != nil && !errors.Is(err, ErrNotFound) {
		return Session[Data]{}, errors.Join(ErrDeleteSession, err)
	}

	return m.New(ctx, NewSessionParams{
		Fingerprint: sess.Fingerprint,
		IP:          sess.IP,
		UserAgent:   sess.UserAgent,
	})
}

// Store persists the session according to its state: deleted sessions
// are removed and reported as ErrNotAuthenticated so the transport
// clears its cookie, modified ones are saved, untouched ones cost
// nothing.
func (m *Manager[Data]) Store(ctx context.Context, sess Session[Data]) error {
	if sess.IsDeleted() {
		if err := m.store.Delete(ctx, sess.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return errors.Join(ErrDeleteSession, err)
		}
		return ErrNotAuthenticated
	}

	if m.touchInterval > 0 {
		sess.Touch(m.ttl, m.touchInterval)
	}

	if sess.IsModified() {
		return m.store.Save(ctx, &sess)
	}

	return nil
}

// Delete removes a session from the store.
func (m *Manager[Data]) Delete(ctx context.Context, id uuid.UUID) error {
	if err := m.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return errors.Join(ErrDeleteSession, err)
	}
	return nil
}

// CleanupExpired removes expired sessions, and with them the CSRF
// secrets they carried. Run it periodically; nothing else prunes the
// store.
func (m *Manager[Data]) CleanupExpired(ctx context.Context) error {
	return m.store.DeleteExpired(ctx)
}

// GetTTL returns the configured session lifetime.
func (m *Manager[Data]) GetTTL() time.Duration {
	return m.ttl
}
