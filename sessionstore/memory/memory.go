package memory

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hardenlab/csrfkit/core/session"
)

// Store is an in-memory session store for development and tests.
// Records are copied on the way in and out, so callers never share
// mutable state with the store.
type Store[Data any] struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*session.Session[Data]
	byToken map[string]uuid.UUID
}

// New creates an empty in-memory store.
func New[Data any]() *Store[Data] {
	return &Store[Data]{
		byID:    make(map[uuid.UUID]*session.Session[Data]),
		byToken: make(map[string]uuid.UUID),
	}
}

// GetByID returns the session with the given ID or session.ErrNotFound.
// Expired sessions are still returned; expiry policy belongs to the manager.
func (s *Store[Data]) GetByID(ctx context.Context, id uuid.UUID) (*session.Session[Data], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.byID[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return clone(sess), nil
}

// GetByToken returns the session bound to the given transport token or
// session.ErrNotFound.
func (s *Store[Data]) GetByToken(ctx context.Context, token string) (*session.Session[Data], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byToken[token]
	if !ok {
		return nil, session.ErrNotFound
	}
	sess, ok := s.byID[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return clone(sess), nil
}

// Save stores a copy of the session, replacing any previous record with
// the same ID. The token index follows token rotation so stale tokens
// stop resolving immediately.
func (s *Store[Data]) Save(ctx context.Context, sess *session.Session[Data]) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.byID[sess.ID]; ok && prev.Token != sess.Token {
		delete(s.byToken, prev.Token)
	}

	record := clone(sess)
	s.byID[record.ID] = record
	s.byToken[record.Token] = record.ID
	return nil
}

// Delete removes the session and its token index entry.
// Deleting an absent session is a no-op.
func (s *Store[Data]) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.byID[id]; ok {
		delete(s.byToken, sess.Token)
		delete(s.byID, id)
	}
	return nil
}

// DeleteExpired sweeps every session past its expiry.
func (s *Store[Data]) DeleteExpired(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, sess := range s.byID {
		if now.After(sess.ExpiresAt) {
			delete(s.byToken, sess.Token)
			delete(s.byID, id)
		}
	}
	return nil
}

// Len returns the number of stored sessions.
func (s *Store[Data]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// clone copies the exported state of a session. The copy carries no
// pending-save flag, matching what a database round-trip produces, and
// its CSRF secret does not alias the source slice.
func clone[Data any](s *session.Session[Data]) *session.Session[Data] {
	return &session.Session[Data]{
		ID:          s.ID,
		Token:       s.Token,
		UserID:      s.UserID,
		Fingerprint: s.Fingerprint,
		IP:          s.IP,
		UserAgent:   s.UserAgent,
		CSRFSecret:  bytes.Clone(s.CSRFSecret),
		Data:        s.Data,
		ExpiresAt:   s.ExpiresAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		DeletedAt:   s.DeletedAt,
	}
}
