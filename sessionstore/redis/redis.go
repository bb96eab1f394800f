package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hardenlab/csrfkit/core/session"
)

// Store is a Redis-backed session store. Records live at
// {prefix}session:{id} with a token index at {prefix}session:token:{token};
// both carry the session TTL, so Redis expiry retires sessions on its own.
type Store[Data any] struct {
	client redis.Cmdable
	prefix string
}

// Option configures a Store.
type Option func(*settings)

type settings struct {
	prefix string
}

// WithKeyPrefix namespaces all keys, e.g. "myapp:" yields
// "myapp:session:{id}". Useful when the Redis database is shared.
func WithKeyPrefix(prefix string) Option {
	return func(s *settings) {
		s.prefix = prefix
	}
}

// New creates a Redis-backed session store. The client may be a plain
// client, a cluster client, or anything else implementing redis.Cmdable.
func New[Data any](client redis.Cmdable, opts ...Option) *Store[Data] {
	cfg := settings{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Store[Data]{
		client: client,
		prefix: cfg.prefix,
	}
}

// record is the persisted shape of a session. CSRFSecret round-trips
// byte-exact because encoding/json base64-encodes []byte fields.
type record[Data any] struct {
	ID          uuid.UUID `json:"id"`
	Token       string    `json:"token"`
	UserID      uuid.UUID `json:"user_id"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	IP          string    `json:"ip,omitempty"`
	UserAgent   string    `json:"user_agent,omitempty"`
	CSRFSecret  []byte    `json:"csrf_secret,omitempty"`
	Data        Data      `json:"data"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toRecord[Data any](s *session.Session[Data]) record[Data] {
	return record[Data]{
		ID:          s.ID,
		Token:       s.Token,
		UserID:      s.UserID,
		Fingerprint: s.Fingerprint,
		IP:          s.IP,
		UserAgent:   s.UserAgent,
		CSRFSecret:  s.CSRFSecret,
		Data:        s.Data,
		ExpiresAt:   s.ExpiresAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (r *record[Data]) toSession() *session.Session[Data] {
	return &session.Session[Data]{
		ID:          r.ID,
		Token:       r.Token,
		UserID:      r.UserID,
		Fingerprint: r.Fingerprint,
		IP:          r.IP,
		UserAgent:   r.UserAgent,
		CSRFSecret:  r.CSRFSecret,
		Data:        r.Data,
		ExpiresAt:   r.ExpiresAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (s *Store[Data]) sessionKey(id uuid.UUID) string {
	return s.prefix + "session:" + id.String()
}

func (s *Store[Data]) tokenKey(token string) string {
	return s.prefix + "session:token:" + token
}

// GetByID returns the session with the given ID or session.ErrNotFound
// once the record has expired out of Redis.
func (s *Store[Data]) GetByID(ctx context.Context, id uuid.UUID) (*session.Session[Data], error) {
	rec, err := s.getRecord(ctx, s.sessionKey(id))
	if err != nil {
		return nil, err
	}
	return rec.toSession(), nil
}

// GetByToken resolves the token index and loads the session it points
// to. A stale index entry racing a token rotation reads as not found.
func (s *Store[Data]) GetByToken(ctx context.Context, token string) (*session.Session[Data], error) {
	raw, err := s.client.Get(ctx, s.tokenKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve session token: %w", err)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("corrupt session token index: %w", err)
	}

	sess, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Token != token {
		return nil, session.ErrNotFound
	}
	return sess, nil
}

// Save writes the record and its token index in one transaction, both
// expiring with the session. Rotation retires the previous token index
// in the same transaction. An already-expired session is deleted instead.
func (s *Store[Data]) Save(ctx context.Context, sess *session.Session[Data]) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return s.Delete(ctx, sess.ID)
	}

	payload, err := json.Marshal(toRecord(sess))
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	var prevToken string
	if prev, err := s.getRecord(ctx, s.sessionKey(sess.ID)); err == nil && prev.Token != sess.Token {
		prevToken = prev.Token
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.sessionKey(sess.ID), payload, ttl)
	pipe.Set(ctx, s.tokenKey(sess.Token), sess.ID.String(), ttl)
	if prevToken != "" {
		pipe.Del(ctx, s.tokenKey(prevToken))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete removes the record and its token index entry. Deleting an
// absent session is a no-op.
func (s *Store[Data]) Delete(ctx context.Context, id uuid.UUID) error {
	rec, err := s.getRecord(ctx, s.sessionKey(id))
	if errors.Is(err, session.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.sessionKey(id))
	pipe.Del(ctx, s.tokenKey(rec.Token))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: key TTLs make Redis retire expired sessions
// without a sweep.
func (s *Store[Data]) DeleteExpired(ctx context.Context) error {
	return nil
}

func (s *Store[Data]) getRecord(ctx context.Context, key string) (*record[Data], error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var rec record[Data]
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &rec, nil
}
