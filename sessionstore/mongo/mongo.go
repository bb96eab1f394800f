package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/hardenlab/csrfkit/core/session"
)

// Store is a MongoDB-backed session store.
type Store[Data any] struct {
	coll *mongo.Collection
}

// Option configures a Store.
type Option func(*settings)

type settings struct {
	collection string
}

// WithCollectionName overrides the default "sessions" collection name.
func WithCollectionName(name string) Option {
	return func(s *settings) {
		s.collection = name
	}
}

// New creates a MongoDB-backed session store on the given database.
// Call EnsureIndexes once at startup to create the token and TTL indexes.
func New[Data any](db *mongo.Database, opts ...Option) *Store[Data] {
	cfg := settings{collection: "sessions"}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Store[Data]{coll: db.Collection(cfg.collection)}
}

// EnsureIndexes creates the unique token index and the TTL index on
// expires_at. The TTL monitor removes expired documents within about a
// minute of expiry; DeleteExpired stays available for a deterministic
// sweep.
func (s *Store[Data]) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	})
	if err != nil {
		return fmt.Errorf("create session indexes: %w", err)
	}
	return nil
}

// record is the persisted shape of a session. UUIDs are stored as
// strings so documents stay readable in the shell; CSRFSecret rides as
// BSON binary and round-trips byte-exact.
type record[Data any] struct {
	ID          string    `bson:"_id"`
	Token       string    `bson:"token"`
	UserID      string    `bson:"user_id"`
	Fingerprint string    `bson:"fingerprint,omitempty"`
	IP          string    `bson:"ip,omitempty"`
	UserAgent   string    `bson:"user_agent,omitempty"`
	CSRFSecret  []byte    `bson:"csrf_secret,omitempty"`
	Data        Data      `bson:"data"`
	ExpiresAt   time.Time `bson:"expires_at"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func toRecord[Data any](s *session.Session[Data]) record[Data] {
	return record[Data]{
		ID:          s.ID.String(),
		Token:       s.Token,
		UserID:      s.UserID.String(),
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

func (r *record[Data]) toSession() (*session.Session[Data], error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("corrupt session document ID: %w", err)
	}
	userID, err := uuid.Parse(r.UserID)
	if err != nil {
		return nil, fmt.Errorf("corrupt session document user ID: %w", err)
	}
	return &session.Session[Data]{
		ID:          id,
		Token:       r.Token,
		UserID:      userID,
		Fingerprint: r.Fingerprint,
		IP:          r.IP,
		UserAgent:   r.UserAgent,
		CSRFSecret:  r.CSRFSecret,
		Data:        r.Data,
		ExpiresAt:   r.ExpiresAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

// GetByID returns the session with the given ID or session.ErrNotFound.
// Expired sessions still load until the TTL monitor or DeleteExpired
// removes them; expiry policy belongs to the manager.
func (s *Store[Data]) GetByID(ctx context.Context, id uuid.UUID) (*session.Session[Data], error) {
	return s.findOne(ctx, bson.M{"_id": id.String()})
}

// GetByToken returns the session bound to the given transport token or
// session.ErrNotFound.
func (s *Store[Data]) GetByToken(ctx context.Context, token string) (*session.Session[Data], error) {
	return s.findOne(ctx, bson.M{"token": token})
}

func (s *Store[Data]) findOne(ctx context.Context, filter bson.M) (*session.Session[Data], error) {
	var rec record[Data]
	err := s.coll.FindOne(ctx, filter).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return rec.toSession()
}

// Save upserts the session document. The unique token index rejects a
// token claimed by another session.
func (s *Store[Data]) Save(ctx context.Context, sess *session.Session[Data]) error {
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": sess.ID.String()},
		toRecord(sess),
		options.Replace().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("session token already in use: %w", err)
	}
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete removes the session document. Deleting an absent session is a
// no-op.
func (s *Store[Data]) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id.String()}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired sweeps every session document past its expiry.
func (s *Store[Data]) DeleteExpired(ctx context.Context) error {
	filter := bson.M{"expires_at": bson.M{"$lte": time.Now()}}
	if _, err := s.coll.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}
	return nil
}
