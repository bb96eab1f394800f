package postgres

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/hardenlab/csrfkit/core/session"
	"github.com/hardenlab/csrfkit/integration/database/pg"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is a Postgres-backed session store on top of a pgx connection
// pool. Operations join a transaction attached to the context with
// pg.WithTx, so a session write can commit or roll back together with
// the request's domain writes.
type Store[Data any] struct {
	pool *pgxpool.Pool
}

// New creates a Postgres-backed session store. Call Migrate once at
// startup to create the sessions table.
func New[Data any](pool *pgxpool.Pool) *Store[Data] {
	return &Store[Data]{pool: pool}
}

// Migrate applies the store's embedded schema migrations. Applied
// migrations are skipped, so it is safe to run on every boot.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	fsys, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply session migrations: %w", err)
	}
	return nil
}

// querier is the subset of pgxpool.Pool and pgx.Tx the store needs.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *Store[Data]) db(ctx context.Context) querier {
	if tx, ok := pg.TxFromContext(ctx); ok {
		return tx
	}
	return s.pool
}

const sessionColumns = `id, token, user_id, fingerprint, ip, user_agent, csrf_secret, data, expires_at, created_at, updated_at`

const upsertSessionQuery = `
INSERT INTO sessions (` + sessionColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO UPDATE SET
	token = EXCLUDED.token,
	user_id = EXCLUDED.user_id,
	fingerprint = EXCLUDED.fingerprint,
	ip = EXCLUDED.ip,
	user_agent = EXCLUDED.user_agent,
	csrf_secret = EXCLUDED.csrf_secret,
	data = EXCLUDED.data,
	expires_at = EXCLUDED.expires_at,
	updated_at = EXCLUDED.updated_at`

// GetByID returns the session with the given ID or session.ErrNotFound.
// Expired sessions are still returned; expiry policy belongs to the manager.
func (s *Store[Data]) GetByID(ctx context.Context, id uuid.UUID) (*session.Session[Data], error) {
	row := s.db(ctx).QueryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id)
	return scanSession[Data](row)
}

// GetByToken returns the session bound to the given transport token or
// session.ErrNotFound.
func (s *Store[Data]) GetByToken(ctx context.Context, token string) (*session.Session[Data], error) {
	row := s.db(ctx).QueryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE token = $1`, token)
	return scanSession[Data](row)
}

// Save upserts the session row. The unique constraint on token makes a
// rotated token stop resolving the moment the row is updated, and
// rejects a token claimed by another session.
func (s *Store[Data]) Save(ctx context.Context, sess *session.Session[Data]) error {
	data, err := json.Marshal(sess.Data)
	if err != nil {
		return fmt.Errorf("marshal session data: %w", err)
	}

	_, err = s.db(ctx).Exec(ctx, upsertSessionQuery,
		sess.ID, sess.Token, sess.UserID, sess.Fingerprint, sess.IP,
		sess.UserAgent, sess.CSRFSecret, data,
		sess.ExpiresAt, sess.CreatedAt, sess.UpdatedAt,
	)
	if pg.IsDuplicateKeyError(err) {
		return fmt.Errorf("session token already in use: %w", err)
	}
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete removes the session row. Deleting an absent session is a no-op.
func (s *Store[Data]) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db(ctx).Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired sweeps every session row past its expiry. Run it
// periodically; the expires_at index keeps the sweep cheap.
func (s *Store[Data]) DeleteExpired(ctx context.Context) error {
	if _, err := s.db(ctx).Exec(ctx, `DELETE FROM sessions WHERE expires_at <= now()`); err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}
	return nil
}

func scanSession[Data any](row pgx.Row) (*session.Session[Data], error) {
	var (
		sess session.Session[Data]
		data []byte
	)
	err := row.Scan(
		&sess.ID, &sess.Token, &sess.UserID, &sess.Fingerprint, &sess.IP,
		&sess.UserAgent, &sess.CSRFSecret, &data,
		&sess.ExpiresAt, &sess.CreatedAt, &sess.UpdatedAt,
	)
	if pg.IsNotFoundError(err) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if err := json.Unmarshal(data, &sess.Data); err != nil {
		return nil, fmt.Errorf("unmarshal session data: %w", err)
	}
	return &sess, nil
}
