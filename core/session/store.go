package session

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence boundary the manager writes sessions
// through. Implementations must handle concurrent access safely and must
// persist each session record atomically, so a concurrent reader
// observes either the previous or the new record, never a partial write.
// Lookups for absent sessions return ErrNotFound.
type Store[Data any] interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Session[Data], error)
	GetByToken(ctx context.Context, token string) (*Session[Data], error)
	Save(ctx context.Context, session *Session[Data]) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes all expired sessions.
	DeleteExpired(ctx context.Context) error
}
