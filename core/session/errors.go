package session

import "errors"

// Lookup failures come first, then the generation and persistence
// failures a store round-trip can surface. Callers branch on these with
// errors.Is; stores wrap their own driver errors around the matching
// sentinel.
var (
	// ErrExpired reports a session past its expiration time.
	ErrExpired = errors.New("session has expired")
	// ErrNotFound reports a token or ID with no stored session behind it.
	ErrNotFound = errors.New("session not found")
	// ErrNotAuthenticated reports an anonymous session where an
	// authenticated one is required.
	ErrNotAuthenticated = errors.New("authentication failed")
	// ErrMissingIP rejects session creation without a client address.
	ErrMissingIP = errors.New("IP address is required")
	// ErrTokenGeneration wraps entropy failures while minting a token.
	ErrTokenGeneration = errors.New("failed to generate token")
	// ErrSecretGeneration wraps entropy failures while minting a
	// per-session CSRF secret.
	ErrSecretGeneration = errors.New("failed to generate csrf secret")
	// ErrSaveSession wraps store write failures.
	ErrSaveSession = errors.New("failed to save session")
	// ErrDeleteSession wraps store delete failures.
	ErrDeleteSession = errors.New("failed to delete session")
	// ErrNilStore rejects manager construction without a store.
	ErrNilStore = errors.New("session store is required")
)
