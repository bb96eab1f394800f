// Package postgres provides a Postgres-backed session store.
//
// Sessions live in a single sessions table with the application data
// marshaled as jsonb and the CSRF secret as bytea. The transport token
// carries a unique constraint, so a token can never resolve to two
// sessions. The schema ships as embedded goose migrations; call Migrate
// once at startup.
//
// Store operations join a transaction attached to the context with
// pg.WithTx, letting a session write commit or roll back together with
// the request's domain writes. Expired rows stay until DeleteExpired
// sweeps them; run it periodically in long-lived processes.
package postgres
