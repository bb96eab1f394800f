// Package memory provides an in-memory session store for development
// and tests.
//
// The store keeps sessions in a map guarded by a read-write mutex with
// a secondary index from transport token to session ID. Every save and
// load copies the record, so sessions held by callers never alias store
// state. Expired records stay until DeleteExpired sweeps them; run it
// periodically in long-lived processes.
//
// Not suitable for multi-instance deployments: state is per-process and
// lost on restart.
package memory
