// Package mongo provides a MongoDB-backed session store.
//
// Sessions live in a single collection, defaulting to "sessions", with
// the session ID as the document _id and the application data embedded
// as a BSON subdocument. EnsureIndexes creates a unique index on the
// transport token and a TTL index on expires_at, so MongoDB retires
// expired sessions on its own within about a minute; DeleteExpired
// remains available when a deterministic sweep is needed.
//
// BSON datetimes carry millisecond precision, so timestamps round-trip
// truncated to the millisecond.
package mongo
