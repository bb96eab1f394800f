// Package redis provides a Redis-backed session store for
// multi-instance deployments.
//
// Records are stored as JSON at {prefix}session:{id} with a secondary
// index at {prefix}session:token:{token} mapping the transport token to
// the session ID. Both keys carry the session TTL, so Redis expires
// sessions on its own and DeleteExpired is a no-op. Saves go through a
// transactional pipeline that writes the record, re-points the token
// index, and retires the previous index entry when the token rotated.
//
// The store accepts anything implementing redis.Cmdable, so it works
// against a single node, a cluster, or a ring without changes.
package redis
