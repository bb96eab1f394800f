// Package health provides HTTP handlers for service health probes.
//
// Handlers:
//   - Liveness: process is running, no dependency checks
//   - Readiness: every registered dependency check passes
//   - NoContent: bare 204 for minimal-overhead probes
//
// Usage:
//
//	r.Get("/health/live", health.Liveness[*router.Context])
//	r.Get("/health/ready", health.Readiness[*router.Context](
//		log,
//		pg.Healthcheck(pool),
//		redis.Healthcheck(client),
//		mongo.Healthcheck(client),
//	))
//	r.Get("/ping", health.NoContent[*router.Context])
//
// Checks follow the func(context.Context) error signature, which the
// integration/database connectors return from their Healthcheck constructors.
package health
