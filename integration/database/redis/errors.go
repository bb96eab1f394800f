package redis

import "errors"

// Stable error values for callers to branch on with errors.Is.
// Connect and Healthcheck join these with the underlying client error.
var (
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("redis not ready after connection retries")
	ErrEmptyConnectionURL           = errors.New("empty redis connection URL")
	ErrHealthcheckFailed            = errors.New("redis healthcheck failed")
)
