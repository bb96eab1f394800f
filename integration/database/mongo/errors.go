package mongo

import "errors"

// Stable error values for callers to branch on with errors.Is.
// New and Healthcheck join these with the underlying driver error.
var (
	ErrFailedToConnectToMongo = errors.New("failed to connect to mongo")
	ErrEmptyConnectionURL     = errors.New("empty mongodb connection URL")
	ErrHealthcheckFailed      = errors.New("mongodb healthcheck failed")
)
