package server

import "errors"

var (
	// ErrServerAlreadyRunning is returned by Start when the server is live.
	ErrServerAlreadyRunning = errors.New("server is already running")

	// ErrMissingAddress is returned by NewFromConfig when no address is set.
	ErrMissingAddress = errors.New("server address is required")

	// ErrFailedLoadCert wraps certificate loading failures.
	ErrFailedLoadCert = errors.New("failed to load certificate")
)
