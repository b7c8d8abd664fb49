package redis

import "errors"

var (
	// ErrFailedToParseConnString is returned when the Redis URL is invalid.
	ErrFailedToParseConnString = errors.New("failed to parse redis connection string")

	// ErrNotReady is returned when the server never answered a ping.
	ErrNotReady = errors.New("redis server is not ready")

	// ErrHealthcheckFailed is returned by the readiness probe.
	ErrHealthcheckFailed = errors.New("healthcheck failed, connection is not available")
)
