package webhook

import "errors"

var (
	// ErrInvalidConfig is returned when the endpoint URL or secret is missing.
	ErrInvalidConfig = errors.New("invalid webhook provider config")

	// ErrSignatureMismatch is returned by VerifySignature for any
	// authentication failure, replay rejection included.
	ErrSignatureMismatch = errors.New("webhook signature verification failed")

	// ErrDeliveryFailed wraps transport failures and non-2xx responses.
	ErrDeliveryFailed = errors.New("webhook delivery failed")
)
