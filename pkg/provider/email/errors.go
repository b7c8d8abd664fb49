package email

import "errors"

var (
	// ErrInvalidConfig is returned when required configuration is missing.
	ErrInvalidConfig = errors.New("invalid email provider config")

	// ErrNoRecipientAddress is returned when no email address can be
	// resolved for the notification's recipient.
	ErrNoRecipientAddress = errors.New("no recipient email address")

	// ErrSendFailed wraps Postmark API failures.
	ErrSendFailed = errors.New("failed to send email")
)
