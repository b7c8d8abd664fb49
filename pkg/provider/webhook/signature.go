package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// SignatureHeaders carries the HMAC authentication headers attached to every
// delivery. The scheme binds the signature to a timestamp so receivers can
// reject replayed requests: HMAC-SHA256(secret, timestamp + "." + payload).
type SignatureHeaders struct {
	Signature string
	Timestamp int64
	ID        string
}

// Headers returns the signature data under its HTTP header names.
func (s SignatureHeaders) Headers() map[string]string {
	return map[string]string{
		"X-Webhook-Signature": s.Signature,
		"X-Webhook-Timestamp": strconv.FormatInt(s.Timestamp, 10),
		"X-Webhook-ID":        s.ID,
	}
}

// SignPayload signs a payload with the endpoint secret. The delivery ID is a
// fresh UUID receivers can use for idempotency.
func SignPayload(secret string, payload []byte) (SignatureHeaders, error) {
	if secret == "" {
		return SignatureHeaders{}, fmt.Errorf("%w: secret is required", ErrInvalidConfig)
	}
	if len(payload) == 0 {
		return SignatureHeaders{}, fmt.Errorf("%w: payload cannot be empty", ErrInvalidConfig)
	}

	timestamp := time.Now().Unix()
	h := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(h, "%d.%s", timestamp, payload)

	return SignatureHeaders{
		Signature: hex.EncodeToString(h.Sum(nil)),
		Timestamp: timestamp,
		ID:        uuid.NewString(),
	}, nil
}

// VerifySignature validates a received delivery. maxAge bounds the timestamp
// window; zero disables the replay check. Comparison is constant-time.
func VerifySignature(secret string, payload []byte, headers SignatureHeaders, maxAge time.Duration) error {
	if secret == "" {
		return fmt.Errorf("%w: secret is required", ErrInvalidConfig)
	}
	if headers.Signature == "" {
		return fmt.Errorf("%w: signature is missing", ErrSignatureMismatch)
	}

	if maxAge > 0 {
		age := time.Since(time.Unix(headers.Timestamp, 0))
		if age > maxAge {
			return fmt.Errorf("%w: timestamp too old: %v", ErrSignatureMismatch, age)
		}
		if age < -time.Minute {
			return fmt.Errorf("%w: timestamp is in the future", ErrSignatureMismatch)
		}
	}

	h := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(h, "%d.%s", headers.Timestamp, payload)
	expected := hex.EncodeToString(h.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(headers.Signature)) {
		return fmt.Errorf("%w: signature does not match payload", ErrSignatureMismatch)
	}
	return nil
}
