// Package webhook delivers notifications as signed HTTP POST requests.
//
// Every delivery carries X-Webhook-Signature, X-Webhook-Timestamp and
// X-Webhook-ID headers. The signature is HMAC-SHA256 over
// "timestamp.payload" with a shared secret; receivers validate it with
// VerifySignature, which also rejects stale timestamps to prevent replays.
package webhook
