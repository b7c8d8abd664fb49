// Package email delivers notifications as transactional email through
// Postmark. The recipient address comes from the "recipient_email"
// notification metadata key unless a custom AddressResolver is installed.
package email
