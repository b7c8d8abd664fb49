// Package inapp delivers notifications to live in-app subscribers, typically
// bridged to SSE or WebSocket handlers. Subscriptions are per recipient with
// bounded buffers; slow consumers lose messages instead of blocking dispatch.
package inapp
