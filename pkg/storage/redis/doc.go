// Package redis provides the Redis-backed notification store.
//
// Connect builds a go-redis client with startup retries; Store implements
// notification.Store with JSON values and a per-recipient sorted set index.
// An optional TTL turns the store into an expiring notification feed.
package redis
