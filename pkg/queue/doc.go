// Package queue implements the bounded priority queue at the center of the
// dispatch engine.
//
// One logical queue is internally partitioned into five buckets, one per
// priority level. Dequeue always returns the oldest item of the highest
// non-empty bucket: any higher-priority item is served before any
// lower-priority item regardless of arrival order, and items of equal
// priority leave in strict FIFO order.
//
// Buckets are bounded. A full bucket triggers the configured OverflowPolicy;
// the default rejects the enqueue with QueueFullError so producers get
// backpressure synchronously.
//
// Dequeue blocks on a condition variable rather than polling, so an idle
// worker pool costs nothing. Close wakes every waiter; remaining items stay
// dequeueable so workers can drain before exiting.
package queue
