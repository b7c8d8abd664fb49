package queue

// OverflowPolicy decides what Enqueue does when a priority bucket is full.
type OverflowPolicy string

const (
	// PolicyReject fails the enqueue with QueueFullError. This is the
	// default: producers find out immediately and visibly.
	PolicyReject OverflowPolicy = "reject"

	// PolicyBlock waits up to the configured block timeout for bucket
	// space, then fails with QueueFullError.
	PolicyBlock OverflowPolicy = "block"

	// PolicyEvictLowest trades a slot of lower-priority work for the new
	// item: the newest item of the lowest non-empty bucket strictly below
	// the incoming priority is dropped and the new item is admitted. The
	// admitting bucket may momentarily exceed its nominal capacity, but
	// the queue-wide total stays bounded. When no lower-priority work
	// exists the enqueue is rejected instead.
	PolicyEvictLowest OverflowPolicy = "evict_lowest"
)

// Valid reports whether the policy is one of the known overflow policies.
func (p OverflowPolicy) Valid() bool {
	switch p {
	case PolicyReject, PolicyBlock, PolicyEvictLowest:
		return true
	}
	return false
}
