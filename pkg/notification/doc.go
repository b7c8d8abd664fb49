// Package notification defines the core notification domain model: the
// notification value with its lifecycle state machine, the ordered priority
// and channel enumerations, and the Store interface that persistence
// collaborators implement.
//
// # Lifecycle
//
// A notification moves through a fixed, monotonic lifecycle:
//
//	Pending → Queued → Sending → Delivered
//	                          └→ Failed
//
// Transition is the single authority for state changes. Both Delivered and
// Failed are terminal; a failed send is retried by creating a fresh
// notification, never by mutating the failed one.
//
// # Storage
//
// The Store interface decouples the dispatch engine from persistence.
// MemoryStore is provided for development and testing; the storage
// subpackages provide PostgreSQL and Redis implementations.
package notification
