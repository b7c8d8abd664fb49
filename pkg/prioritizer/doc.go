// Package prioritizer computes the effective priority of a notification
// before it is queued.
//
// Registered rules may only escalate: the result of Compute is the maximum
// of the notification's own priority and every rule's proposal. A failing
// rule is logged and skipped rather than aborting the computation.
package prioritizer
