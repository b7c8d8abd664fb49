// Package router resolves which provider delivers a notification.
//
// Each channel carries an ordered provider list; the first entry is the
// primary. A channel may declare exactly one fallback channel that is
// consulted when the channel has no providers of its own. Fallback is a
// single hop: the fallback target's own fallback is never followed.
package router
