// Package notifications pushes note events to an ntfy topic.
//
// The topic is a full ntfy URL (for example https://ntfy.sh/my-notes). When no
// topic is configured NewService returns a no-op implementation, so callers
// never need to check whether notifications are enabled. Delivery errors are
// returned to the caller, which logs and ignores them.
package notifications
