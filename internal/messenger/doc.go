// Package messenger delivers vote announcements back into chat.
//
// The engine treats delivery as fire-and-forget: a webhook-backed service
// posts JSON to the configured chat endpoint, and a noop implementation is
// returned when no webhook is configured so callers never branch.
package messenger
