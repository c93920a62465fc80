// Package notifications delivers monitor events to desktop and ntfy backends.
//
// NewService inspects the notifications section of the config and returns a
// single Service: a desktop notifier, an ntfy publisher, a fanout over both,
// or a no-op when nothing is enabled. Callers depend only on Publish and the
// small Event vocabulary defined here.
package notifications
