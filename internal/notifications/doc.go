// Package notifications delivers workflow events via ntfy.
//
// The default implementation publishes to the topic configured in
// config.toml and gracefully degrades to a no-op when no topic is set.
// Stage handlers depend only on the Service interface, so alternative
// transports can be added without touching workflow code.
package notifications
