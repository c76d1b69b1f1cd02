// Package types defines the menu entities, the collaborator contracts the
// catalog engine talks to (Notifier, Persister), the storage Backend
// interface, and the standard errors for the stop-list system.
package types
