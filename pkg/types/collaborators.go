package types

import "context"

// NotificationKind is the severity of a user-facing notification.
type NotificationKind string

// Notification kinds.
const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
)

// Notifier receives user-facing notifications. Calls are fire-and-forget.
type Notifier interface {
	Notify(kind NotificationKind, title, description string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(kind NotificationKind, title, description string)

// Notify calls f(kind, title, description).
func (f NotifierFunc) Notify(kind NotificationKind, title, description string) {
	f(kind, title, description)
}

// Persister stores a committed item set. It is invoked only on save.
type Persister interface {
	Persist(ctx context.Context, items []MenuItem) error
}

// CategoryPersister is implemented by persisters that also store custom
// categories. The engine persists categories after items when available.
type CategoryPersister interface {
	PersistCategories(ctx context.Context, categories []CustomCategory) error
}
