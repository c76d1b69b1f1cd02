// Package notify provides Notifier implementations: a zap-backed sink, a
// line printer for terminals, a fan-out, and an in-memory recorder.
package notify

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/stoplist/pkg/types"
)

var (
	_ types.Notifier = (*Zap)(nil)
	_ types.Notifier = (*Writer)(nil)
	_ types.Notifier = (*Recorder)(nil)
)

// Zap logs notifications. Errors are logged at warn level.
type Zap struct {
	logger *zap.Logger
}

// NewZap returns a Notifier that logs through l.
func NewZap(l *zap.Logger) *Zap {
	return &Zap{logger: l}
}

// Notify implements types.Notifier.
func (z *Zap) Notify(kind types.NotificationKind, title, description string) {
	fields := []zap.Field{
		zap.String("kind", string(kind)),
		zap.String("description", description),
	}
	if kind == types.NotifyError {
		z.logger.Warn(title, fields...)
		return
	}
	z.logger.Info(title, fields...)
}

// Writer prints one line per notification.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter returns a Notifier that prints to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Notify implements types.Notifier. Write errors are dropped.
func (p *Writer) Notify(kind types.NotificationKind, title, description string) {
	marker := "ok"
	if kind == types.NotifyError {
		marker = "error"
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "[%s] %s: %s\n", marker, title, description)
}

// Multi returns a Notifier that forwards to every non-nil notifier in order.
func Multi(notifiers ...types.Notifier) types.Notifier {
	var list []types.Notifier
	for _, n := range notifiers {
		if n != nil {
			list = append(list, n)
		}
	}
	return types.NotifierFunc(func(kind types.NotificationKind, title, description string) {
		for _, n := range list {
			n.Notify(kind, title, description)
		}
	})
}

// Event is one recorded notification.
type Event struct {
	Kind        types.NotificationKind
	Title       string
	Description string
}

// Recorder keeps notifications in memory. The zero value is ready to use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Notify implements types.Notifier.
func (r *Recorder) Notify(kind types.NotificationKind, title, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Kind: kind, Title: title, Description: description})
}

// Events returns a copy of the recorded notifications.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return Event{}, false
	}
	return r.events[len(r.events)-1], true
}

// Reset drops all recorded notifications.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
