// Package notify delivers user-visible notifications.
//
// Every sink implements Notifier. The server fans a notification out to the
// in-memory Feed (polled by the page), the websocket Hub (pushed to open
// pages) and, for warnings, an optional Mailer. Delivery is best effort: a
// failing sink is reported to the caller but never retried.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a notification for styling.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

// Notification is one message shown to the user.
type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	PhotoID   int64     `json:"photoId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// New stamps a notification with a fresh id and the current time.
func New(kind Kind, message string) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
	}
}

// Notifier delivers notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n Notification) error { return f(ctx, n) }

// Nop discards every notification.
type Nop struct{}

func (Nop) Notify(context.Context, Notification) error { return nil }

// Fanout delivers to every sink and joins their errors.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, sink := range f {
		if sink == nil {
			continue
		}
		if err := sink.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
