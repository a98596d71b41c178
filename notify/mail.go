package notify

import (
	"context"
	"errors"
)

// SendFunc sends one plain text email.
type SendFunc func(to, subject, body string) error

// Mailer emails warning notifications (ended exhibitions) to one recipient.
// Other kinds are ignored: they only make sense next to the page that raised them.
type Mailer struct {
	To      string
	Subject string
	Send    SendFunc
}

func (m *Mailer) Notify(ctx context.Context, n Notification) error {
	if n.Kind != KindWarning {
		return nil
	}
	if m.To == "" || m.Send == nil {
		return errors.New("mailer not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	subject := m.Subject
	if subject == "" {
		subject = "Inventário de fotos"
	}
	return m.Send(m.To, subject, n.Message)
}
