package mailer

import (
	"context"

	"github.com/marlowpress/storefront-backend/pkg/logger"
)

// Email is one outbound transactional message.
type Email struct {
	To      string
	From    string
	Subject string
	Body    string
}

// Mailer delivers transactional mail. Confirmation sends are best-effort:
// callers log failures instead of failing the checkout.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// LogMailer records sends without delivering anything. Used in dev and as
// the fallback when no mail provider is configured.
type LogMailer struct {
	logg *logger.Logger
}

func NewLogMailer(logg *logger.Logger) *LogMailer {
	return &LogMailer{logg: logg}
}

func (m *LogMailer) Send(ctx context.Context, email Email) error {
	if m.logg != nil {
		ctx = m.logg.WithFields(ctx, map[string]any{"to": email.To, "subject": email.Subject})
		m.logg.Info(ctx, "mail delivery skipped (log mailer)")
	}
	return nil
}
