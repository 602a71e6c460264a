package email

import (
	"context"

	"github.com/google/uuid"
	"github.com/zatekoja/diningconcierge/internal/domain/providers"
	"github.com/zatekoja/diningconcierge/internal/infrastructure/observability"
)

// LogSender writes emails to the log instead of delivering them. Used for local development.
type LogSender struct{}

var _ providers.EmailSender = LogSender{}

// NewLogSender creates a new log sender
func NewLogSender() LogSender {
	return LogSender{}
}

// Send logs the email and returns a generated message ID
func (LogSender) Send(ctx context.Context, email providers.Email) (string, error) {
	id := uuid.NewString()
	observability.LoggerFromContext(ctx).Info().
		Str("message_id", id).
		Str("from", email.From).
		Strs("to", email.To).
		Str("subject", email.Subject).
		Str("body", email.Body).
		Msg("email not delivered, logged instead")
	return id, nil
}
