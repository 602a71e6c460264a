package providers

import (
	"context"
)

// EmailSender defines the outbound email service
type EmailSender interface {
	// Send delivers a plain text email and returns the provider message ID
	Send(ctx context.Context, email Email) (string, error)
}

// Email is a plain text email
type Email struct {
	From    string
	To      []string
	Subject string
	Body    string
	Charset string
}
