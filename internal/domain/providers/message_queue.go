package providers

import (
	"context"
	"time"

	"github.com/zatekoja/diningconcierge/internal/domain/entities"
)

// MessageQueue defines the queue carrying dining requests to the worker
type MessageQueue interface {
	// Send enqueues a message and returns its ID
	Send(ctx context.Context, body string, attributes map[string]string) (string, error)

	// Receive returns up to opts.MaxMessages messages. An empty slice means
	// the queue had nothing visible.
	Receive(ctx context.Context, opts ReceiveOptions) ([]entities.QueueMessage, error)

	// Delete removes a received message
	Delete(ctx context.Context, receiptHandle string) error
}

// ReceiveOptions controls a single receive call
type ReceiveOptions struct {
	MaxMessages       int
	VisibilityTimeout time.Duration
	WaitTime          time.Duration
}
