package queue

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/zatekoja/diningconcierge/internal/domain/entities"
	"github.com/zatekoja/diningconcierge/internal/domain/providers"
	apperrors "github.com/zatekoja/diningconcierge/pkg/errors"
)

// SQSAPI is the subset of the SQS client used by SQSQueue
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// SQSQueue implements MessageQueue on Amazon SQS. Attributes travel as
// String message attributes.
type SQSQueue struct {
	client   SQSAPI
	queueURL string
}

var _ providers.MessageQueue = (*SQSQueue)(nil)

// NewSQSQueue creates a queue bound to queueURL
func NewSQSQueue(client SQSAPI, queueURL string) *SQSQueue {
	return &SQSQueue{client: client, queueURL: queueURL}
}

// Send enqueues a message and returns its ID
func (q *SQSQueue) Send(ctx context.Context, body string, attributes map[string]string) (string, error) {
	attrs := make(map[string]types.MessageAttributeValue, len(attributes))
	for name, value := range attributes {
		attrs[name] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(value),
		}
	}

	out, err := q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:          aws.String(q.queueURL),
		MessageBody:       aws.String(body),
		MessageAttributes: attrs,
		DelaySeconds:      0,
	})
	if err != nil {
		return "", apperrors.NewExternalError("failed to send queue message", err)
	}
	return aws.ToString(out.MessageId), nil
}

// Receive returns up to opts.MaxMessages messages with all their attributes.
// Timeouts are sent in whole seconds. SQS omits a zero VisibilityTimeout from
// the request, so zero means the queue's configured default applies.
func (q *SQSQueue) Receive(ctx context.Context, opts providers.ReceiveOptions) ([]entities.QueueMessage, error) {
	limit := opts.MaxMessages
	if limit <= 0 {
		limit = 1
	}
	if limit > maxReceive {
		limit = maxReceive
	}

	out, err := q.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:              aws.String(q.queueURL),
		MaxNumberOfMessages:   int32(limit),
		MessageAttributeNames: []string{"All"},
		VisibilityTimeout:     int32(opts.VisibilityTimeout.Seconds()),
		WaitTimeSeconds:       int32(opts.WaitTime.Seconds()),
	})
	if err != nil {
		return nil, apperrors.NewExternalError("failed to receive queue message", err)
	}

	messages := make([]entities.QueueMessage, 0, len(out.Messages))
	for _, m := range out.Messages {
		attrs := make(map[string]string, len(m.MessageAttributes))
		for name, value := range m.MessageAttributes {
			if value.StringValue != nil {
				attrs[name] = *value.StringValue
			}
		}
		messages = append(messages, entities.QueueMessage{
			ID:            aws.ToString(m.MessageId),
			ReceiptHandle: aws.ToString(m.ReceiptHandle),
			Body:          aws.ToString(m.Body),
			Attributes:    attrs,
		})
	}
	return messages, nil
}

// Delete removes a received message
func (q *SQSQueue) Delete(ctx context.Context, receiptHandle string) error {
	_, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.queueURL),
		ReceiptHandle: aws.String(receiptHandle),
	})
	if err != nil {
		return apperrors.NewExternalError("failed to delete queue message", err)
	}
	return nil
}
