package queue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/diningconcierge/internal/domain/entities"
	"github.com/zatekoja/diningconcierge/internal/domain/providers"
	redisclient "github.com/zatekoja/diningconcierge/internal/infrastructure/clients/redis"
	apperrors "github.com/zatekoja/diningconcierge/pkg/errors"
)

const (
	bodyField       = "body"
	attributePrefix = "attr:"
	scanBatch       = 100
	maxReceive      = 10
)

// RedisQueue implements MessageQueue on a Redis list of message IDs. Each
// message body and its attributes live in a hash; the receipt handle is the
// message ID. A non-zero visibility timeout hides a received message behind a
// per-message lock key until the timeout expires.
type RedisQueue struct {
	client       *redisclient.Client
	name         string
	pollInterval time.Duration
}

var _ providers.MessageQueue = (*RedisQueue)(nil)

// NewRedisQueue creates a queue stored under keys prefixed with queue:<name>
func NewRedisQueue(client *redisclient.Client, name string) *RedisQueue {
	return &RedisQueue{
		client:       client,
		name:         name,
		pollInterval: 100 * time.Millisecond,
	}
}

func (q *RedisQueue) listKey() string {
	return "queue:" + q.name
}

func (q *RedisQueue) messageKey(id string) string {
	return fmt.Sprintf("queue:%s:message:%s", q.name, id)
}

func (q *RedisQueue) lockKey(id string) string {
	return fmt.Sprintf("queue:%s:lock:%s", q.name, id)
}

// Send enqueues a message and returns its ID
func (q *RedisQueue) Send(ctx context.Context, body string, attributes map[string]string) (string, error) {
	id := uuid.NewString()

	fields := make(map[string]interface{}, len(attributes)+1)
	fields[bodyField] = body
	for name, value := range attributes {
		fields[attributePrefix+name] = value
	}

	pipe := q.client.Client().TxPipeline()
	pipe.HSet(ctx, q.messageKey(id), fields)
	pipe.RPush(ctx, q.listKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", apperrors.NewExternalError("failed to enqueue message", err)
	}

	return id, nil
}

// Receive returns up to opts.MaxMessages visible messages in FIFO order. With a
// zero WaitTime it returns immediately; otherwise it polls until a message is
// visible or the wait time elapses.
func (q *RedisQueue) Receive(ctx context.Context, opts providers.ReceiveOptions) ([]entities.QueueMessage, error) {
	limit := opts.MaxMessages
	if limit <= 0 {
		limit = 1
	}
	if limit > maxReceive {
		limit = maxReceive
	}

	deadline := time.Now().Add(opts.WaitTime)
	for {
		messages, err := q.receiveOnce(ctx, limit, opts.VisibilityTimeout)
		if err != nil {
			return nil, err
		}
		if len(messages) > 0 || opts.WaitTime <= 0 || !time.Now().Before(deadline) {
			return messages, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(q.pollInterval):
		}
	}
}

func (q *RedisQueue) receiveOnce(ctx context.Context, limit int, visibility time.Duration) ([]entities.QueueMessage, error) {
	rdb := q.client.Client()
	messages := make([]entities.QueueMessage, 0, limit)

	for start := int64(0); len(messages) < limit; start += scanBatch {
		ids, err := rdb.LRange(ctx, q.listKey(), start, start+scanBatch-1).Result()
		if err != nil {
			return nil, apperrors.NewExternalError("failed to read queue", err)
		}
		if len(ids) == 0 {
			break
		}

		for _, id := range ids {
			if visibility > 0 {
				acquired, err := rdb.SetNX(ctx, q.lockKey(id), 1, visibility).Result()
				if err != nil {
					return nil, apperrors.NewExternalError("failed to lock message", err)
				}
				if !acquired {
					continue
				}
			}

			fields, err := rdb.HGetAll(ctx, q.messageKey(id)).Result()
			if err != nil {
				return nil, apperrors.NewExternalError("failed to read message", err)
			}
			// deleted by another consumer between LRANGE and HGETALL
			if len(fields) == 0 {
				continue
			}

			messages = append(messages, decodeMessage(id, fields))
			if len(messages) == limit {
				break
			}
		}

		if len(ids) < scanBatch {
			break
		}
	}

	return messages, nil
}

func decodeMessage(id string, fields map[string]string) entities.QueueMessage {
	msg := entities.QueueMessage{
		ID:            id,
		ReceiptHandle: id,
		Body:          fields[bodyField],
		Attributes:    make(map[string]string, len(fields)-1),
	}
	for key, value := range fields {
		if name, ok := strings.CutPrefix(key, attributePrefix); ok {
			msg.Attributes[name] = value
		}
	}
	return msg
}

// Delete removes a received message. Deleting an unknown handle is a no-op.
func (q *RedisQueue) Delete(ctx context.Context, receiptHandle string) error {
	pipe := q.client.Client().TxPipeline()
	pipe.LRem(ctx, q.listKey(), 0, receiptHandle)
	pipe.Del(ctx, q.messageKey(receiptHandle), q.lockKey(receiptHandle))
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.NewExternalError("failed to delete message", err)
	}
	return nil
}

// Len returns the number of messages still in the queue
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	n, err := q.client.Client().LLen(ctx, q.listKey()).Result()
	if err != nil {
		return 0, apperrors.NewExternalError("failed to read queue length", err)
	}
	return n, nil
}
