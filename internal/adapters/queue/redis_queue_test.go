package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/diningconcierge/internal/domain/providers"
	redisclient "github.com/zatekoja/diningconcierge/internal/infrastructure/clients/redis"
)

func newTestQueue(t *testing.T) (*RedisQueue, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	q := NewRedisQueue(redisclient.Wrap(rdb), "RestaurantRequest")
	q.pollInterval = 5 * time.Millisecond
	return q, mr
}

func TestRedisQueue_SendReceiveDelete(t *testing.T) {
	ctx := context.Background()
	q, _ := newTestQueue(t)

	id, err := q.Send(ctx, "user restaurant request", map[string]string{"Cuisine": "italian", "Email": "a@b.com"})
	require.NoError(t, err)

	msgs, err := q.Receive(ctx, providers.ReceiveOptions{MaxMessages: 1})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, id, msgs[0].ID)
	assert.Equal(t, id, msgs[0].ReceiptHandle)
	assert.Equal(t, "user restaurant request", msgs[0].Body)
	assert.Equal(t, map[string]string{"Cuisine": "italian", "Email": "a@b.com"}, msgs[0].Attributes)

	require.NoError(t, q.Delete(ctx, msgs[0].ReceiptHandle))

	msgs, err = q.Receive(ctx, providers.ReceiveOptions{MaxMessages: 1})
	require.NoError(t, err)
	assert.Empty(t, msgs)

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisQueue_ZeroVisibilityRedelivers(t *testing.T) {
	ctx := context.Background()
	q, _ := newTestQueue(t)

	_, err := q.Send(ctx, "body", nil)
	require.NoError(t, err)

	first, err := q.Receive(ctx, providers.ReceiveOptions{MaxMessages: 1})
	require.NoError(t, err)
	second, err := q.Receive(ctx, providers.ReceiveOptions{MaxMessages: 1})
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestRedisQueue_VisibilityTimeoutHidesMessage(t *testing.T) {
	ctx := context.Background()
	q, mr := newTestQueue(t)

	_, err := q.Send(ctx, "first", nil)
	require.NoError(t, err)
	_, err = q.Send(ctx, "second", nil)
	require.NoError(t, err)

	opts := providers.ReceiveOptions{MaxMessages: 1, VisibilityTimeout: 30 * time.Second}

	msgs, err := q.Receive(ctx, opts)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "first", msgs[0].Body)

	msgs, err = q.Receive(ctx, opts)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "second", msgs[0].Body)

	msgs, err = q.Receive(ctx, opts)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	mr.FastForward(31 * time.Second)

	msgs, err = q.Receive(ctx, opts)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "first", msgs[0].Body)
}

func TestRedisQueue_ReceiveWaitsForMessage(t *testing.T) {
	ctx := context.Background()
	q, _ := newTestQueue(t)

	go func() {
		time.Sleep(20 * time.Millisecond)
		_, _ = q.Send(context.Background(), "late", nil)
	}()

	msgs, err := q.Receive(ctx, providers.ReceiveOptions{MaxMessages: 1, WaitTime: 2 * time.Second})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "late", msgs[0].Body)
}

func TestRedisQueue_ReceiveRespectsMaxMessages(t *testing.T) {
	ctx := context.Background()
	q, _ := newTestQueue(t)

	for i := 0; i < 3; i++ {
		_, err := q.Send(ctx, "body", nil)
		require.NoError(t, err)
	}

	msgs, err := q.Receive(ctx, providers.ReceiveOptions{MaxMessages: 2})
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}
