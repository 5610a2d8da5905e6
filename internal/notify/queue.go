package notify

import (
	"context"
	"encoding/json"
	"errors"

	redis "github.com/redis/go-redis/v9"
)

const queueKey = "notify:queue"

var ErrQueueUnavailable = errors.New("notification queue unavailable")

// Notification is one message for the delivery pipeline downstream.
// Delivery itself is not this engine's problem; we only enqueue, and
// the consumer guarantees at-least-once.
type Notification struct {
	RecipientEmail string `json:"recipient_email"`
	Title          string `json:"title"`
	Body           string `json:"body"`
}

// Queue is the notification boundary.
type Queue interface {
	Enqueue(ctx context.Context, n Notification) error
}

// RedisQueue pushes notifications onto a Redis list consumed by the
// delivery workers.
type RedisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

func (q *RedisQueue) Enqueue(ctx context.Context, n Notification) error {
	if q.client == nil {
		return ErrQueueUnavailable
	}
	raw, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, queueKey, raw).Err()
}
