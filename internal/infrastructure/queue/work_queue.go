package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const webhookDeliveryListKey = "webhook:delivery"

// WorkQueue is the Redis-list work queue the Outbox Drainer pushes delivery
// ids onto and the Webhook Scheduler's queue consumer BLPOPs from.
type WorkQueue struct {
	rdb *redis.Client
}

func NewWorkQueue(rdb *redis.Client) *WorkQueue {
	return &WorkQueue{rdb: rdb}
}

// Push enqueues a delivery id for prompt first-attempt processing.
func (q *WorkQueue) Push(ctx context.Context, deliveryID uuid.UUID) error {
	return q.rdb.RPush(ctx, webhookDeliveryListKey, deliveryID.String()).Err()
}

// Pop blocks up to timeout for the next delivery id, returning (uuid.Nil, nil)
// on timeout so the caller's loop can re-check ctx.Done() and continue.
func (q *WorkQueue) Pop(ctx context.Context, timeout time.Duration) (uuid.UUID, error) {
	res, err := q.rdb.BLPop(ctx, timeout, webhookDeliveryListKey).Result()
	if err == redis.Nil {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, err
	}
	// BLPOP returns [key, value]; we only pushed one list.
	return uuid.Parse(res[1])
}
