package queue

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"openpayflow/internal/domain/entities"
)

const deadLetterListKey = "dead:letter"

// DeadLetterQueue records deliveries that exhausted MaxDeliveryAttempts.
type DeadLetterQueue struct {
	rdb *redis.Client
}

func NewDeadLetterQueue(rdb *redis.Client) *DeadLetterQueue {
	return &DeadLetterQueue{rdb: rdb}
}

func (q *DeadLetterQueue) Append(ctx context.Context, dl *entities.DeadLetter) error {
	raw, err := json.Marshal(dl)
	if err != nil {
		return err
	}
	return q.rdb.RPush(ctx, deadLetterListKey, raw).Err()
}

// List returns up to limit dead-letter entries, most recent last (insertion order).
func (q *DeadLetterQueue) List(ctx context.Context, limit int64) ([]*entities.DeadLetter, error) {
	raws, err := q.rdb.LRange(ctx, deadLetterListKey, -limit, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*entities.DeadLetter, 0, len(raws))
	for _, raw := range raws {
		var dl entities.DeadLetter
		if err := json.Unmarshal([]byte(raw), &dl); err != nil {
			return nil, err
		}
		out = append(out, &dl)
	}
	return out, nil
}
