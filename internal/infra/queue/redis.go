package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"voiceletter/internal/domain"
)

// RedisDraftQueue реализует очередь задач на базе Redis lists.
type RedisDraftQueue struct {
	client *redis.Client
	key    string
}

var _ domain.DraftQueue = (*RedisDraftQueue)(nil)

// NewRedisDraftQueue создаёт очередь по указанному ключу.
func NewRedisDraftQueue(client *redis.Client, key string) *RedisDraftQueue {
	return &RedisDraftQueue{client: client, key: key}
}

// Enqueue публикует задачу в очередь.
func (q *RedisDraftQueue) Enqueue(ctx context.Context, job domain.DraftJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("push job: %w", err)
	}
	return nil
}

// Receive блокирующе читает задачу из очереди. Подтверждение с success=false
// возвращает задачу в хвост очереди для повторной доставки.
func (q *RedisDraftQueue) Receive(ctx context.Context) (domain.DraftJob, domain.DraftAckFunc, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.DraftJob{}, nil, err
		}

		res, err := q.client.BRPop(ctx, time.Second, q.key).Result()
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				if ctx.Err() != nil {
					return domain.DraftJob{}, nil, ctx.Err()
				}
				continue
			}
			if errors.Is(err, redis.Nil) {
				continue
			}
			return domain.DraftJob{}, nil, err
		}
		if len(res) != 2 {
			return domain.DraftJob{}, nil, errors.New("redis queue: unexpected response")
		}
		raw := res[1]
		var job domain.DraftJob
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			return domain.DraftJob{}, nil, fmt.Errorf("decode job: %w", err)
		}
		ack := func(success bool) error {
			if success {
				return nil
			}
			return q.client.LPush(context.Background(), q.key, raw).Err()
		}
		return job, ack, nil
	}
}
