package worker

import (
	"context"
	"encoding/json"
	"time"

	"motofix/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// deadLetterKey is where jobs of queue go once their retries are spent.
// Nothing consumes these lists; they are kept for manual replay.
func deadLetterKey(queue string) string { return "dlq:" + queue }

// DeadJob is one dead-lettered job.
type DeadJob struct {
	Job
	Queue    string    `json:"queue"`
	Error    string    `json:"error"`
	Attempts int       `json:"attempts"`
	FailedAt time.Time `json:"failed_at"`
}

// QueueStats is the backlog of one queue.
type QueueStats struct {
	Pending int64 `json:"pending"`
	Dead    int64 `json:"dead"`
}

func deadLetter(ctx context.Context, rdb *redis.Client, queue string, job Job, cause error, attempts int) {
	entry := DeadJob{Job: job, Queue: queue, Error: cause.Error(), Attempts: attempts, FailedAt: time.Now().UTC()}
	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("cannot encode dead job")
		return
	}
	if err := rdb.LPush(ctx, deadLetterKey(queue), data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).RawJSON("job", data).Msg("dead job lost")
		return
	}
	metrics.ObserveDeadLetter(queue)
	log.Warn().Str("queue", queue).Str("type", job.Type).Int("attempts", attempts).Err(cause).
		Msg("job dead-lettered")
}

// Stats reports pending and dead-lettered job counts per queue in one round trip.
func Stats(ctx context.Context, rdb *redis.Client) (map[string]QueueStats, error) {
	queues := []string{QueueReceipt, QueueEmail}
	pipe := rdb.Pipeline()
	pending := make([]*redis.IntCmd, len(queues))
	dead := make([]*redis.IntCmd, len(queues))
	for i, q := range queues {
		pending[i] = pipe.LLen(ctx, q)
		dead[i] = pipe.LLen(ctx, deadLetterKey(q))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}
	out := make(map[string]QueueStats, len(queues))
	for i, q := range queues {
		out[q] = QueueStats{Pending: pending[i].Val(), Dead: dead[i].Val()}
	}
	return out, nil
}
