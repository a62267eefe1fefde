package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueReceipt = "jobs:receipt"
	QueueEmail   = "jobs:email"

	jobTypeReceipt = "receipt"
	jobTypeEmail   = "email"

	// maxJobAttempts includes the first try.
	maxJobAttempts = 3
)

// Job is the envelope stored in every queue.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// JobHandler processes one decoded payload. A non-nil error makes the pool
// retry with backoff and dead-letter the job after maxJobAttempts.
type JobHandler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// Handlers maps each queue to its worker. Nil handlers drop their jobs.
type Handlers struct {
	Receipt JobHandler
	Email   JobHandler
}

func (h *Handlers) forQueue(queue string) JobHandler {
	if h == nil {
		return nil
	}
	switch queue {
	case QueueReceipt:
		return h.Receipt
	case QueueEmail:
		return h.Email
	}
	return nil
}

// Dispatcher pushes jobs onto Redis lists (LPUSH); workers pop them with BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// ReceiptJobPayload asks for the receipt of a committed sale.
type ReceiptJobPayload struct {
	SaleID string `json:"sale_id"`
}

func (d *Dispatcher) EnqueueReceipt(ctx context.Context, p ReceiptJobPayload) error {
	return d.enqueue(ctx, QueueReceipt, jobTypeReceipt, p)
}

func (d *Dispatcher) EnqueueEmail(ctx context.Context, p EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, jobTypeEmail, p)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	if d == nil || d.rdb == nil {
		return errors.New("dispatcher: no redis client")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines that block on BRPOP over all
// queues until ctx is cancelled.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *Handlers, numWorkers int) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Int("workers", numWorkers).Msg("worker pool started")
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *Handlers, id int) {
	queues := []string{QueueReceipt, QueueEmail}
	failures := 0
	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		default:
			// Blocks up to 5s, then loops to observe ctx.
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil && !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				failures++
				wait := pollBackoff(failures)
				log.Warn().Int("worker", id).Err(err).Dur("retry_in", wait).Msg("queue poll failed")
				select {
				case <-ctx.Done():
				case <-time.After(wait):
				}
				continue
			}
			failures = 0
			if err != nil || len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

// pollBackoff is the pause after the n-th consecutive failed poll:
// 500ms doubling up to 30s.
func pollBackoff(n int) time.Duration {
	const (
		first = 500 * time.Millisecond
		limit = 30 * time.Second
	)
	if n < 1 {
		n = 1
	}
	if n > 7 {
		return limit
	}
	if d := first << uint(n-1); d < limit {
		return d
	}
	return limit
}

func processJob(ctx context.Context, rdb *redis.Client, handlers *Handlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	h := handlers.forQueue(queue)
	if h == nil {
		log.Warn().Str("queue", queue).Str("type", job.Type).Msg("no handler for queue, dropping job")
		return
	}

	attempts := 0
	err := withRetry(ctx, maxJobAttempts, time.Second, func(attempt int) error {
		attempts = attempt + 1
		return h.Process(ctx, job.Payload)
	})
	if err == nil {
		return
	}
	if errors.Is(err, errPermanent) {
		log.Error().Err(err).Str("queue", queue).Msg("job rejected")
	}
	// Shutdown cancels ctx mid-retry; the job must still reach its dead-letter list.
	deadLetter(context.WithoutCancel(ctx), rdb, queue, job, err, attempts)
}

// errPermanent marks payload errors that retrying cannot fix.
var errPermanent = errors.New("permanent job failure")

func permanent(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errPermanent, fmt.Sprintf(format, args...))
}

// withRetry calls fn up to maxAttempts times, waiting base, 2×base, 4×base...
// between attempts. Permanent errors stop the loop immediately.
func withRetry(ctx context.Context, maxAttempts int, base time.Duration, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(base << uint(i-1)):
			}
		}
		lastErr = fn(i)
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, errPermanent) {
			return lastErr
		}
		log.Warn().Err(lastErr).Int("attempt", i+1).Msg("job attempt failed")
	}
	return lastErr
}
