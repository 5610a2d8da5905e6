package queue

import (
	"context"
	"errors"
	"time"

	"tutorpay/internal/domain"
	"tutorpay/internal/logger"

	"github.com/redis/go-redis/v9"
)

const verifyQueueKey = "verify:queue"

// VerifyQueue transports verification-requested events. Producers push
// a bare reference; the dispatcher pops and hands it to the verifier.
// Delivery is at-least-once, which the idempotent handler absorbs.
type VerifyQueue struct {
	rdb *redis.Client
}

func NewVerifyQueue(rdb *redis.Client) *VerifyQueue {
	return &VerifyQueue{rdb: rdb}
}

// Enqueue publishes a reference for asynchronous verification.
func (q *VerifyQueue) Enqueue(ctx context.Context, reference string) error {
	if q.rdb == nil {
		return errors.New("verification queue is not configured")
	}
	return q.rdb.LPush(ctx, verifyQueueKey, reference).Err()
}

// Verifier is the consumer side contract, satisfied by the transaction
// service's AutoVerify.
type Verifier interface {
	AutoVerify(ctx context.Context, reference string) (*domain.Transaction, error)
}

// Dispatcher pulls references off the queue and runs the verifier.
type Dispatcher struct {
	queue    *VerifyQueue
	verifier Verifier
	done     chan struct{}
	stopped  chan struct{}
}

func NewDispatcher(queue *VerifyQueue, verifier Verifier) *Dispatcher {
	return &Dispatcher{
		queue:    queue,
		verifier: verifier,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Run blocks on the queue until Stop is called. Handler errors are
// logged and the loop moves on; the reference stays verifiable through
// the manual path.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.stopped)
	logger.Info("verification dispatcher started")

	for {
		select {
		case <-d.done:
			return
		case <-ctx.Done():
			return
		default:
		}

		res, err := d.queue.rdb.BRPop(ctx, 5*time.Second, verifyQueueKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			logger.Error("failed to read from verification queue", "error", err)
			time.Sleep(time.Second)
			continue
		}
		if len(res) < 2 {
			continue
		}
		reference := res[1]

		if _, err := d.verifier.AutoVerify(ctx, reference); err != nil {
			logger.Error("verification handler failed", "reference", reference, "error", err)
		}
	}
}

func (d *Dispatcher) Stop() {
	close(d.done)
	<-d.stopped
}
