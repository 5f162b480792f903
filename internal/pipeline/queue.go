package pipeline

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Enqueuer is what the intake handler sees of the queue.
type Enqueuer interface {
	Enqueue(id int64) bool
}

// Queue schedules verification runs on a fixed pool of workers. Submission
// creation enqueues a job after the HTTP response is sent; no caller ever
// awaits a run.
type Queue struct {
	jobs     chan int64
	verifier *Verifier
	workers  int
	logger   *zap.Logger
}

func NewQueue(verifier *Verifier, workers, size int, logger *zap.Logger) *Queue {
	return &Queue{
		jobs:     make(chan int64, size),
		verifier: verifier,
		workers:  workers,
		logger:   logger,
	}
}

// Enqueue schedules a submission for verification. It never blocks; when
// the queue is full the job is dropped and the submission stays InReview,
// visible to admins for manual re-triage.
func (q *Queue) Enqueue(id int64) bool {
	select {
	case q.jobs <- id:
		return true
	default:
		q.logger.Error("Verification queue full, dropping job", zap.Int64("submission_id", id))
		return false
	}
}

// Run starts the worker pool and blocks until ctx is cancelled.
func (q *Queue) Run(ctx context.Context) {
	q.logger.Info("Verification queue started", zap.Int("workers", q.workers))

	var wg sync.WaitGroup
	for i := 0; i < q.workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case id := <-q.jobs:
					q.verifier.Verify(ctx, id)
				}
			}
		}(i)
	}

	wg.Wait()
	q.logger.Info("Verification queue stopped")
}
