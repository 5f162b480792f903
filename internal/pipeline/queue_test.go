package pipeline

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/BhargaviBandaru98/VNR-Wall/internal/models"
)

func TestQueue_ProcessesEnqueuedJob(t *testing.T) {
	env := newTestEnv()
	env.analyst.verdict = models.AIVerdict{ScamScore: 85, GenuineScore: 0, Confidence: models.ConfidenceHigh, RiskLevel: models.RiskHigh}
	sub := env.makeSubmission(t, "queued scam message", false)

	queue := NewQueue(env.verifier, 2, 16, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		queue.Run(ctx)
		close(done)
	}()

	if !queue.Enqueue(sub.ID) {
		t.Fatal("Enqueue returned false on an empty queue")
	}

	deadline := time.After(2 * time.Second)
	for {
		got, _ := env.repo.GetByID(sub.ID)
		if got.VerificationComplete() {
			if got.Status != models.StatusScam {
				t.Errorf("status = %s, want Scam", got.Status)
			}
			break
		}
		select {
		case <-deadline:
			t.Fatal("worker never processed the job")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}

func TestQueue_FullQueueDropsWithoutBlocking(t *testing.T) {
	env := newTestEnv()
	queue := NewQueue(env.verifier, 1, 1, zap.NewNop())

	// No workers running, so the single buffer slot is all there is.
	if !queue.Enqueue(1) {
		t.Fatal("first job should fit the buffer")
	}
	if queue.Enqueue(2) {
		t.Error("second job should be dropped, not block")
	}
}
