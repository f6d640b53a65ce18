package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/review"
)

type SweepReviewsTask struct {
	Task
	reviewManager *review.Manager
}

func NewSweepReviewsTask(reviewManager *review.Manager) *SweepReviewsTask {
	return &SweepReviewsTask{
		Task:          NewTask(TaskTypeSweepReviews, ""),
		reviewManager: reviewManager,
	}
}

func (t *SweepReviewsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	expired, err := t.reviewManager.SweepExpired(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("review sweep failed: %w", err)
	}

	slog.Info("Task completed",
		"type", "SweepReviews",
		"duration", t.GetDuration(),
		"expired", expired)

	return nil
}
