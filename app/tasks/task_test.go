package tasks

import (
	"testing"
)

func TestNewTask(t *testing.T) {
	task := NewTask(TaskTypeProcessSource, "my-source")

	if task.ID == "" {
		t.Error("Expected generated task ID")
	}
	if task.GetType() != TaskTypeProcessSource {
		t.Errorf("Unexpected type: %s", task.GetType())
	}
	if task.GetSourceName() != "my-source" {
		t.Errorf("Unexpected source name: %s", task.GetSourceName())
	}
	if task.GetMaxRetries() != DefaultMaxRetries {
		t.Errorf("Expected default max retries, got %d", task.GetMaxRetries())
	}

	other := NewTask(TaskTypeProcessSource, "my-source")
	if task.ID == other.ID {
		t.Error("Expected unique task IDs")
	}
}

func TestTask_Retries(t *testing.T) {
	task := NewTask(TaskTypeSweepReviews, "")

	for i := 0; i < DefaultMaxRetries; i++ {
		if !task.CanRetry() {
			t.Fatalf("Expected retry %d to be allowed", i)
		}
		task.IncrementRetryCount()
	}

	if task.CanRetry() {
		t.Error("Expected retries exhausted")
	}
	if task.GetRetryCount() != DefaultMaxRetries {
		t.Errorf("Expected retry count %d, got %d", DefaultMaxRetries, task.GetRetryCount())
	}
}

func TestTask_GetDuration(t *testing.T) {
	task := NewTask(TaskTypeProcessSource, "src")

	if task.GetDuration() != 0 {
		t.Error("Expected zero duration before start")
	}

	task.Start()
	if task.GetDuration() < 0 {
		t.Error("Expected non-negative duration after start")
	}
}
