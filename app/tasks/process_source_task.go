package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/pipeline"
	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/sources"
)

type ProcessSourceTask struct {
	Task
	SourceConfig *sources.Config
	orchestrator *pipeline.Orchestrator
}

func NewProcessSourceTask(sourceName string, sourceConfig *sources.Config, orchestrator *pipeline.Orchestrator) *ProcessSourceTask {
	return &ProcessSourceTask{
		Task:         NewTask(TaskTypeProcessSource, sourceName),
		SourceConfig: sourceConfig,
		orchestrator: orchestrator,
	}
}

func (t *ProcessSourceTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.SourceConfig.Settings.Enabled {
		slog.Debug("Source disabled, skipping", "source", t.SourceName)
		return nil
	}

	result := t.orchestrator.Process(ctx, t.SourceConfig, t.SourceConfig.ReviewRequired())

	if result.Status == pipeline.StatusError {
		return fmt.Errorf("pipeline failed for source %s: %s", t.SourceName, result.Error)
	}

	slog.Info("Task completed",
		"type", "ProcessSource",
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"status", string(result.Status),
		"outcome", string(result.Outcome),
		"entry_id", result.EntryID,
		"needs_review", result.NeedsReview)

	return nil
}
