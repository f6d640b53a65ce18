package api

import (
	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/database"
	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/pipeline"
	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/review"
	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/sources"
	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/tasks"
)

type Handler struct {
	repo          database.EntryRepository
	reviewManager *review.Manager
	configCache   *sources.ConfigCache
	orchestrator  *pipeline.Orchestrator
	scheduler     tasks.TaskSchedulerInterface
}

type reviewActionRequest struct {
	Reviewer string `json:"reviewer" binding:"required"`
	Reason   string `json:"reason"`
}

type entryResponse struct {
	ID             int64  `json:"id"`
	SourceURL      string `json:"source_url"`
	ContentHash    string `json:"content_hash"`
	CollectedAt    string `json:"collected_at"`
	ProcessedAt    string `json:"processed_at"`
	Data           any    `json:"data"`
	Metadata       any    `json:"metadata"`
	QualityMetrics any    `json:"quality_metrics"`
	ReviewStatus   string `json:"review_status"`
	RejectReason   string `json:"reject_reason,omitempty"`
	ReviewedAt     string `json:"reviewed_at,omitempty"`
	ReviewedBy     string `json:"reviewed_by,omitempty"`
}
