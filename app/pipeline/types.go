package pipeline

import (
	"time"

	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/clean"
	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/entities"
	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/quality"
)

type Status string

const (
	StatusSuccess   Status = "success"
	StatusUnchanged Status = "unchanged"
	StatusError     Status = "error"
)

type Outcome string

const (
	OutcomeStored    Outcome = "stored"
	OutcomeDuplicate Outcome = "duplicate"
)

// collection is the outcome of the collect stage.
type collection struct {
	SourceURL   string
	Content     string
	ContentHash string
	CollectedAt time.Time
}

// processed is the outcome of the process stage.
type processed struct {
	Records     []clean.Record
	Entities    []entities.Entity
	Validation  quality.Report
	Anomalies   quality.Anomalies
	Metrics     quality.Metrics
	NeedsReview bool
	ProcessedAt time.Time
}

// ResultMetadata aggregates per-stage measurements into the final result.
type ResultMetadata struct {
	ContentHash        string  `json:"content_hash,omitempty"`
	ContentLength      int     `json:"content_length,omitempty"`
	EntityCount        int     `json:"entities_found"`
	ValidationFailures int     `json:"validation_failures"`
	AnomalyScore       float64 `json:"anomaly_score"`
}

// Result is the per-source pipeline outcome. Failed sources carry
// Status=error with a human-readable message and never abort a batch.
type Result struct {
	Status       Status          `json:"status"`
	Source       string          `json:"source,omitempty"`
	SourceURL    string          `json:"source_url"`
	Outcome      Outcome         `json:"outcome,omitempty"`
	EntryID      int64           `json:"entry_id,omitempty"`
	ReviewStatus string          `json:"review_status,omitempty"`
	NeedsReview  bool            `json:"needs_review"`
	Quality      quality.Metrics `json:"quality_metrics"`
	Metadata     ResultMetadata  `json:"metadata"`
	CollectedAt  time.Time       `json:"collected_at,omitzero"`
	ProcessedAt  time.Time       `json:"processed_at,omitzero"`
	StoredAt     time.Time       `json:"stored_at,omitzero"`
	Error        string          `json:"error,omitempty"`
}
