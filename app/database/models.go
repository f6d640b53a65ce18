package database

import (
	"encoding/json"
	"time"
)

// Review status lifecycle: pending is the only non-terminal state; every
// other status is terminal and is reached at most once.
const (
	StatusPending             = "pending"
	StatusApproved            = "approved"
	StatusRejected            = "rejected"
	StatusAutoApprovedExpired = "auto_approved_expired"
)

// Entry is a stored processed batch. Data, Metadata and QualityMetrics are
// kept as serialized JSON; the storage layer does not interpret them.
type Entry struct {
	ID             int64
	SourceURL      string
	ContentHash    string
	CollectedAt    time.Time
	ProcessedAt    time.Time
	Data           json.RawMessage
	Metadata       json.RawMessage
	QualityMetrics json.RawMessage
	ReviewStatus   string
	RejectReason   string
	ReviewedAt     *time.Time
	ReviewedBy     string
	CreatedAt      time.Time
}

// Stats summarizes stored entries by review status.
type Stats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Expired  int `json:"expired"`
}
