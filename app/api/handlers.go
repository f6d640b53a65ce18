package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/database"
	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/pipeline"
	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/review"
	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/sources"
	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/tasks"
)

func NewHandler(repo database.EntryRepository, reviewManager *review.Manager,
	configCache *sources.ConfigCache, orchestrator *pipeline.Orchestrator,
	scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		repo:          repo,
		reviewManager: reviewManager,
		configCache:   configCache,
		orchestrator:  orchestrator,
		scheduler:     scheduler,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"status":    "ok",
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"sources":   h.configCache.GetConfigCount(),
	}

	if _, err := h.repo.GetStats(); err != nil {
		slog.Error("Health check database error", "error", err)
		health["status"] = "degraded"
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.repo.GetStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_stats", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": stats,
		"sources": gin.H{
			"configured": h.configCache.GetConfigCount(),
			"enabled":    len(h.configCache.GetEnabledConfigs()),
		},
	})
}

func (h *Handler) GetEntry(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	entry, err := h.repo.GetByID(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_entry", "entry_id", id, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
		return
	}

	c.JSON(http.StatusOK, toEntryResponse(*entry))
}

func (h *Handler) GetPendingReviews(c *gin.Context) {
	pending, err := h.reviewManager.Pending()
	if err != nil {
		slog.Error("Database error", "operation", "get_pending_reviews", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	reviews := make([]entryResponse, 0, len(pending))
	for _, entry := range pending {
		reviews = append(reviews, toEntryResponse(entry))
	}

	c.JSON(http.StatusOK, gin.H{"count": len(reviews), "reviews": reviews})
}

func (h *Handler) ApproveReview(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	var req reviewActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reviewer is required"})
		return
	}

	if err := h.reviewManager.Approve(id, req.Reviewer); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry_id": id, "review_status": database.StatusApproved})
}

func (h *Handler) RejectReview(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	var req reviewActionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Reason == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reviewer and reason are required"})
		return
	}

	if err := h.reviewManager.Reject(id, req.Reviewer, req.Reason); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry_id": id, "review_status": database.StatusRejected})
}

// ProcessSource enqueues an immediate pipeline run for one configured source.
func (h *Handler) ProcessSource(c *gin.Context) {
	name := c.Param("name")

	sourceConfig, err := h.configCache.GetConfig(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "source not found"})
		return
	}

	task := tasks.NewProcessSourceTask(sourceConfig.Name, sourceConfig, h.orchestrator)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Failed to enqueue manual processing", "source", name, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "task queue unavailable"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"source": name, "task_id": task.GetID()})
}

func (h *Handler) ListSources(c *gin.Context) {
	configs := h.configCache.GetConfigs()

	list := make([]gin.H, 0, len(configs))
	for _, config := range configs {
		list = append(list, gin.H{
			"name":             config.Name,
			"type":             config.Source.Type,
			"url":              config.Source.URL,
			"enabled":          config.Settings.Enabled,
			"refresh_interval": config.Settings.RefreshInterval,
			"review_required":  config.ReviewRequired(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"count": len(list), "sources": list})
}

func toEntryResponse(entry database.Entry) entryResponse {
	resp := entryResponse{
		ID:           entry.ID,
		SourceURL:    entry.SourceURL,
		ContentHash:  entry.ContentHash,
		CollectedAt:  entry.CollectedAt.Format(time.RFC3339),
		ProcessedAt:  entry.ProcessedAt.Format(time.RFC3339),
		ReviewStatus: entry.ReviewStatus,
		RejectReason: entry.RejectReason,
		ReviewedBy:   entry.ReviewedBy,
	}

	if entry.ReviewedAt != nil {
		resp.ReviewedAt = entry.ReviewedAt.Format(time.RFC3339)
	}

	// Stored JSON is passed through as-is; decode failures fall back to the
	// raw string rather than failing the response.
	if err := json.Unmarshal(entry.Data, &resp.Data); err != nil {
		resp.Data = string(entry.Data)
	}
	if err := json.Unmarshal(entry.Metadata, &resp.Metadata); err != nil {
		resp.Metadata = string(entry.Metadata)
	}
	if err := json.Unmarshal(entry.QualityMetrics, &resp.QualityMetrics); err != nil {
		resp.QualityMetrics = string(entry.QualityMetrics)
	}

	return resp
}
