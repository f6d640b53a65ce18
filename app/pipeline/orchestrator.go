package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/cfg"
	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/clean"
	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/database"
	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/entities"
	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/extract"
	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/fetch"
	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/quality"
	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/sources"
)

// Orchestrator drives the three-stage pipeline per source: collect, process,
// store. A non-success outcome at any stage short-circuits and is returned
// immediately; downstream stages are never invoked.
type Orchestrator struct {
	client          *fetch.Client
	extractor       *extract.Extractor
	cleaner         *clean.Cleaner
	entityExtractor *entities.Extractor
	validator       *quality.Validator
	detector        *quality.Detector
	repo            database.EntryRepository
	hashes          *HashCache

	reviewThreshold      float64
	autoApproveThreshold float64
	strictAutoApprove    bool
}

func NewOrchestrator(client *fetch.Client, repo database.EntryRepository) *Orchestrator {
	c := cfg.Get()

	return &Orchestrator{
		client:               client,
		extractor:            extract.NewExtractor(),
		cleaner:              clean.NewCleaner(),
		entityExtractor:      entities.NewExtractor(),
		validator:            quality.NewValidator(),
		detector:             quality.NewDetector(c.AnomalyContamination),
		repo:                 repo,
		hashes:               NewHashCache(),
		reviewThreshold:      c.ReviewThreshold,
		autoApproveThreshold: c.AutoApproveThreshold,
		strictAutoApprove:    c.StrictAutoApprove,
	}
}

// Process runs the full pipeline for one source. Every failure is returned
// as a tagged result; no error escapes to the caller.
func (o *Orchestrator) Process(ctx context.Context, config *sources.Config, reviewRequired bool) Result {
	result := Result{
		Status:    StatusError,
		Source:    config.Name,
		SourceURL: config.Source.URL,
	}

	col, err := o.collect(ctx, config)
	if err != nil {
		result.Error = fmt.Sprintf("collection failed: %v", err)
		slog.Error("Collection stage failed", "source", config.Name, "error", err)
		return result
	}
	result.CollectedAt = col.CollectedAt
	result.Metadata.ContentHash = col.ContentHash
	result.Metadata.ContentLength = len(col.Content)

	// Change detection gates the expensive stages: identical content to the
	// previous run means nothing downstream has work to do.
	if changed := o.hashes.CheckAndSet(col.SourceURL, col.ContentHash); !changed {
		slog.Info("No changes detected for source", "source", config.Name, "url", col.SourceURL)
		result.Status = StatusUnchanged
		return result
	}

	proc, err := o.process(col, config)
	if err != nil {
		result.Error = fmt.Sprintf("processing failed: %v", err)
		slog.Error("Processing stage failed", "source", config.Name, "error", err)
		return result
	}
	result.ProcessedAt = proc.ProcessedAt
	result.Quality = proc.Metrics
	result.Metadata.EntityCount = len(proc.Entities)
	result.Metadata.ValidationFailures = len(proc.Validation.Failures)
	result.Metadata.AnomalyScore = proc.Anomalies.Score

	needsReview := reviewRequired && proc.NeedsReview
	if needsReview && o.autoApproved(proc) {
		slog.Info("Auto-approved by quality gate", "source", config.Name,
			"completeness", proc.Metrics.Completeness, "threshold", o.autoApproveThreshold)
		needsReview = false
	}
	result.NeedsReview = needsReview

	entryID, outcome, reviewStatus, err := o.store(col, proc, needsReview)
	if err != nil {
		result.Error = fmt.Sprintf("storage failed: %v", err)
		slog.Error("Storage stage failed", "source", config.Name, "error", err)
		return result
	}

	result.Status = StatusSuccess
	result.Outcome = outcome
	result.EntryID = entryID
	result.ReviewStatus = reviewStatus
	result.StoredAt = time.Now().UTC()

	slog.Info("Source processed", "source", config.Name, "outcome", string(outcome),
		"entry_id", entryID, "needs_review", needsReview,
		"entities", len(proc.Entities), "failures", len(proc.Validation.Failures),
		"anomaly_score", proc.Anomalies.Score)

	return result
}

// Run processes every source, one result per source in input order. With
// parallel=true all pipelines are dispatched concurrently and the call
// returns once every source has resolved; an error in one source never
// cancels its siblings.
func (o *Orchestrator) Run(ctx context.Context, configs []*sources.Config, parallel bool) []Result {
	results := make([]Result, len(configs))

	if !parallel {
		for i, config := range configs {
			results[i] = o.Process(ctx, config, config.ReviewRequired())
		}
		return results
	}

	var g errgroup.Group
	for i, config := range configs {
		g.Go(func() error {
			results[i] = o.Process(ctx, config, config.ReviewRequired())
			return nil
		})
	}
	g.Wait()

	return results
}

// autoApproved applies the quality gate that overrides a review flag. In
// strict mode, validation failures always block auto-approval regardless of
// completeness.
func (o *Orchestrator) autoApproved(proc processed) bool {
	if proc.Metrics.Completeness < o.autoApproveThreshold {
		return false
	}
	if o.strictAutoApprove && len(proc.Validation.Failures) > 0 {
		return false
	}
	return true
}

func (o *Orchestrator) collect(ctx context.Context, config *sources.Config) (collection, error) {
	sourceURL := config.Source.URL
	parsed, err := url.Parse(sourceURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return collection{}, fmt.Errorf("invalid URL: %q", sourceURL)
	}

	// Per-source timeout bounds the whole collection, rate limit wait
	// included; the client's own timeout still caps each request.
	if t := config.Settings.Timeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(t)*time.Second)
		defer cancel()
	}

	var content string
	switch config.Source.Type {
	case sources.TypeWebsite:
		content, err = o.collectWebsite(ctx, config)
	case sources.TypeAPI:
		content, err = o.collectAPI(ctx, config)
	default:
		return collection{}, fmt.Errorf("unsupported source type: %q", config.Source.Type)
	}
	if err != nil {
		return collection{}, err
	}

	return collection{
		SourceURL:   sourceURL,
		Content:     content,
		ContentHash: ContentHash(content),
		CollectedAt: time.Now().UTC(),
	}, nil
}

// collectWebsite fetches the page and reduces it to canonical content: with
// configured selectors, the extracted fields serialized as JSON; without
// them, the readable main text.
func (o *Orchestrator) collectWebsite(ctx context.Context, config *sources.Config) (string, error) {
	markup, err := o.client.Get(ctx, config.Source.URL)
	if err != nil {
		return "", err
	}

	if len(config.Selectors) > 0 {
		fields, meta := o.extractor.Run(markup, config.Source.URL, config.Selectors)
		encoded, err := json.Marshal(map[string]any{"content": fields, "metadata": meta})
		if err != nil {
			return "", fmt.Errorf("failed to encode extraction: %w", err)
		}
		return string(encoded), nil
	}

	return o.extractor.MainText(markup, config.Source.URL), nil
}

func (o *Orchestrator) collectAPI(ctx context.Context, config *sources.Config) (string, error) {
	resp := o.client.Call(ctx, fetch.Request{
		Endpoint: config.Source.URL,
		Method:   config.Source.Method,
		Params:   config.Source.Params,
		Headers:  config.Source.Headers,
	})
	if !resp.Success {
		return "", fmt.Errorf("API call failed (status %d): %s", resp.StatusCode, resp.Err)
	}

	encoded, err := json.Marshal(resp.Data)
	if err != nil {
		return "", fmt.Errorf("failed to encode API response: %w", err)
	}
	return string(encoded), nil
}

func (o *Orchestrator) process(col collection, config *sources.Config) (processed, error) {
	records, err := o.cleaner.Run(col.Content, clean.FormatAuto)
	if err != nil {
		return processed{}, err
	}

	validation := o.validator.Run(records, config.Validation)
	anomalies := o.detector.Run(records)
	metrics := quality.Measure(records)

	return processed{
		Records:     records,
		Entities:    o.entityExtractor.Run(col.Content),
		Validation:  validation,
		Anomalies:   anomalies,
		Metrics:     metrics,
		NeedsReview: len(validation.Failures) > 0 || anomalies.Score > o.reviewThreshold,
		ProcessedAt: time.Now().UTC(),
	}, nil
}

func (o *Orchestrator) store(col collection, proc processed, needsReview bool) (int64, Outcome, string, error) {
	data, err := json.Marshal(proc.Records)
	if err != nil {
		return 0, "", "", fmt.Errorf("failed to encode records: %w", err)
	}

	metadata, err := json.Marshal(map[string]any{
		"entities":           proc.Entities,
		"validation_results": proc.Validation,
		"anomalies":          proc.Anomalies,
	})
	if err != nil {
		return 0, "", "", fmt.Errorf("failed to encode metadata: %w", err)
	}

	metrics, err := json.Marshal(proc.Metrics)
	if err != nil {
		return 0, "", "", fmt.Errorf("failed to encode quality metrics: %w", err)
	}

	reviewStatus := database.StatusApproved
	if needsReview {
		reviewStatus = database.StatusPending
	}

	id, created, err := o.repo.Insert(database.Entry{
		SourceURL:      col.SourceURL,
		ContentHash:    col.ContentHash,
		CollectedAt:    col.CollectedAt,
		ProcessedAt:    proc.ProcessedAt,
		Data:           data,
		Metadata:       metadata,
		QualityMetrics: metrics,
		ReviewStatus:   reviewStatus,
	})
	if err != nil {
		return 0, "", "", err
	}

	if !created {
		slog.Info("Duplicate content, store skipped", "url", col.SourceURL,
			"content_hash", col.ContentHash, "existing_id", id)
		existing, err := o.repo.GetByID(id)
		if err == nil && existing != nil {
			reviewStatus = existing.ReviewStatus
		}
		return id, OutcomeDuplicate, reviewStatus, nil
	}

	return id, OutcomeStored, reviewStatus, nil
}

// ContentHash is the deterministic digest used for change detection and
// store-time deduplication.
func ContentHash(content string) string {
	digest := sha256.Sum256([]byte(content))
	return hex.EncodeToString(digest[:])
}
