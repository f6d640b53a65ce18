package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./data/agent.db" description:"Path to the SQLite database file"`

	// Application configuration
	SourcesDir        string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing source configuration files"`
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for source processing"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"30" description:"Scheduler interval in seconds"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Fetch configuration
	RateLimit    int `long:"rate-limit" env:"RATE_LIMIT" default:"10" description:"Maximum requests per destination per rate window"`
	RateWindow   int `long:"rate-window" env:"RATE_WINDOW" default:"60" description:"Rate limit window in seconds"`
	MaxRetries   int `long:"max-retries" env:"MAX_RETRIES" default:"3" description:"Retry attempts for transient fetch failures"`
	FetchTimeout int `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30" description:"Per-request fetch timeout in seconds"`

	// Processing configuration
	AnomalyContamination float64 `long:"anomaly-contamination" env:"ANOMALY_CONTAMINATION" default:"0.1" description:"Expected fraction of anomalous rows"`
	ReviewThreshold      float64 `long:"review-threshold" env:"REVIEW_THRESHOLD" default:"0.5" description:"Anomaly score above which a batch requires review"`

	// Review configuration
	AutoApproveThreshold  float64 `long:"auto-approve-threshold" env:"AUTO_APPROVE_THRESHOLD" default:"0.8" description:"Completeness score at or above which review is skipped"`
	StrictAutoApprove     bool    `long:"strict-auto-approve" env:"STRICT_AUTO_APPROVE" description:"Require zero validation failures for auto-approval"`
	ReviewExpirationHours int     `long:"review-expiration-hours" env:"REVIEW_EXPIRATION_HOURS" default:"48" description:"Hours before a pending review expires"`
	SweepInterval         int     `long:"sweep-interval" env:"SWEEP_INTERVAL" default:"3600" description:"Review expiry sweep interval in seconds"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"IntelligentAgent/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:                raw.DBPath,
		SourcesDir:            raw.SourcesDir,
		Port:                  raw.Port,
		WorkerCount:           raw.WorkerCount,
		SchedulerInterval:     raw.SchedulerInterval,
		APIAccessKey:          raw.APIAccessKey,
		RateLimit:             raw.RateLimit,
		RateWindow:            raw.RateWindow,
		MaxRetries:            raw.MaxRetries,
		FetchTimeout:          raw.FetchTimeout,
		AnomalyContamination:  raw.AnomalyContamination,
		ReviewThreshold:       raw.ReviewThreshold,
		AutoApproveThreshold:  raw.AutoApproveThreshold,
		StrictAutoApprove:     raw.StrictAutoApprove,
		ReviewExpirationHours: raw.ReviewExpirationHours,
		SweepInterval:         raw.SweepInterval,
		UserAgent:             raw.UserAgent,
		Timezone:              raw.Timezone,
		Debug:                 raw.Debug,
		Version:               GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// Set replaces the global configuration. Intended for tests.
func Set(c *Cfg) {
	globalCfg = c
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
