package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		Port:                  "8080",
		DBPath:                "./data/agent.db",
		SourcesDir:            "./sources",
		WorkerCount:           5,
		SchedulerInterval:     30,
		RateLimit:             10,
		RateWindow:            60,
		MaxRetries:            3,
		FetchTimeout:          30,
		AnomalyContamination:  0.1,
		ReviewThreshold:       0.5,
		AutoApproveThreshold:  0.8,
		ReviewExpirationHours: 48,
		UserAgent:             "Test Agent",
		Timezone:              "UTC",
		Debug:                 true,
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.RateLimit != 10 {
		t.Errorf("Expected rate limit 10, got %d", cfg.RateLimit)
	}
	if cfg.AutoApproveThreshold != 0.8 {
		t.Errorf("Expected auto-approve threshold 0.8, got %f", cfg.AutoApproveThreshold)
	}
	if cfg.ReviewExpirationHours != 48 {
		t.Errorf("Expected review expiration 48 hours, got %d", cfg.ReviewExpirationHours)
	}
}

func TestSetAndGet(t *testing.T) {
	original := globalCfg
	defer func() { globalCfg = original }()

	c := &Cfg{Port: "9090"}
	Set(c)

	if Get().Port != "9090" {
		t.Errorf("Expected port '9090' from Get(), got '%s'", Get().Port)
	}
}
