package sources

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSourceFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write source file: %v", err)
	}
}

const validWebsiteConfig = `source:
  type: website
  url: https://example.com/news
settings:
  enabled: true
  refresh_interval: 1800
selectors:
  title: h1
  body: .article-body
`

const validAPIConfig = `source:
  type: api
  url: https://api.example.com/v1/items
  method: POST
  params:
    limit: "50"
  headers:
    Accept: application/json
settings:
  enabled: false
validation:
  price:
    - type: range
      min: 0
`

func TestConfigCache_Run(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "news.yml", validWebsiteConfig)
	writeSourceFile(t, dir, "items.yml", validAPIConfig)
	writeSourceFile(t, dir, "ignored.txt", "not a config")

	cache := NewConfigCache(dir)
	if err := cache.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if cache.GetConfigCount() != 2 {
		t.Errorf("Expected 2 configs, got %d", cache.GetConfigCount())
	}

	config, err := cache.GetConfig("news")
	if err != nil {
		t.Fatalf("GetConfig failed: %v", err)
	}
	if config.Name != "news" {
		t.Errorf("Expected name from filename, got %q", config.Name)
	}
	if config.Source.Type != TypeWebsite {
		t.Errorf("Expected website type, got %q", config.Source.Type)
	}
	if config.Settings.RefreshInterval != 1800 {
		t.Errorf("Expected refresh interval 1800, got %d", config.Settings.RefreshInterval)
	}
	if config.Selectors["title"] != "h1" {
		t.Errorf("Expected title selector, got %q", config.Selectors["title"])
	}
}

func TestConfigCache_Defaults(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "minimal.yml", `source:
  type: website
  url: https://example.com
settings:
  enabled: true
`)

	cache := NewConfigCache(dir)
	config, err := cache.LoadConfig("minimal")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Settings.RefreshInterval != 3600 {
		t.Errorf("Expected default refresh interval 3600, got %d", config.Settings.RefreshInterval)
	}
	if config.Settings.Timeout != 30 {
		t.Errorf("Expected default timeout 30, got %d", config.Settings.Timeout)
	}
	if config.Source.Method != "GET" {
		t.Errorf("Expected default method GET, got %q", config.Source.Method)
	}
	if !config.ReviewRequired() {
		t.Error("Expected review required by default")
	}
}

func TestConfigCache_GetEnabledConfigs(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "on.yml", validWebsiteConfig)
	writeSourceFile(t, dir, "off.yml", validAPIConfig)

	cache := NewConfigCache(dir)
	if err := cache.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	enabled := cache.GetEnabledConfigs()
	if len(enabled) != 1 {
		t.Fatalf("Expected 1 enabled config, got %d", len(enabled))
	}
	if _, ok := enabled["on"]; !ok {
		t.Error("Expected 'on' to be enabled")
	}
}

func TestConfigCache_InvalidType(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "bad.yml", `source:
  type: ftp
  url: https://example.com
`)

	cache := NewConfigCache(dir)
	if _, err := cache.LoadConfig("bad"); err == nil {
		t.Error("Expected error for unsupported source type")
	}
}

func TestConfigCache_InvalidURL(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "bad.yml", `source:
  type: website
  url: not-a-url
`)

	cache := NewConfigCache(dir)
	if _, err := cache.LoadConfig("bad"); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestConfigCache_InvalidValidationRule(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "bad.yml", `source:
  type: api
  url: https://api.example.com
validation:
  price:
    - type: range
`)

	cache := NewConfigCache(dir)
	if _, err := cache.LoadConfig("bad"); err == nil {
		t.Error("Expected error for range rule without bounds")
	}
}

func TestConfigCache_MissingDirectory(t *testing.T) {
	cache := NewConfigCache("/nonexistent/sources")
	if err := cache.Run(); err != nil {
		t.Errorf("Expected missing directory to be tolerated, got %v", err)
	}
	if cache.GetConfigCount() != 0 {
		t.Errorf("Expected no configs, got %d", cache.GetConfigCount())
	}
}

func TestConfigCache_GetConfigNotFound(t *testing.T) {
	cache := NewConfigCache(t.TempDir())
	if _, err := cache.GetConfig("missing"); err == nil {
		t.Error("Expected error for unknown source")
	}
}
