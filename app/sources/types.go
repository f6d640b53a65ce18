package sources

import (
	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/quality"
)

// Source type values accepted in configuration files.
const (
	TypeWebsite = "website"
	TypeAPI     = "api"
)

// Source describes a single data destination to collect from.
type Source struct {
	Type    string            `yaml:"type"`
	URL     string            `yaml:"url"`
	Method  string            `yaml:"method"`
	Params  map[string]string `yaml:"params"`
	Headers map[string]string `yaml:"headers"`
}

// Config is a per-source configuration file loaded from the sources directory.
type Config struct {
	Name       string            // Derived from filename (without .yml extension)
	Source     Source            `yaml:"source"`
	Settings   ConfigSettings    `yaml:"settings"`
	Selectors  map[string]string `yaml:"selectors"`
	Validation quality.RuleSet   `yaml:"validation"`
}

type ConfigSettings struct {
	Enabled         bool `yaml:"enabled"`
	RefreshInterval int  `yaml:"refresh_interval"` // seconds
	Timeout         int  `yaml:"timeout"`          // seconds
	SkipReview      bool `yaml:"skip_review"`      // store without human review even on quality flags
}

// ReviewRequired reports whether processed batches from this source go
// through the review queue when flagged.
func (c *Config) ReviewRequired() bool {
	return !c.Settings.SkipReview
}
