package quality

import (
	"fmt"
	"regexp"
)

// Rule kinds.
const (
	RuleRange  = "range"
	RuleFormat = "format"
)

// Rule is a single declarative validation rule applied to one field.
type Rule struct {
	Type    string   `yaml:"type" json:"type"`
	Min     *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max     *float64 `yaml:"max,omitempty" json:"max,omitempty"`
	Pattern string   `yaml:"pattern,omitempty" json:"pattern,omitempty"`
}

// RuleSet maps field names to the rules applied to that field.
type RuleSet map[string][]Rule

// Validate checks that the rule definition itself is usable.
func (r Rule) Validate() error {
	switch r.Type {
	case RuleRange:
		if r.Min == nil && r.Max == nil {
			return fmt.Errorf("range rule requires min or max")
		}
	case RuleFormat:
		if r.Pattern == "" {
			return fmt.Errorf("format rule requires a pattern")
		}
		if _, err := regexp.Compile(r.Pattern); err != nil {
			return fmt.Errorf("invalid pattern: %w", err)
		}
	default:
		return fmt.Errorf("unknown rule type: %q", r.Type)
	}
	return nil
}

// Failure records one rule violation over a field, with the offending values.
type Failure struct {
	Field  string `json:"field"`
	Rule   string `json:"rule"`
	Values []any  `json:"values"`
}

// Report is the outcome of validating a record set.
type Report struct {
	Failures []Failure `json:"failures"`
	Warnings []string  `json:"warnings"`
}

// Anomalies is the outcome of statistical outlier detection over a record set.
type Anomalies struct {
	Score float64 `json:"anomaly_score"`
	Rows  []int   `json:"anomalous_rows"`
}

// Metrics are batch-level data quality measurements, each in [0,1].
type Metrics struct {
	Completeness float64 `json:"completeness"`
	Uniqueness   float64 `json:"uniqueness"`
	Consistency  float64 `json:"consistency"`
}
