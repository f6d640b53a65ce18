package quality

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/clean"
)

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// Run applies the rule set to the records. A field absent from the record
// set yields a warning and is skipped; rules on present fields accumulate
// failures independently, so one record can appear in several failures.
func (v *Validator) Run(records []clean.Record, rules RuleSet) Report {
	report := Report{
		Failures: []Failure{},
		Warnings: []string{},
	}

	for field, fieldRules := range rules {
		if !fieldPresent(records, field) {
			report.Warnings = append(report.Warnings, fmt.Sprintf("Field %s not found in data", field))
			continue
		}

		for _, rule := range fieldRules {
			var violating []any

			switch rule.Type {
			case RuleRange:
				violating = rangeViolations(records, field, rule)
			case RuleFormat:
				violating = formatViolations(records, field, rule)
			}

			if len(violating) > 0 {
				report.Failures = append(report.Failures, Failure{
					Field:  field,
					Rule:   rule.Type,
					Values: violating,
				})
			}
		}
	}

	return report
}

func fieldPresent(records []clean.Record, field string) bool {
	for _, record := range records {
		if _, ok := record[field]; ok {
			return true
		}
	}
	return false
}

func rangeViolations(records []clean.Record, field string, rule Rule) []any {
	var violating []any
	for _, record := range records {
		val, ok := record[field]
		if !ok || val == nil {
			continue
		}
		f, ok := asFloat(val)
		if !ok {
			violating = append(violating, val)
			continue
		}
		if rule.Min != nil && f < *rule.Min {
			violating = append(violating, val)
			continue
		}
		if rule.Max != nil && f > *rule.Max {
			violating = append(violating, val)
		}
	}
	return violating
}

func formatViolations(records []clean.Record, field string, rule Rule) []any {
	pattern, err := regexp.Compile(rule.Pattern)
	if err != nil {
		return nil
	}

	var violating []any
	for _, record := range records {
		val, ok := record[field]
		if !ok || val == nil {
			continue
		}
		if !pattern.MatchString(asString(val)) {
			violating = append(violating, val)
		}
	}
	return violating
}

func asFloat(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func asString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
