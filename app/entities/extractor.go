package entities

import (
	"regexp"
	"strings"
)

// Entity is a named span of text with a coarse label.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

var (
	emailExpr   = regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`)
	urlExpr     = regexp.MustCompile(`https?://[^\s<>"']+`)
	dateExpr    = regexp.MustCompile(`\b(?:\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{2,4}|(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* \d{1,2},? \d{4})\b`)
	moneyExpr   = regexp.MustCompile(`[$€£]\s?\d[\d,]*(?:\.\d+)?\b`)
	percentExpr = regexp.MustCompile(`\b\d+(?:\.\d+)?%`)
	nameExpr    = regexp.MustCompile(`\b[A-Z][a-z]+(?: [A-Z][a-z]+)+\b`)
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Run extracts named entities from free text using pattern heuristics.
// Duplicate spans are collapsed; the result is never nil.
func (e *Extractor) Run(text string) []Entity {
	result := []Entity{}
	seen := make(map[string]struct{})

	add := func(label string, matches []string) {
		for _, m := range matches {
			key := label + "\x1f" + m
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			result = append(result, Entity{Text: m, Label: label})
		}
	}

	add("EMAIL", emailExpr.FindAllString(text, -1))
	add("URL", urlExpr.FindAllString(text, -1))
	add("DATE", dateExpr.FindAllString(text, -1))
	add("MONEY", moneyExpr.FindAllString(text, -1))
	add("PERCENT", percentExpr.FindAllString(text, -1))

	for _, m := range nameExpr.FindAllString(text, -1) {
		if isSentenceArtifact(m) {
			continue
		}
		key := "NAME\x1f" + m
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, Entity{Text: m, Label: "NAME"})
	}

	return result
}

// isSentenceArtifact filters capitalized runs that are common sentence
// openers rather than names.
func isSentenceArtifact(s string) bool {
	first, _, _ := strings.Cut(s, " ")
	switch first {
	case "The", "This", "That", "These", "Those", "There", "When", "Where",
		"What", "Which", "While", "After", "Before", "During", "About":
		return true
	}
	return false
}
