package clean

import (
	"testing"
)

func TestCleaner_Run_FreeText(t *testing.T) {
	cleaner := NewCleaner()

	records, err := cleaner.Run("Hello,   World! <b>Bold</b> text.", FormatAuto)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("Expected 1 record for free text, got %d", len(records))
	}

	content, ok := records[0][TextField].(string)
	if !ok {
		t.Fatalf("Expected string content field, got %T", records[0][TextField])
	}
	if content != "hello world bold text" {
		t.Errorf("Expected normalized text 'hello world bold text', got %q", content)
	}
}

func TestCleaner_Run_JSONArray(t *testing.T) {
	cleaner := NewCleaner()

	input := `[{"name": "Alice", "age": 30}, {"name": "Bob", "age": 25}]`
	records, err := cleaner.Run(input, FormatAuto)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0]["name"] != "alice" {
		t.Errorf("Expected lowercased name 'alice', got %v", records[0]["name"])
	}
	if records[0]["age"] != 30.0 {
		t.Errorf("Expected numeric age 30, got %v", records[0]["age"])
	}
}

func TestCleaner_Run_CSV(t *testing.T) {
	cleaner := NewCleaner()

	input := "name,score\nAlice,10\nBob,20\n"
	records, err := cleaner.Run(input, FormatAuto)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[1]["score"] != 20.0 {
		t.Errorf("Expected score 20, got %v", records[1]["score"])
	}
}

func TestCleaner_Run_StructuredInput(t *testing.T) {
	cleaner := NewCleaner()

	input := []map[string]any{
		{"city": "Berlin", "population": 3700000},
		{"city": "Paris", "population": 2100000},
	}
	records, err := cleaner.Run(input, FormatAuto)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0]["population"] != 3700000.0 {
		t.Errorf("Expected numeric population, got %v", records[0]["population"])
	}
}

func TestCleaner_Run_DropsDuplicateRows(t *testing.T) {
	cleaner := NewCleaner()

	input := `[{"a": 1, "b": "x"}, {"a": 1, "b": "x"}, {"a": 2, "b": "y"}]`
	records, err := cleaner.Run(input, FormatAuto)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(records) != 2 {
		t.Errorf("Expected duplicates dropped to 2 records, got %d", len(records))
	}
}

func TestCleaner_Run_FillsNumericWithMedian(t *testing.T) {
	cleaner := NewCleaner()

	input := `[{"v": 10}, {"v": 20}, {"v": 30}, {"v": null}]`
	records, err := cleaner.Run(input, FormatAuto)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(records) != 4 {
		t.Fatalf("Expected 4 records, got %d", len(records))
	}
	if records[3]["v"] != 20.0 {
		t.Errorf("Expected missing value filled with median 20, got %v", records[3]["v"])
	}
}

func TestCleaner_Run_FillsCategoricalWithMode(t *testing.T) {
	cleaner := NewCleaner()

	input := `[{"c": "red"}, {"c": "red"}, {"c": "blue"}, {"c": null}]`
	records, err := cleaner.Run(input, FormatAuto)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if records[3]["c"] != "red" {
		t.Errorf("Expected missing value filled with mode 'red', got %v", records[3]["c"])
	}
}

func TestCleaner_Run_AllNullColumnUsesUnknown(t *testing.T) {
	cleaner := NewCleaner()

	input := `[{"c": null, "k": 1}, {"c": null, "k": 2}]`
	records, err := cleaner.Run(input, FormatAuto)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for i, record := range records {
		if record["c"] != "unknown" {
			t.Errorf("Record %d: expected 'unknown' sentinel, got %v", i, record["c"])
		}
	}
}

func TestCleaner_Run_UnsupportedFormat(t *testing.T) {
	cleaner := NewCleaner()

	if _, err := cleaner.Run("data", "xml"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "HELLO", "hello"},
		{"punctuation removed", "a, b; c!", "a b c"},
		{"underscores preserved", "snake_case stays", "snake_case stays"},
		{"tags stripped", "<div>text</div>", "text"},
		{"whitespace collapsed", "a   b\t\nc", "a b c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.input); got != tt.expected {
				t.Errorf("CleanText(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCleaner_Run_ProseIsNotCSV(t *testing.T) {
	cleaner := NewCleaner()

	records, err := cleaner.Run("A B C", FormatAuto)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("Expected a single free-text record, got %d", len(records))
	}
	if records[0][TextField] != "a b c" {
		t.Errorf("Expected cleaned content 'a b c', got %v", records[0][TextField])
	}
}
