package clean

import (
	"encoding/csv"
	"encoding/json"
	"strconv"
	"strings"
)

// parseStructured accepts input that is already a mapping or a sequence of
// mappings and converts it to records without further parsing.
func parseStructured(raw any) ([]Record, bool) {
	switch v := raw.(type) {
	case []Record:
		return v, true
	case Record:
		return []Record{v}, true
	case map[string]any:
		return []Record{Record(v)}, true
	case []map[string]any:
		records := make([]Record, 0, len(v))
		for _, m := range v {
			records = append(records, Record(m))
		}
		return records, true
	case []any:
		records := make([]Record, 0, len(v))
		for _, elem := range v {
			m, ok := elem.(map[string]any)
			if !ok {
				return nil, false
			}
			records = append(records, Record(m))
		}
		return records, len(records) > 0
	default:
		return nil, false
	}
}

// parseJSON attempts to decode a JSON object or array of objects.
func parseJSON(s string) ([]Record, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, false
	}

	switch trimmed[0] {
	case '{':
		var m map[string]any
		if err := json.Unmarshal([]byte(trimmed), &m); err != nil {
			return nil, false
		}
		return []Record{Record(m)}, true
	case '[':
		var items []map[string]any
		if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
			return nil, false
		}
		records := make([]Record, 0, len(items))
		for _, m := range items {
			records = append(records, Record(m))
		}
		return records, true
	default:
		return nil, false
	}
}

// parseCSV attempts to decode a delimited table with a header row. A header
// without a delimiter is rejected so plain prose falls through to text
// cleaning instead of becoming a one-column table.
func parseCSV(s string) ([]Record, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, false
	}

	headerLine, _, _ := strings.Cut(trimmed, "\n")
	if !strings.Contains(headerLine, ",") {
		return nil, false
	}

	reader := csv.NewReader(strings.NewReader(trimmed))
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil || len(rows) < 2 {
		return nil, false
	}

	header := rows[0]
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(Record, len(header))
		for i, col := range header {
			record[col] = parseCell(row[i])
		}
		records = append(records, record)
	}

	return records, true
}

// parseCell converts a raw CSV cell to the canonical value types.
func parseCell(cell string) any {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f
	}
	return trimmed
}
