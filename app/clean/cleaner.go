package clean

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	tagExpr        = regexp.MustCompile(`<[^>]+>`)
	punctExpr      = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)
	whitespaceExpr = regexp.MustCompile(`\s+`)
)

type Cleaner struct{}

func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Run normalizes heterogeneous raw input into a canonical record set.
// With the "auto" hint, parser attempts run in a fixed order: structured
// input, JSON, delimited table, then free-text cleaning as the fallback.
func (c *Cleaner) Run(raw any, formatHint string) ([]Record, error) {
	switch formatHint {
	case FormatAuto, "":
		if records, ok := parseStructured(raw); ok {
			return c.cleanTable(records), nil
		}
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("unable to process input of type %T", raw)
		}
		if records, ok := parseJSON(s); ok {
			return c.cleanTable(records), nil
		}
		if records, ok := parseCSV(s); ok {
			return c.cleanTable(records), nil
		}
		return c.cleanFreeText(s), nil

	case FormatJSON:
		s, ok := raw.(string)
		if !ok {
			if records, ok := parseStructured(raw); ok {
				return c.cleanTable(records), nil
			}
			return nil, fmt.Errorf("unable to process input of type %T as JSON", raw)
		}
		records, ok := parseJSON(s)
		if !ok {
			return nil, fmt.Errorf("failed to parse JSON input")
		}
		return c.cleanTable(records), nil

	case FormatCSV:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("unable to process input of type %T as CSV", raw)
		}
		records, ok := parseCSV(s)
		if !ok {
			return nil, fmt.Errorf("failed to parse CSV input")
		}
		return c.cleanTable(records), nil

	case FormatText:
		s, ok := raw.(string)
		if !ok {
			s = fmt.Sprintf("%v", raw)
		}
		return c.cleanFreeText(s), nil

	default:
		return nil, fmt.Errorf("unsupported format: %q", formatHint)
	}
}

func (c *Cleaner) cleanFreeText(s string) []Record {
	return []Record{{TextField: CleanText(s)}}
}

// cleanTable applies the tabular cleaning steps: duplicate removal, missing
// value imputation (median for numeric columns, mode for categorical ones)
// and text normalization of categorical cells.
func (c *Cleaner) cleanTable(records []Record) []Record {
	records = coerceValues(records)
	records = dropDuplicates(records)

	columns := columnNames(records)
	for _, col := range columns {
		if isNumericColumn(records, col) {
			fillNumeric(records, col)
		} else {
			fillCategorical(records, col)
			for _, record := range records {
				if s, ok := record[col].(string); ok {
					record[col] = CleanText(s)
				}
			}
		}
	}

	return records
}

// CleanText normalizes a text value: unicode normalization, lowercasing,
// HTML tag stripping, punctuation removal (underscores and alphanumerics
// survive) and whitespace collapsing.
func CleanText(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	s = tagExpr.ReplaceAllString(s, " ")
	s = punctExpr.ReplaceAllString(s, " ")
	s = whitespaceExpr.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// coerceValues maps arbitrary decoded values onto the canonical cell types.
func coerceValues(records []Record) []Record {
	for _, record := range records {
		for col, val := range record {
			record[col] = coerceCell(val)
		}
	}
	return records
}

func coerceCell(val any) any {
	switch v := val.(type) {
	case nil:
		return nil
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func columnNames(records []Record) []string {
	seen := make(map[string]struct{})
	var columns []string
	for _, record := range records {
		for col := range record {
			if _, ok := seen[col]; !ok {
				seen[col] = struct{}{}
				columns = append(columns, col)
			}
		}
	}
	sort.Strings(columns)
	return columns
}

func dropDuplicates(records []Record) []Record {
	seen := make(map[string]struct{}, len(records))
	result := make([]Record, 0, len(records))
	for _, record := range records {
		key := recordKey(record)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, record)
	}
	return result
}

func recordKey(record Record) string {
	cols := make([]string, 0, len(record))
	for col := range record {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	var b strings.Builder
	for _, col := range cols {
		b.WriteString(col)
		b.WriteByte('=')
		b.WriteString(fmt.Sprintf("%v", record[col]))
		b.WriteByte('\x1f')
	}
	return b.String()
}

// isNumericColumn reports whether every present value in the column is
// numeric. Columns with no present values are treated as categorical.
func isNumericColumn(records []Record, col string) bool {
	present := 0
	for _, record := range records {
		val, ok := record[col]
		if !ok || val == nil {
			continue
		}
		if _, ok := val.(float64); !ok {
			return false
		}
		present++
	}
	return present > 0
}

func fillNumeric(records []Record, col string) {
	var values []float64
	for _, record := range records {
		if v, ok := record[col].(float64); ok {
			values = append(values, v)
		}
	}
	med := median(values)
	for _, record := range records {
		if v, ok := record[col]; !ok || v == nil {
			record[col] = med
		}
	}
}

func fillCategorical(records []Record, col string) {
	counts := make(map[string]int)
	for _, record := range records {
		if s, ok := record[col].(string); ok {
			counts[s]++
		}
	}

	fill := "unknown"
	best := 0
	for s, n := range counts {
		if n > best || (n == best && s < fill) {
			fill = s
			best = n
		}
	}

	for _, record := range records {
		val, ok := record[col]
		if !ok || val == nil {
			record[col] = fill
			continue
		}
		if f, isNum := val.(float64); isNum {
			// Mixed column: stringify stray numbers so the column has one type.
			record[col] = strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
