package quality

import (
	"math"
	"sort"

	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/clean"
)

// outlierCutoff is the modified z-score above which a row counts as an
// outlier. 3.5 is the conventional cutoff for median/MAD scoring.
const outlierCutoff = 3.5

type Detector struct {
	contamination float64
}

// NewDetector builds an outlier detector. Contamination caps the fraction
// of rows that can be flagged in one batch.
func NewDetector(contamination float64) *Detector {
	if contamination <= 0 || contamination > 1 {
		contamination = 0.1
	}
	return &Detector{contamination: contamination}
}

// Run scores the numeric columns of the record set. Records without numeric
// columns produce a zero score and no anomalous rows. Missing numeric values
// are imputed with the column mean before scoring. The returned score is the
// fraction of rows flagged.
func (d *Detector) Run(records []clean.Record) Anomalies {
	result := Anomalies{Rows: []int{}}
	if len(records) == 0 {
		return result
	}

	columns := numericColumns(records)
	if len(columns) == 0 {
		return result
	}

	matrix := buildMatrix(records, columns)

	rowScores := make([]float64, len(records))
	for c := range columns {
		column := make([]float64, len(records))
		for r := range matrix {
			column[r] = matrix[r][c]
		}
		scores := modifiedZScores(column)
		for r, s := range scores {
			if s > rowScores[r] {
				rowScores[r] = s
			}
		}
	}

	type scored struct {
		row   int
		score float64
	}
	var flagged []scored
	for r, s := range rowScores {
		if s > outlierCutoff {
			flagged = append(flagged, scored{row: r, score: s})
		}
	}

	// Keep at most the contamination fraction, preferring the worst rows.
	limit := int(math.Ceil(d.contamination * float64(len(records))))
	if len(flagged) > limit {
		sort.Slice(flagged, func(i, j int) bool { return flagged[i].score > flagged[j].score })
		flagged = flagged[:limit]
	}

	for _, f := range flagged {
		result.Rows = append(result.Rows, f.row)
	}
	sort.Ints(result.Rows)
	result.Score = float64(len(result.Rows)) / float64(len(records))

	return result
}

// numericColumns returns the columns whose present values are all numeric,
// in sorted order.
func numericColumns(records []clean.Record) []string {
	columns := make(map[string]bool)
	for _, record := range records {
		for col, val := range record {
			if val == nil {
				continue
			}
			if _, ok := val.(float64); !ok {
				columns[col] = false
			} else if _, seen := columns[col]; !seen {
				columns[col] = true
			}
		}
	}

	var result []string
	for col, numeric := range columns {
		if numeric {
			result = append(result, col)
		}
	}
	sort.Strings(result)
	return result
}

// buildMatrix extracts the numeric columns into a dense matrix, imputing
// missing cells with the column mean.
func buildMatrix(records []clean.Record, columns []string) [][]float64 {
	matrix := make([][]float64, len(records))
	for r := range matrix {
		matrix[r] = make([]float64, len(columns))
	}

	for c, col := range columns {
		var sum float64
		var count int
		for _, record := range records {
			if v, ok := record[col].(float64); ok {
				sum += v
				count++
			}
		}
		mean := 0.0
		if count > 0 {
			mean = sum / float64(count)
		}

		for r, record := range records {
			if v, ok := record[col].(float64); ok {
				matrix[r][c] = v
			} else {
				matrix[r][c] = mean
			}
		}
	}

	return matrix
}

// modifiedZScores computes |x - median| / (1.4826 * MAD) per value. A
// constant column (MAD of zero) yields all-zero scores.
func modifiedZScores(values []float64) []float64 {
	med := medianOf(values)

	deviations := make([]float64, len(values))
	for i, v := range values {
		deviations[i] = math.Abs(v - med)
	}
	mad := medianOf(deviations)

	scores := make([]float64, len(values))
	scale := 1.4826 * mad
	if scale == 0 {
		return scores
	}
	for i, dev := range deviations {
		scores[i] = dev / scale
	}
	return scores
}

func medianOf(values []float64) float64 {
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
