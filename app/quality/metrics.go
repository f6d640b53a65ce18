package quality

import (
	"fmt"
	"math"
	"sort"

	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/clean"
)

// Measure computes batch-level quality metrics over a cleaned record set:
// completeness (1 minus the mean fraction of missing cells), uniqueness
// (mean distinct-value count across columns divided by row count) and
// consistency (mean absolute pairwise correlation across numeric columns,
// 1.0 when fewer than two numeric columns exist).
func Measure(records []clean.Record) Metrics {
	if len(records) == 0 {
		return Metrics{Consistency: 1.0}
	}

	columns := allColumns(records)
	if len(columns) == 0 {
		return Metrics{Consistency: 1.0}
	}

	return Metrics{
		Completeness: completeness(records, columns),
		Uniqueness:   uniqueness(records, columns),
		Consistency:  consistency(records),
	}
}

func allColumns(records []clean.Record) []string {
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

func completeness(records []clean.Record, columns []string) float64 {
	total := len(records) * len(columns)
	missing := 0
	for _, record := range records {
		for _, col := range columns {
			if val, ok := record[col]; !ok || val == nil {
				missing++
			}
		}
	}
	return 1 - float64(missing)/float64(total)
}

func uniqueness(records []clean.Record, columns []string) float64 {
	var distinctSum float64
	for _, col := range columns {
		distinct := make(map[string]struct{})
		for _, record := range records {
			if val, ok := record[col]; ok && val != nil {
				distinct[fmt.Sprintf("%v", val)] = struct{}{}
			}
		}
		distinctSum += float64(len(distinct))
	}
	return distinctSum / float64(len(columns)) / float64(len(records))
}

func consistency(records []clean.Record) float64 {
	columns := numericColumns(records)
	if len(columns) < 2 {
		return 1.0
	}

	matrix := buildMatrix(records, columns)

	// Mean of the absolute correlation matrix, diagonal included.
	var sum float64
	var count int
	for i := range columns {
		for j := range columns {
			sum += math.Abs(correlation(matrix, i, j))
			count++
		}
	}
	return sum / float64(count)
}

func correlation(matrix [][]float64, a, b int) float64 {
	if a == b {
		return 1.0
	}

	n := float64(len(matrix))
	if n == 0 {
		return 0
	}

	var meanA, meanB float64
	for _, row := range matrix {
		meanA += row[a]
		meanB += row[b]
	}
	meanA /= n
	meanB /= n

	var cov, varA, varB float64
	for _, row := range matrix {
		da := row[a] - meanA
		db := row[b] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}

	if varA == 0 || varB == 0 {
		return 0
	}
	return cov / math.Sqrt(varA*varB)
}
