package quality

import (
	"math"
	"testing"

	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/clean"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMeasure_CompleteData(t *testing.T) {
	records := []clean.Record{
		{"a": 1.0, "b": "x"},
		{"a": 2.0, "b": "y"},
	}

	metrics := Measure(records)

	if metrics.Completeness != 1.0 {
		t.Errorf("Expected completeness 1.0, got %f", metrics.Completeness)
	}
	if metrics.Uniqueness != 1.0 {
		t.Errorf("Expected uniqueness 1.0, got %f", metrics.Uniqueness)
	}
}

func TestMeasure_MissingCells(t *testing.T) {
	records := []clean.Record{
		{"a": 1.0, "b": "x"},
		{"a": nil, "b": "y"},
	}

	metrics := Measure(records)

	// 1 missing cell out of 4.
	if !almostEqual(metrics.Completeness, 0.75) {
		t.Errorf("Expected completeness 0.75, got %f", metrics.Completeness)
	}
}

func TestMeasure_Uniqueness(t *testing.T) {
	records := []clean.Record{
		{"c": "red"},
		{"c": "red"},
		{"c": "blue"},
		{"c": "green"},
	}

	metrics := Measure(records)

	// 3 distinct values over 4 rows in the single column.
	if !almostEqual(metrics.Uniqueness, 0.75) {
		t.Errorf("Expected uniqueness 0.75, got %f", metrics.Uniqueness)
	}
}

func TestMeasure_ConsistencyPerfectCorrelation(t *testing.T) {
	records := []clean.Record{
		{"x": 1.0, "y": 2.0},
		{"x": 2.0, "y": 4.0},
		{"x": 3.0, "y": 6.0},
	}

	metrics := Measure(records)

	if !almostEqual(metrics.Consistency, 1.0) {
		t.Errorf("Expected consistency 1.0 for perfectly correlated columns, got %f", metrics.Consistency)
	}
}

func TestMeasure_ConsistencySingleNumericColumn(t *testing.T) {
	records := []clean.Record{
		{"x": 1.0, "label": "a"},
		{"x": 2.0, "label": "b"},
	}

	metrics := Measure(records)

	if metrics.Consistency != 1.0 {
		t.Errorf("Expected consistency 1.0 with fewer than two numeric columns, got %f", metrics.Consistency)
	}
}

func TestMeasure_EmptyInput(t *testing.T) {
	metrics := Measure(nil)

	if metrics.Completeness != 0 || metrics.Uniqueness != 0 {
		t.Errorf("Expected zero completeness and uniqueness for empty input, got %+v", metrics)
	}
	if metrics.Consistency != 1.0 {
		t.Errorf("Expected consistency 1.0 for empty input, got %f", metrics.Consistency)
	}
}

func TestCorrelation_UncorrelatedColumns(t *testing.T) {
	matrix := [][]float64{
		{1, 1},
		{2, 2},
		{3, 1},
		{4, 2},
	}

	corr := correlation(matrix, 0, 1)

	if math.Abs(corr) > 0.5 {
		t.Errorf("Expected weak correlation, got %f", corr)
	}
}
