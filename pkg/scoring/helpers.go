package scoring

import (
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/esgscope/esgscope/pkg/esg"
)

// ErrNonFinite marks a NaN or infinite input or intermediate. The component
// that hit it contributes 0.
var ErrNonFinite = eris.New("non-finite value")

// InvalidSeriesError reports a series read by a component that holds a NaN
// or infinite value, usually a null or non-numeric entry in the input.
type InvalidSeriesError struct {
	Path string
}

func (e *InvalidSeriesError) Error() string {
	return "series " + e.Path + ": " + ErrNonFinite.Error()
}

// Is lets errors.Is match ErrNonFinite.
func (e *InvalidSeriesError) Is(target error) bool {
	return target == ErrNonFinite
}

// Reduction is the relative drop from the first to the last value, or 0 when
// there was no drop, fewer than two points, or a non-positive baseline.
func Reduction(s esg.MetricSeries) float64 {
	if s.Len() < 2 {
		return 0
	}
	first, _ := s.First()
	last, _ := s.Last()
	if first <= 0 || first <= last {
		return 0
	}
	return (first - last) / first
}

// Retention is the mean year-over-year retention rate: 1 for a pair that held
// or grew, current/previous for one that shrank. Pairs with a non-positive
// previous value are skipped. The result is clamped to [0, 1] and is 0 when
// no pair qualifies.
func Retention(s esg.MetricSeries) float64 {
	if s.Len() < 2 {
		return 0
	}
	var sum float64
	var n int
	for i := 1; i < len(s.Values); i++ {
		prev, cur := s.Values[i-1], s.Values[i]
		if prev <= 0 {
			continue
		}
		if cur >= prev {
			sum++
		} else {
			sum += cur / prev
		}
		n++
	}
	if n == 0 {
		return 0
	}
	return math.Min(1, math.Max(0, sum/float64(n)))
}

// Ratio divides num by den, giving 0 for a zero denominator.
func Ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// LastValue returns the last value of s, or 0 when it is empty.
func LastValue(s esg.MetricSeries) float64 {
	v, _ := s.Last()
	return v
}

// SumLast adds the last values of every series; empty series count as 0.
func SumLast(series ...esg.MetricSeries) float64 {
	var sum float64
	for _, s := range series {
		sum += LastValue(s)
	}
	return sum
}

// capContribution clamps v to [0, cap]. A non-finite v is an error.
func capContribution(v, limit float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNonFinite
	}
	return math.Max(0, math.Min(limit, v)), nil
}

// checkFinite fails when a series read by a component holds a NaN or
// infinite value.
func checkFinite(path string, s esg.MetricSeries) error {
	if !s.Finite() {
		return &InvalidSeriesError{Path: path}
	}
	return nil
}

func severityFor(contribution, limit float64) Severity {
	switch {
	case contribution <= 0:
		return SeverityHigh
	case contribution >= limit:
		return SeverityInfo
	case contribution < limit/2:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func pathString(path []string) string {
	return strings.Join(path, ".")
}

// missing returns evidence for a series that has no data.
func missing(path string) EvidenceItem {
	return EvidenceItem{
		Type:    EvidenceMissing,
		Summary: path + " has no data",
		Path:    path,
	}
}
