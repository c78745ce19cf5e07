package forecast

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/rowset"
)

// ModelKindError tags the degenerate result returned when forecasting could
// not run. Callers treat it as a recoverable outcome, not a fault.
const ModelKindError = "error"

type HistoricalPoint struct {
	Date   time.Time `json:"date"`
	Actual float64   `json:"actual"`
}

type Point struct {
	Date       string  `json:"date"`
	Predicted  float64 `json:"predicted"`
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
}

type Result struct {
	Historical  []HistoricalPoint `json:"historical,omitempty"`
	Forecast    []Point           `json:"forecast"`
	ModelKind   string            `json:"model_kind"`
	PeriodCount int               `json:"period_count"`

	// Raw carries the unmodified input row-set when forecasting failed, so
	// the composer can still render the data it was given.
	Raw          *rowset.RowSet `json:"raw,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

type ColumnDetectionError struct {
	Axis string
}

func (e *ColumnDetectionError) Error() string {
	return fmt.Sprintf("could not detect %s column for forecasting", e.Axis)
}

type InsufficientDataError struct {
	Valid int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data points for forecasting: %d valid, minimum 3 required", e.Valid)
}

var dateNameKeywords = []string{"date", "time", "day", "month", "year", "period"}
var valueNameKeywords = []string{"sales", "revenue", "amount", "total", "price", "quantity", "value"}

// Engine fits a low-degree polynomial trend to a historical row-set and
// projects it forward with a symmetric confidence band.
type Engine struct{}

// Forecast never returns an error. Detection, cleaning, and sizing failures
// all collapse into a degenerate result with ModelKind "error", the original
// row-set attached, and an embedded message.
func (Engine) Forecast(rs rowset.RowSet, periodHint string) Result {
	series, err := prepare(rs)
	if err != nil {
		raw := rs
		return Result{
			Forecast:     []Point{},
			ModelKind:    ModelKindError,
			Raw:          &raw,
			ErrorMessage: err.Error(),
		}
	}

	periods := PeriodCount(periodHint)
	return project(series, periods)
}

// PeriodCount maps a free-text period hint to a number of forecast points.
// The count is always rendered as daily points regardless of the hint's
// granularity; preserved as-is for compatibility.
func PeriodCount(hint string) int {
	lower := strings.ToLower(hint)
	switch {
	case strings.Contains(lower, "day"):
		return 30
	case strings.Contains(lower, "week"):
		return 4
	case strings.Contains(lower, "month"):
		return 3
	case strings.Contains(lower, "quarter"):
		return 2
	case strings.Contains(lower, "year"):
		return 1
	default:
		return 30
	}
}

// DetectDateColumn scans columns in order for a date-like name, then for
// date-typed values.
func DetectDateColumn(rs rowset.RowSet) (string, bool) {
	for _, column := range rs.Columns {
		if containsAnyFold(column, dateNameKeywords) {
			return column, true
		}
	}
	for _, column := range rs.Columns {
		for _, record := range rs.Records {
			value, ok := record[column]
			if !ok || value == nil {
				continue
			}
			if _, isTime := value.(time.Time); isTime {
				return column, true
			}
			break
		}
	}
	return "", false
}

// DetectValueColumn prefers numeric columns with sales-like names, falling
// back to the first numeric column that is not the date axis.
func DetectValueColumn(rs rowset.RowSet, dateColumn string) (string, bool) {
	numeric := make([]string, 0, len(rs.Columns))
	for _, column := range rs.Columns {
		if column == dateColumn {
			continue
		}
		for _, record := range rs.Records {
			value, ok := record[column]
			if !ok || value == nil {
				continue
			}
			if rowset.IsNumeric(value) {
				numeric = append(numeric, column)
			}
			break
		}
	}

	for _, column := range numeric {
		if containsAnyFold(column, valueNameKeywords) {
			return column, true
		}
	}
	if len(numeric) > 0 {
		return numeric[0], true
	}
	return "", false
}

func prepare(rs rowset.RowSet) ([]HistoricalPoint, error) {
	dateColumn, ok := DetectDateColumn(rs)
	if !ok {
		return nil, &ColumnDetectionError{Axis: "date"}
	}
	valueColumn, ok := DetectValueColumn(rs, dateColumn)
	if !ok {
		return nil, &ColumnDetectionError{Axis: "value"}
	}

	series := make([]HistoricalPoint, 0, rs.Len())
	for _, record := range rs.Records {
		date, okDate := rowset.CoerceDate(record[dateColumn])
		value, okValue := rowset.CoerceFloat(record[valueColumn])
		if !okDate || !okValue {
			continue
		}
		series = append(series, HistoricalPoint{Date: date, Actual: value})
	}
	if len(series) < 3 {
		return nil, &InsufficientDataError{Valid: len(series)}
	}

	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series, nil
}

func project(series []HistoricalPoint, periods int) Result {
	first := series[0].Date
	xs := make([]float64, len(series))
	ys := make([]float64, len(series))
	for i, point := range series {
		xs[i] = daysBetween(first, point.Date)
		ys[i] = point.Actual
	}

	degree := 1
	if len(series) > 5 {
		degree = 2
	}
	coefficients := polyfit(xs, ys, degree)

	band := 0.5 * stddev(ys)
	last := series[len(series)-1].Date

	points := make([]Point, 0, periods)
	for i := 1; i <= periods; i++ {
		date := last.AddDate(0, 0, i)
		predicted := polyval(coefficients, daysBetween(first, date))
		points = append(points, Point{
			Date:       date.Format("2006-01-02"),
			Predicted:  predicted,
			LowerBound: math.Max(0, predicted-band),
			UpperBound: predicted + band,
		})
	}

	return Result{
		Historical:  series,
		Forecast:    points,
		ModelKind:   fmt.Sprintf("polynomial_degree_%d", degree),
		PeriodCount: periods,
	}
}

func daysBetween(from, to time.Time) float64 {
	return math.Floor(to.Sub(from).Hours() / 24)
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, value := range values {
		sum += value
	}
	mean := sum / float64(len(values))
	var variance float64
	for _, value := range values {
		variance += (value - mean) * (value - mean)
	}
	return math.Sqrt(variance / float64(len(values)))
}

func containsAnyFold(value string, keywords []string) bool {
	lower := strings.ToLower(value)
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
