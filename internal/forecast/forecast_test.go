package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/rowset"
)

func dailySales(days int, base float64) rowset.RowSet {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	rs := rowset.RowSet{Columns: []string{"OrderDate", "DailySales"}}
	for i := 0; i < days; i++ {
		rs.Records = append(rs.Records, rowset.Record{
			"OrderDate":  start.AddDate(0, 0, i),
			"DailySales": base + float64(i)*10,
		})
	}
	return rs
}

func TestForecastWeeklyHintProducesFourPoints(t *testing.T) {
	rs := dailySales(10, 100)

	result := Engine{}.Forecast(rs, "next week")
	require.NotEqual(t, ModelKindError, result.ModelKind)
	assert.Equal(t, 4, result.PeriodCount)
	assert.Len(t, result.Forecast, 4)
	assert.Len(t, result.Historical, 10)
	// More than five observations fits a quadratic.
	assert.Equal(t, "polynomial_degree_2", result.ModelKind)
}

func TestForecastSmallSeriesUsesLinearModel(t *testing.T) {
	rs := dailySales(4, 100)

	result := Engine{}.Forecast(rs, "day")
	require.NotEqual(t, ModelKindError, result.ModelKind)
	assert.Equal(t, "polynomial_degree_1", result.ModelKind)
	assert.Equal(t, 30, result.PeriodCount)
}

func TestForecastPointsStartAfterLastObservation(t *testing.T) {
	rs := dailySales(10, 100)

	result := Engine{}.Forecast(rs, "week")
	require.Len(t, result.Forecast, 4)
	assert.Equal(t, "2025-06-11", result.Forecast[0].Date)
	assert.Equal(t, "2025-06-14", result.Forecast[3].Date)
}

func TestForecastRisingSeriesPredictsRisingValues(t *testing.T) {
	rs := dailySales(10, 100)

	result := Engine{}.Forecast(rs, "week")
	require.Len(t, result.Forecast, 4)
	last := result.Historical[len(result.Historical)-1].Actual
	assert.Greater(t, result.Forecast[0].Predicted, last-1)
	for i := 1; i < len(result.Forecast); i++ {
		assert.Greater(t, result.Forecast[i].Predicted, result.Forecast[i-1].Predicted)
	}
}

func TestForecastBoundsBracketPrediction(t *testing.T) {
	rs := dailySales(10, 100)

	result := Engine{}.Forecast(rs, "month")
	for _, point := range result.Forecast {
		assert.LessOrEqual(t, point.LowerBound, point.Predicted)
		assert.GreaterOrEqual(t, point.UpperBound, point.Predicted)
		assert.GreaterOrEqual(t, point.LowerBound, 0.0)
	}
}

func TestForecastLowerBoundClampedAtZero(t *testing.T) {
	// A steeply falling series drives predictions toward zero; bounds must
	// not go negative.
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	rs := rowset.RowSet{Columns: []string{"OrderDate", "DailySales"}}
	for i := 0; i < 5; i++ {
		rs.Records = append(rs.Records, rowset.Record{
			"OrderDate":  start.AddDate(0, 0, i),
			"DailySales": 100 - float64(i)*40,
		})
	}

	result := Engine{}.Forecast(rs, "month")
	require.NotEqual(t, ModelKindError, result.ModelKind)
	for _, point := range result.Forecast {
		assert.GreaterOrEqual(t, point.LowerBound, 0.0)
	}
}

func TestForecastInsufficientDataDegrades(t *testing.T) {
	rs := dailySales(2, 100)

	result := Engine{}.Forecast(rs, "week")
	assert.Equal(t, ModelKindError, result.ModelKind)
	assert.Empty(t, result.Forecast)
	require.NotNil(t, result.Raw)
	assert.Equal(t, 2, result.Raw.Len())
	assert.Contains(t, result.ErrorMessage, "insufficient data")
}

func TestForecastMissingDateColumnDegrades(t *testing.T) {
	rs := rowset.RowSet{
		Columns: []string{"ProductName", "TotalSales"},
		Records: []rowset.Record{
			{"ProductName": "Chai", "TotalSales": 100.0},
			{"ProductName": "Chang", "TotalSales": 200.0},
			{"ProductName": "Aniseed Syrup", "TotalSales": 300.0},
		},
	}

	result := Engine{}.Forecast(rs, "week")
	assert.Equal(t, ModelKindError, result.ModelKind)
	assert.Contains(t, result.ErrorMessage, "date")
}

func TestForecastSkipsInvalidRows(t *testing.T) {
	rs := dailySales(5, 100)
	rs.Records = append(rs.Records, rowset.Record{"OrderDate": "not a date", "DailySales": 1.0})
	rs.Records = append(rs.Records, rowset.Record{"OrderDate": time.Now().UTC(), "DailySales": nil})

	result := Engine{}.Forecast(rs, "week")
	require.NotEqual(t, ModelKindError, result.ModelKind)
	assert.Len(t, result.Historical, 5)
}

func TestForecastSortsUnorderedHistory(t *testing.T) {
	rs := dailySales(6, 100)
	rs.Records[0], rs.Records[5] = rs.Records[5], rs.Records[0]

	result := Engine{}.Forecast(rs, "week")
	require.NotEqual(t, ModelKindError, result.ModelKind)
	for i := 1; i < len(result.Historical); i++ {
		assert.True(t, result.Historical[i].Date.After(result.Historical[i-1].Date))
	}
}

func TestForecastIsDeterministic(t *testing.T) {
	rs := dailySales(10, 250)
	first := Engine{}.Forecast(rs, "quarter")
	for i := 0; i < 3; i++ {
		require.Equal(t, first, Engine{}.Forecast(rs, "quarter"))
	}
}

func TestPeriodCount(t *testing.T) {
	tests := []struct {
		hint string
		want int
	}{
		{"next 10 days", 30},
		{"a week from now", 4},
		{"3 months", 3},
		{"next quarter", 2},
		{"this year", 1},
		{"", 30},
		{"soon", 30},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PeriodCount(tt.hint), "hint %q", tt.hint)
	}
}

func TestDetectValueColumnPrefersSalesNames(t *testing.T) {
	rs := rowset.RowSet{
		Columns: []string{"OrderDate", "Rank", "DailySales"},
		Records: []rowset.Record{
			{"OrderDate": time.Now().UTC(), "Rank": int64(1), "DailySales": 42.0},
		},
	}
	column, ok := DetectValueColumn(rs, "OrderDate")
	require.True(t, ok)
	assert.Equal(t, "DailySales", column)
}
