package compose

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/forecast"
	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/intent"
	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/rowset"
)

func textIntent(guidance string) intent.Intent {
	return intent.Intent{
		Kind:             "query",
		SQLQuery:         "SELECT 1",
		Visualization:    intent.VisualizationText,
		ResponseGuidance: guidance,
		ResponseType:     "text",
	}
}

func salesRows(n int, each float64) rowset.RowSet {
	rs := rowset.RowSet{Columns: []string{"ProductName", "TotalSales"}}
	for i := 0; i < n; i++ {
		rs.Records = append(rs.Records, rowset.Record{"ProductName": "P", "TotalSales": each})
	}
	return rs
}

func TestComposeTextUsesGuidanceVerbatim(t *testing.T) {
	payload, err := Composer{}.Compose(textIntent("Chai leads all products."), "top products", salesRows(3, 100), nil)
	require.NoError(t, err)
	assert.Equal(t, "Chai leads all products.", payload.Text)
	assert.Equal(t, intent.VisualizationText, payload.Visualization)
	assert.Equal(t, 3, payload.DataRecordCount)
	assert.Len(t, payload.Data, 3)
	assert.Nil(t, payload.Chart)
	assert.False(t, payload.HasForecast)
}

func TestComposeTextSynthesizesSalesInsights(t *testing.T) {
	payload, err := Composer{}.Compose(textIntent(""), "how are sales doing", salesRows(4, 2000), nil)
	require.NoError(t, err)
	assert.Contains(t, payload.Text, "total sales of $8,000.00")
	assert.Contains(t, payload.Text, "average of $2,000.00")
	assert.Contains(t, payload.Text, "strong performance")
}

func TestComposeTextModeratePerformance(t *testing.T) {
	payload, err := Composer{}.Compose(textIntent(""), "sales summary", salesRows(4, 100), nil)
	require.NoError(t, err)
	assert.Contains(t, payload.Text, "moderate performance")
}

func TestComposeTextEmptyRowSet(t *testing.T) {
	payload, err := Composer{}.Compose(textIntent(""), "how are sales", rowset.RowSet{Columns: []string{"A"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "I couldn't find any data matching your query.", payload.Text)
	assert.Equal(t, 0, payload.DataRecordCount)
	assert.NotNil(t, payload.Data)
}

func TestComposeTextTrendFraming(t *testing.T) {
	payload, err := Composer{}.Compose(textIntent(""), "growth over time", salesRows(6, 10), nil)
	require.NoError(t, err)
	assert.Contains(t, payload.Text, "Time series analysis of 6 data points")
}

func TestComposeChartAttachesSpecAndCount(t *testing.T) {
	it := intent.Intent{
		Kind:             "query",
		Visualization:    intent.VisualizationBar,
		ResponseGuidance: "Beverages lead.",
		ResponseType:     "chart",
	}
	rs := rowset.RowSet{
		Columns: []string{"CategoryName", "TotalSales"},
		Records: []rowset.Record{
			{"CategoryName": "Beverages", "TotalSales": 100.0},
			{"CategoryName": "Seafood", "TotalSales": 50.0},
		},
	}

	payload, err := Composer{}.Compose(it, "sales by category chart", rs, nil)
	require.NoError(t, err)
	assert.Equal(t, "Found 2 records. Beverages lead.", payload.Text)
	require.NotNil(t, payload.Chart)
	assert.Equal(t, "bar", payload.Chart.Kind)
	assert.Equal(t, intent.VisualizationBar, payload.Visualization)
}

func TestComposeChartCountOnlySentenceWithoutGuidance(t *testing.T) {
	it := intent.Intent{Kind: "query", Visualization: intent.VisualizationBar, ResponseType: "chart"}
	rs := rowset.RowSet{
		Columns: []string{"CategoryName", "TotalSales"},
		Records: []rowset.Record{
			{"CategoryName": "Beverages", "TotalSales": 100.0},
			{"CategoryName": "Seafood", "TotalSales": 50.0},
		},
	}

	payload, err := Composer{}.Compose(it, "sales by category chart", rs, nil)
	require.NoError(t, err)
	assert.Equal(t, "Found 2 records matching your query.", payload.Text)
}

func TestComposeTextWithoutGuidanceNarratesRecordCount(t *testing.T) {
	rs := rowset.RowSet{Columns: []string{"ProductName", "TotalSales"}}
	for i := 0; i < 5; i++ {
		rs.Records = append(rs.Records, rowset.Record{"ProductName": "P", "TotalSales": 10.0})
	}

	payload, err := Composer{}.Compose(textIntent(""), "what are our top selling products", rs, nil)
	require.NoError(t, err)
	assert.Contains(t, payload.Text, "Analysis across 5 categories")
}

func TestComposeChartFallbackDowngradesVisualization(t *testing.T) {
	it := intent.Intent{Kind: "query", Visualization: intent.VisualizationBar, ResponseGuidance: "g"}
	rs := rowset.RowSet{
		Columns: []string{"CategoryName", "TotalSales"},
		Records: []rowset.Record{{"CategoryName": "Beverages", "TotalSales": 100.0}},
	}

	payload, err := Composer{}.Compose(it, "chart it", rs, nil)
	require.NoError(t, err)
	require.NotNil(t, payload.Chart)
	assert.Equal(t, "table", payload.Chart.Kind)
	assert.Equal(t, intent.VisualizationTable, payload.Visualization)
}

func TestComposeForecastNarration(t *testing.T) {
	fc := &forecast.Result{
		Historical: []forecast.HistoricalPoint{
			{Date: time.Now().UTC(), Actual: 1},
			{Date: time.Now().UTC(), Actual: 2},
			{Date: time.Now().UTC(), Actual: 3},
		},
		Forecast:    []forecast.Point{{Date: "2025-07-01", Predicted: 4}},
		ModelKind:   "polynomial_degree_1",
		PeriodCount: 4,
	}
	it := intent.Intent{Kind: "forecast", Visualization: intent.VisualizationLine, ResponseGuidance: "g"}

	payload, err := Composer{}.Compose(it, "forecast sales", salesRows(3, 10), fc)
	require.NoError(t, err)
	assert.True(t, payload.HasForecast)
	require.NotNil(t, payload.Forecast)
	assert.Contains(t, payload.Text, "Based on 3 historical data points")
	assert.Contains(t, payload.Text, "next 4 periods")
}

func TestComposeDegradedForecastSurfacesMessage(t *testing.T) {
	fc := &forecast.Result{
		Forecast:     []forecast.Point{},
		ModelKind:    forecast.ModelKindError,
		ErrorMessage: "insufficient data points for forecasting: 2 valid, minimum 3 required",
	}
	it := intent.Intent{Kind: "forecast", Visualization: intent.VisualizationText, ResponseGuidance: "g"}

	payload, err := Composer{}.Compose(it, "forecast sales", salesRows(2, 10), fc)
	require.NoError(t, err)
	assert.False(t, payload.HasForecast)
	assert.Contains(t, payload.Text, "Forecasting was not possible")
	assert.Contains(t, payload.Text, "insufficient data")
}

func TestComposeCarriesFallbackDiagnostic(t *testing.T) {
	it := textIntent("g")
	it.Fallback = true
	it.Note = "oracle is not configured"

	payload, err := Composer{}.Compose(it, "anything", salesRows(1, 10), nil)
	require.NoError(t, err)
	assert.Equal(t, "oracle is not configured", payload.Diagnostic)
}

func TestComposeRejectsMalformedRowSet(t *testing.T) {
	rs := rowset.RowSet{Records: []rowset.Record{{"A": 1}}}
	_, err := Composer{}.Compose(textIntent("g"), "q", rs, nil)
	require.Error(t, err)
	var cerr *CompositionError
	assert.ErrorAs(t, err, &cerr)
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0, "0.00"},
		{999.5, "999.50"},
		{1000, "1,000.00"},
		{1234567.891, "1,234,567.89"},
		{-4500, "-4,500.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatAmount(tt.value), "value %v", tt.value)
	}
}
