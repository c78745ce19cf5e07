package compose

import (
	"fmt"
	"strings"

	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/chart"
	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/forecast"
	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/intent"
	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/rowset"
)

// Payload is the client-facing answer assembled from intent, data, and an
// optional forecast.
type Payload struct {
	Text            string               `json:"response"`
	Data            []rowset.Record      `json:"data"`
	Visualization   intent.Visualization `json:"visualization_type"`
	DataRecordCount int                  `json:"data_record_count"`
	HasForecast     bool                 `json:"has_forecast"`
	Chart           *chart.Spec          `json:"chart_spec,omitempty"`
	Forecast        *forecast.Result     `json:"forecast,omitempty"`
	Diagnostic      string               `json:"diagnostic,omitempty"`
	ExportKey       string               `json:"export_key,omitempty"`
}

// CompositionError marks a terminal failure while shaping the payload.
type CompositionError struct {
	Err error
}

func (e *CompositionError) Error() string {
	return fmt.Sprintf("compose response: %v", e.Err)
}

func (e *CompositionError) Unwrap() error { return e.Err }

type Composer struct{}

// Compose builds the final payload. The forecast block, when present, is
// merged regardless of visualization; a forecast that degraded into an error
// result is surfaced through its own message rather than dropped.
func (Composer) Compose(it intent.Intent, utterance string, rs rowset.RowSet, fc *forecast.Result) (Payload, error) {
	if len(rs.Columns) == 0 && rs.Len() > 0 {
		return Payload{}, &CompositionError{Err: fmt.Errorf("row-set carries %d records but no columns", rs.Len())}
	}

	payload := Payload{
		Data:            rs.Records,
		Visualization:   it.Visualization,
		DataRecordCount: rs.Len(),
	}
	if payload.Data == nil {
		payload.Data = []rowset.Record{}
	}
	if it.Fallback {
		payload.Diagnostic = it.Note
	}

	if fc != nil {
		payload.Forecast = fc
		payload.HasForecast = fc.ModelKind != forecast.ModelKindError
	}

	switch {
	case fc != nil && fc.ModelKind != forecast.ModelKindError:
		payload.Text = fmt.Sprintf(
			"Based on %d historical data points, here is the projection for the next %d periods.",
			len(fc.Historical), fc.PeriodCount)
	case fc != nil:
		payload.Text = fmt.Sprintf("Forecasting was not possible: %s", fc.ErrorMessage)
	case it.Visualization == intent.VisualizationText:
		payload.Text = textNarration(it, utterance, rs)
	default:
		if guidance := strings.TrimSpace(it.ResponseGuidance); guidance != "" {
			payload.Text = fmt.Sprintf("Found %d records. %s", rs.Len(), guidance)
		} else {
			payload.Text = fmt.Sprintf("Found %d records matching your query.", rs.Len())
		}
	}

	if it.Visualization != intent.VisualizationText {
		spec := chart.Build(rs, it.Visualization)
		payload.Chart = &spec
		payload.Visualization = intent.Visualization(spec.Kind)
	}

	return payload, nil
}

// textNarration prefers the classifier's guidance and otherwise synthesizes
// an insight sentence from the data itself.
func textNarration(it intent.Intent, utterance string, rs rowset.RowSet) string {
	if guidance := strings.TrimSpace(it.ResponseGuidance); guidance != "" {
		return guidance
	}
	return dataInsights(utterance, rs, it.ResponseGuidance)
}

func dataInsights(utterance string, rs rowset.RowSet, guidance string) string {
	if rs.Len() == 0 {
		return "I couldn't find any data matching your query."
	}

	lower := strings.ToLower(utterance)
	switch {
	case containsAny(lower, "sales", "revenue", "performance"):
		if rs.Len() > 1 {
			if column, ok := salesColumn(rs); ok {
				total, count := 0.0, 0
				for _, record := range rs.Records {
					if value, okValue := rowset.CoerceFloat(record[column]); okValue {
						total += value
						count++
					}
				}
				if count > 0 {
					average := total / float64(count)
					strength := "moderate"
					if average > 1000 {
						strength = "strong"
					}
					return fmt.Sprintf(
						"Analysis of %d data points reveals total sales of $%s with an average of $%s per record. This shows %s performance across the dataset.",
						rs.Len(), formatAmount(total), formatAmount(average), strength)
				}
			}
		}
		return fmt.Sprintf("Analysis of %d data points shows interesting sales patterns and performance metrics.", rs.Len())
	case containsAny(lower, "trend", "time", "growth", "over time"):
		return fmt.Sprintf("Time series analysis of %d data points reveals trends and patterns over the specified period.", rs.Len())
	case containsAny(lower, "category", "product", "employee", "region"):
		return fmt.Sprintf("Analysis across %d categories shows performance distribution and comparative insights.", rs.Len())
	case containsAny(lower, "customer", "order", "purchase"):
		return fmt.Sprintf("Customer and order analysis of %d records provides valuable business insights and patterns.", rs.Len())
	}

	if strings.TrimSpace(guidance) == "" {
		guidance = "The data reveals important patterns and trends that can inform business decisions."
	}
	return fmt.Sprintf("Based on the analysis of %d data points, here are the key insights: %s", rs.Len(), guidance)
}

// salesColumn finds the first column whose name contains "Sales"
// (case-sensitive, matching the aliases the SQL tier emits).
func salesColumn(rs rowset.RowSet) (string, bool) {
	for _, column := range rs.Columns {
		if strings.Contains(column, "Sales") {
			return column, true
		}
	}
	return "", false
}

func containsAny(value string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(value, keyword) {
			return true
		}
	}
	return false
}

// formatAmount renders a value with thousands separators and two decimals.
func formatAmount(value float64) string {
	negative := value < 0
	if negative {
		value = -value
	}
	whole := fmt.Sprintf("%.2f", value)
	dot := strings.IndexByte(whole, '.')
	intPart, fracPart := whole[:dot], whole[dot:]

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}
	result := grouped.String() + fracPart
	if negative {
		return "-" + result
	}
	return result
}
