package chart

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/intent"
	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/rowset"
)

// Spec describes a renderable chart or table. Charts carry labels plus one
// value series; tables carry literal records plus column descriptors.
type Spec struct {
	Kind    string             `json:"type"`
	Title   string             `json:"title,omitempty"`
	Labels  []string           `json:"labels,omitempty"`
	Series  []Series           `json:"series,omitempty"`
	Records []rowset.Record    `json:"records,omitempty"`
	Columns []ColumnDescriptor `json:"columns,omitempty"`
}

type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

type ColumnDescriptor struct {
	Field      string `json:"field"`
	HeaderName string `json:"header_name"`
}

// Build shapes a row-set for the requested visualization. When the data
// cannot support the requested chart (too few rows, missing axis kinds) it
// fails over to a table rendering rather than erroring.
func Build(rs rowset.RowSet, vis intent.Visualization) Spec {
	switch vis {
	case intent.VisualizationBar:
		if spec, ok := buildCategorical(rs, "bar"); ok {
			return spec
		}
	case intent.VisualizationPie:
		if spec, ok := buildCategorical(rs, "pie"); ok {
			return spec
		}
	case intent.VisualizationLine:
		if spec, ok := buildLine(rs); ok {
			return spec
		}
	}
	return buildTable(rs)
}

// buildCategorical covers bar and pie: first text column is the category
// axis, first numeric column the value axis, minimum two rows.
func buildCategorical(rs rowset.RowSet, kind string) (Spec, bool) {
	if rs.Len() < 2 {
		return Spec{}, false
	}
	categoryColumn, okCategory := rs.FirstTextColumn()
	valueColumn, okValue := rs.FirstNumericColumn()
	if !okCategory || !okValue {
		return Spec{}, false
	}

	labels := make([]string, 0, rs.Len())
	values := make([]float64, 0, rs.Len())
	for _, record := range rs.Records {
		value, _ := rowset.CoerceFloat(record[valueColumn])
		labels = append(labels, fmt.Sprint(record[categoryColumn]))
		values = append(values, value)
	}

	title := fmt.Sprintf("%s by %s", valueColumn, categoryColumn)
	if kind == "pie" {
		title = fmt.Sprintf("Distribution of %s by %s", valueColumn, categoryColumn)
	}
	return Spec{
		Kind:   kind,
		Title:  title,
		Labels: labels,
		Series: []Series{{Name: valueColumn, Values: values}},
	}, true
}

func buildLine(rs rowset.RowSet) (Spec, bool) {
	if rs.Len() < 3 {
		return Spec{}, false
	}
	dateColumn, ok := detectLineDateColumn(rs)
	if !ok {
		return Spec{}, false
	}
	valueColumn, ok := rs.FirstNumericColumn()
	if !ok {
		return Spec{}, false
	}

	type linePoint struct {
		label  string
		date   time.Time
		sorted bool
		value  float64
	}
	points := make([]linePoint, 0, rs.Len())
	for _, record := range rs.Records {
		value, _ := rowset.CoerceFloat(record[valueColumn])
		point := linePoint{value: value, label: fmt.Sprint(record[dateColumn])}
		if date, okDate := rowset.CoerceDate(record[dateColumn]); okDate {
			point.date = date
			point.sorted = true
			point.label = date.Format("2006-01-02")
		}
		points = append(points, point)
	}

	// Sort by the coerced date axis; rows that resisted coercion keep
	// their original relative position at the end.
	sort.SliceStable(points, func(i, j int) bool {
		if points[i].sorted != points[j].sorted {
			return points[i].sorted
		}
		return points[i].date.Before(points[j].date)
	})

	labels := make([]string, 0, len(points))
	values := make([]float64, 0, len(points))
	for _, point := range points {
		labels = append(labels, point.label)
		values = append(values, point.value)
	}

	return Spec{
		Kind:   "line",
		Title:  fmt.Sprintf("%s Trend", valueColumn),
		Labels: labels,
		Series: []Series{{Name: valueColumn, Values: values}},
	}, true
}

// detectLineDateColumn prefers a column with a date-like name. When no name
// matches it falls back to the first column whose leading non-nil value
// coerces to a date, so aliased time axes ("Day", "Period") still chart as
// lines rather than dropping to a table.
func detectLineDateColumn(rs rowset.RowSet) (string, bool) {
	for _, column := range rs.Columns {
		lower := strings.ToLower(column)
		if strings.Contains(lower, "date") || strings.Contains(lower, "time") {
			return column, true
		}
	}
	for _, column := range rs.Columns {
		for _, record := range rs.Records {
			value, ok := record[column]
			if !ok || value == nil {
				continue
			}
			if _, okDate := rowset.CoerceDate(value); okDate {
				return column, true
			}
			break
		}
	}
	return "", false
}

func buildTable(rs rowset.RowSet) Spec {
	columns := make([]ColumnDescriptor, 0, len(rs.Columns))
	for _, column := range rs.Columns {
		columns = append(columns, ColumnDescriptor{Field: column, HeaderName: column})
	}
	records := rs.Records
	if records == nil {
		records = []rowset.Record{}
	}
	return Spec{Kind: "table", Records: records, Columns: columns}
}
