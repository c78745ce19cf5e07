package rowset

import (
	"strconv"
	"strings"
	"time"
)

// Record maps column names to scalar values (string, number, time, nil).
type Record map[string]any

// RowSet is the ordered result of a query. Columns preserves the SELECT
// ordering; Records preserves row ordering.
type RowSet struct {
	Columns []string `json:"columns"`
	Records []Record `json:"records"`
}

func (rs RowSet) Len() int {
	return len(rs.Records)
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006",
}

// CoerceDate converts a scalar to a date. Strings are tried against a fixed
// set of layouts; time.Time values pass through.
func CoerceDate(value any) (time.Time, bool) {
	switch typed := value.(type) {
	case time.Time:
		return typed, true
	case *time.Time:
		if typed == nil {
			return time.Time{}, false
		}
		return *typed, true
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, trimmed); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	case []byte:
		return CoerceDate(string(typed))
	default:
		return time.Time{}, false
	}
}

// CoerceFloat converts a scalar to float64. Numeric strings are accepted.
func CoerceFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int8:
		return float64(typed), true
	case int16:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint:
		return float64(typed), true
	case uint8:
		return float64(typed), true
	case uint16:
		return float64(typed), true
	case uint32:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	case []byte:
		return CoerceFloat(string(typed))
	default:
		return 0, false
	}
}

// IsNumeric reports whether the value carries a numeric type. Unlike
// CoerceFloat it does not treat numeric strings as numbers, so text columns
// holding digit-like labels stay categorical.
func IsNumeric(value any) bool {
	switch value.(type) {
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}

// IsText reports whether the value is a plain string scalar.
func IsText(value any) bool {
	switch value.(type) {
	case string, []byte:
		return true
	default:
		return false
	}
}

// FirstNumericColumn returns the first column whose first non-nil value is
// numeric, honoring column order.
func (rs RowSet) FirstNumericColumn() (string, bool) {
	for _, column := range rs.Columns {
		if rs.columnMatches(column, IsNumeric) {
			return column, true
		}
	}
	return "", false
}

// FirstTextColumn returns the first column whose first non-nil value is text.
func (rs RowSet) FirstTextColumn() (string, bool) {
	for _, column := range rs.Columns {
		if rs.columnMatches(column, IsText) {
			return column, true
		}
	}
	return "", false
}

func (rs RowSet) columnMatches(column string, predicate func(any) bool) bool {
	for _, record := range rs.Records {
		value, ok := record[column]
		if !ok || value == nil {
			continue
		}
		return predicate(value)
	}
	return false
}
