package rowset

import (
	"testing"
	"time"
)

func TestCoerceDate(t *testing.T) {
	reference := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value any
		want  time.Time
		ok    bool
	}{
		{"time passthrough", reference, reference, true},
		{"iso date", "2025-06-15", reference, true},
		{"datetime with space", "2025-06-15 00:00:00", reference, true},
		{"datetime with T", "2025-06-15T00:00:00", reference, true},
		{"us layout", "06/15/2025", reference, true},
		{"bytes", []byte("2025-06-15"), reference, true},
		{"padded", "  2025-06-15  ", reference, true},
		{"empty string", "", time.Time{}, false},
		{"not a date", "tomorrow", time.Time{}, false},
		{"nil", nil, time.Time{}, false},
		{"number", 42, time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CoerceDate(tt.value)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Fatalf("CoerceDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCoerceFloat(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  float64
		ok    bool
	}{
		{"float64", 1.5, 1.5, true},
		{"int64", int64(7), 7, true},
		{"uint32", uint32(3), 3, true},
		{"numeric string", "42.25", 42.25, true},
		{"padded numeric string", " 10 ", 10, true},
		{"bytes", []byte("2.5"), 2.5, true},
		{"text", "chai", 0, false},
		{"nil", nil, 0, false},
		{"time", time.Now(), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CoerceFloat(tt.value)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Fatalf("CoerceFloat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsNumericRejectsNumericStrings(t *testing.T) {
	if IsNumeric("42") {
		t.Fatal("numeric strings must stay categorical")
	}
	if !IsNumeric(int64(42)) {
		t.Fatal("int64 should be numeric")
	}
	if IsNumeric(nil) {
		t.Fatal("nil should not be numeric")
	}
}

func TestFirstColumnsHonorOrder(t *testing.T) {
	rs := RowSet{
		Columns: []string{"CategoryName", "ProductName", "TotalSales", "UnitPrice"},
		Records: []Record{
			{"CategoryName": "Beverages", "ProductName": "Chai", "TotalSales": 100.0, "UnitPrice": 18.0},
		},
	}

	text, ok := rs.FirstTextColumn()
	if !ok || text != "CategoryName" {
		t.Fatalf("FirstTextColumn() = %q, %v", text, ok)
	}
	numeric, ok := rs.FirstNumericColumn()
	if !ok || numeric != "TotalSales" {
		t.Fatalf("FirstNumericColumn() = %q, %v", numeric, ok)
	}
}

func TestFirstColumnsSkipLeadingNils(t *testing.T) {
	rs := RowSet{
		Columns: []string{"Amount"},
		Records: []Record{
			{"Amount": nil},
			{"Amount": 3.0},
		},
	}
	numeric, ok := rs.FirstNumericColumn()
	if !ok || numeric != "Amount" {
		t.Fatalf("FirstNumericColumn() = %q, %v", numeric, ok)
	}
}

func TestFirstColumnsMissOnEmptyRowSet(t *testing.T) {
	rs := RowSet{Columns: []string{"A"}}
	if _, ok := rs.FirstNumericColumn(); ok {
		t.Fatal("expected no numeric column")
	}
	if _, ok := rs.FirstTextColumn(); ok {
		t.Fatal("expected no text column")
	}
}
