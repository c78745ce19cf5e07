package warehouse

import (
	"context"
	"fmt"
	"strings"

	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/rowset"
)

// QueryError wraps a driver failure during execution. It is terminal for the
// request: the orchestrator does not retry or degrade past it.
type QueryError struct {
	SQL string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query execution failed: %v", e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Run executes a single read query and returns its rows in order. The SQL is
// normalized first: completion oracles habitually wrap statements in fenced
// code blocks, so stripping the fences is part of the contract, not cleanup.
// A dedicated connection is acquired per call and released on every path.
func (w *Warehouse) Run(ctx context.Context, sqlText string) (rowset.RowSet, error) {
	sqlText = StripFences(sqlText)
	if sqlText == "" {
		return rowset.RowSet{}, &QueryError{SQL: sqlText, Err: fmt.Errorf("sql is required")}
	}

	conn, err := w.db.Conn(ctx)
	if err != nil {
		return rowset.RowSet{}, &QueryError{SQL: sqlText, Err: err}
	}
	defer func() { _ = conn.Close() }()

	rows, err := conn.QueryContext(ctx, sqlText)
	if err != nil {
		return rowset.RowSet{}, &QueryError{SQL: sqlText, Err: err}
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return rowset.RowSet{}, &QueryError{SQL: sqlText, Err: err}
	}

	result := rowset.RowSet{Columns: columns, Records: make([]rowset.Record, 0)}
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return rowset.RowSet{}, &QueryError{SQL: sqlText, Err: err}
		}
		record := make(rowset.Record, len(columns))
		for i, column := range columns {
			record[column] = normalizeValue(values[i])
		}
		result.Records = append(result.Records, record)
	}
	if err := rows.Err(); err != nil {
		return rowset.RowSet{}, &QueryError{SQL: sqlText, Err: err}
	}

	return result, nil
}

func normalizeValue(value any) any {
	switch typed := value.(type) {
	case []byte:
		return string(typed)
	default:
		return typed
	}
}

// StripFences removes markdown code-fence markers around a SQL statement.
func StripFences(sqlText string) string {
	trimmed := strings.TrimSpace(sqlText)
	if strings.HasPrefix(trimmed, "```sql") {
		trimmed = strings.TrimPrefix(trimmed, "```sql")
	} else if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
